package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nightlife/listings/internal/domain"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/filter"
	"github.com/nightlife/listings/internal/domain/search/plan"
	"github.com/nightlife/listings/internal/domain/search/predicate"
	"github.com/nightlife/listings/internal/domain/search/result"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
	"github.com/nightlife/listings/internal/metrics"
)

// Resource labels used in logs and metrics.
const (
	ResourceVenues = "venues"
	ResourceEvents = "events"
)

// Config tunes listing searches.
type Config struct {
	// DefaultLimit is the page size when the request names none. MaxLimit
	// caps it. Zero values use the plan package defaults.
	DefaultLimit int
	MaxLimit     int
}

// Page is the requested window of a listing.
type Page struct {
	Offset int
	Limit  int
}

var venueSortFields = map[string]string{
	"name":        domvenue.FieldName,
	"capacity":    domvenue.FieldCapacity,
	"entranceFee": domvenue.FieldEntranceFee,
	"coke":        domvenue.FieldCokePrice,
	"beer":        domvenue.FieldBeerPrice,
	"createdAt":   domvenue.FieldCreatedAt,
}

// venueDependencies keeps the location whenever a field derived from the
// city's bucket table is requested.
var venueDependencies = map[string][]string{
	"capacity":         {domvenue.FieldLocation},
	"prices":           {domvenue.FieldLocation},
	"entranceFee":      {domvenue.FieldLocation},
	"currency":         {domvenue.FieldLocation},
	"priceClass":       {domvenue.FieldPrices, domvenue.FieldLocation},
	"capacityRange":    {domvenue.FieldCapacity},
	"entranceFeeRange": {domvenue.FieldEntranceFee, domvenue.FieldLocation},
}

var eventSortFields = map[string]string{
	"title":     domevent.FieldTitle,
	"date":      domevent.FieldDate,
	"createdAt": domevent.FieldCreatedAt,
}

// Service lists venues and events.
type Service struct {
	venues  VenueRepository
	events  EventRepository
	buckets BucketLookup
	cfg     Config
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to resolve openNow.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a search service. logger can be nil.
func New(
	venues VenueRepository, events EventRepository, buckets BucketLookup,
	cfg Config, logger *zap.Logger, opts ...Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		venues:  venues,
		events:  events,
		buckets: buckets,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListVenues returns one page of venues matching raw query parameters.
func (s *Service) ListVenues(
	ctx context.Context, raw url.Values, page Page,
) (result.Page[domvenue.Venue], error) {
	items, q, total, err := s.listVenues(ctx, raw, page)
	if err != nil {
		s.fail(ctx, ResourceVenues, err)
		return result.Page[domvenue.Venue]{}, err
	}
	return result.NewPage(items, q.Skip, q.Limit, total), nil
}

func (s *Service) listVenues(
	ctx context.Context, raw url.Values, page Page,
) ([]domvenue.Venue, plan.Query, int, error) {
	spec, err := filter.Normalize(raw, filter.Venues, s.now)
	if err != nil {
		return nil, plan.Query{}, 0, err
	}
	pred, err := buildVenuePredicate(spec, s.buckets)
	if err != nil {
		return nil, plan.Query{}, 0, err
	}

	opts := s.options(spec, page, domvenue.FieldTags, venueSortFields, domvenue.FieldName)
	opts.GeoField = domvenue.FieldGeo
	opts.Dependencies = venueDependencies
	if p, ok := spec.Point(); ok {
		opts.Point = &p
	}

	return execute(ctx, s, ResourceVenues, s.venues, pred, opts)
}

// ListEvents returns one page of events matching raw query parameters.
func (s *Service) ListEvents(
	ctx context.Context, raw url.Values, page Page,
) (result.Page[domevent.Event], error) {
	items, q, total, err := s.listEvents(ctx, raw, page)
	if err != nil {
		s.fail(ctx, ResourceEvents, err)
		return result.Page[domevent.Event]{}, err
	}
	return result.NewPage(items, q.Skip, q.Limit, total), nil
}

func (s *Service) listEvents(
	ctx context.Context, raw url.Values, page Page,
) ([]domevent.Event, plan.Query, int, error) {
	spec, err := filter.Normalize(raw, filter.Events, s.now)
	if err != nil {
		return nil, plan.Query{}, 0, err
	}
	opts := s.options(spec, page, domevent.FieldTags, eventSortFields, domevent.FieldTitle)
	return execute(ctx, s, ResourceEvents, s.events, buildEventPredicate(spec), opts)
}

func (s *Service) options(
	spec filter.Spec, page Page, rankField string, sortFields map[string]string, defaultSort string,
) plan.Options {
	opts := plan.Options{
		RankField:    rankField,
		SortFields:   sortFields,
		DefaultSort:  plan.SortKey{Field: defaultSort, Direction: plan.Ascending},
		Offset:       page.Offset,
		Limit:        page.Limit,
		DefaultLimit: s.cfg.DefaultLimit,
		MaxLimit:     s.cfg.MaxLimit,
	}
	opts.RankTags, _ = spec.Set(filter.ParamTags)
	opts.Sort, _ = spec.Set(filter.ParamSort)
	opts.Fields, _ = spec.Set(filter.ParamFields)
	return opts
}

type lister[T any] interface {
	Find(ctx context.Context, q *plan.Query) ([]T, error)
	Count(ctx context.Context, q *plan.CountQuery) (int, error)
}

// execute plans the queries and runs the result and count queries
// concurrently. A failure of either fails the search; a partial page is
// never returned.
func execute[T any](
	ctx context.Context, s *Service, resource string, repo lister[T],
	pred *predicate.Node, opts plan.Options,
) ([]T, plan.Query, int, error) {
	q, cq, err := plan.Build(pred, opts)
	if err != nil {
		return nil, plan.Query{}, 0, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(resource, string(q.Mode)).Inc()

	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer observe(resource, "find", time.Now())
		found, err := repo.Find(gctx, &q)
		if err != nil {
			return fmt.Errorf("find %s: %w", resource, err)
		}
		items = found
		return nil
	})
	g.Go(func() error {
		defer observe(resource, "count", time.Now())
		n, err := repo.Count(gctx, &cq)
		if err != nil {
			return fmt.Errorf("count %s: %w", resource, err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, plan.Query{}, 0, err
	}

	s.logger.Debug("listing search",
		zap.String("resource", resource),
		zap.String("mode", string(q.Mode)),
		zap.Int("returned", len(items)),
		zap.Int("total", total),
	)
	return items, q, total, nil
}

func observe(resource, query string, start time.Time) {
	metrics.SearchQueryDuration.WithLabelValues(resource, query).Observe(time.Since(start).Seconds())
}

func (s *Service) fail(ctx context.Context, resource string, err error) {
	kind := ErrorKind(err)
	metrics.SearchErrorsTotal.WithLabelValues(resource, kind).Inc()
	if kind == kindStorage {
		s.logger.Warn("listing search failed",
			zap.String("resource", resource),
			zap.Bool("ctx_done", ctx.Err() != nil),
			zap.Error(err),
		)
	}
}

const (
	kindInvalid      = "invalid_argument"
	kindPrecondition = "precondition_failed"
	kindCanceled     = "canceled"
	kindStorage      = "storage"
	kindInternal     = "internal"
)

// ErrorKind classifies a search error for metrics.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return kindInvalid
	case errors.Is(err, domain.ErrPreconditionFailed):
		return kindPrecondition
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return kindCanceled
	case errors.Is(err, domain.ErrStorage):
		return kindStorage
	default:
		return kindInternal
	}
}
