package listings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/nightlife/listings/internal/db"
	"github.com/nightlife/listings/internal/db/memory"
	dbMongo "github.com/nightlife/listings/internal/db/mongo"
	dbValkey "github.com/nightlife/listings/internal/db/valkey"
	"github.com/nightlife/listings/internal/domain/bucket"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/result"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
	bucketrepo "github.com/nightlife/listings/internal/repository/bucket"
	eventrepo "github.com/nightlife/listings/internal/repository/event"
	venuerepo "github.com/nightlife/listings/internal/repository/venue"
	healthuc "github.com/nightlife/listings/internal/usecase/health"
	searchuc "github.com/nightlife/listings/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultConnectTimeout   = 10 * time.Second
	defaultQueryTimeout     = 5 * time.Second
	defaultBucketPrefix     = "listings:buckets:"
)

// Internal interface for substitution in tests.
type searchUseCase interface {
	ListVenues(ctx context.Context, raw url.Values, page searchuc.Page) (result.Page[domvenue.Venue], error)
	ListEvents(ctx context.Context, raw url.Values, page searchuc.Page) (result.Page[domevent.Event], error)
}

// Client is the listings SDK entry point.
type Client struct {
	store     db.Store
	kv        *dbValkey.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, connects to the document store and loads the bucket
// tables. The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("listings: document store required (use WithMongo or WithMemory)")
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	lookup, kv, err := loadBuckets(ctx, cfg)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		_ = store.Close(ctx)
		if kv != nil {
			kv.Close()
		}
		return nil, err
	}
	return wireClient(store, kv, lookup, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		s := memory.NewStore()
		if cfg.seed != nil {
			if err := s.Load(cfg.seed); err != nil {
				return nil, fmt.Errorf("listings: seed memory store: %w", err)
			}
		}
		return s, nil
	case driverMongo:
		s, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:            cfg.uri,
			Database:       cfg.database,
			ConnectTimeout: defaultConnectTimeout,
			QueryTimeout:   defaultQueryTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("listings: create mongodb store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("listings: database not ready: %w", err)
		}
		if err := s.EnsureGeoIndex(ctx, venuerepo.Collection, domvenue.FieldGeo); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("listings: ensure geo index: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("listings: unknown driver %q", cfg.driver)
	}
}

// loadBuckets builds the bucket lookup from the options, or from Valkey when
// WithValkeyBuckets is set. The returned store is nil in the former case.
func loadBuckets(ctx context.Context, cfg *clientConfig) (*bucket.Lookup, *dbValkey.Store, error) {
	if cfg.valkeyAddr == "" {
		lookup, err := bucket.NewLookup(cfg.capacity, cfg.tables)
		if err != nil {
			return nil, nil, fmt.Errorf("listings: buckets: %w", err)
		}
		return lookup, nil, nil
	}

	kv, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    []string{cfg.valkeyAddr},
		Password: cfg.valkeyPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("listings: create valkey store: %w", err)
	}
	if err := kv.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		kv.Close()
		return nil, nil, fmt.Errorf("listings: valkey not ready: %w", err)
	}
	prefix := cfg.valkeyPrefix
	if prefix == "" {
		prefix = defaultBucketPrefix
	}
	lookup, err := bucketrepo.NewLoader(kv, prefix).Load(ctx, cfg.capacity)
	if err != nil {
		kv.Close()
		return nil, nil, fmt.Errorf("listings: load buckets: %w", err)
	}
	return lookup, kv, nil
}

func wireClient(store db.Store, kv *dbValkey.Store, lookup *bucket.Lookup, cfg *clientConfig, obs *observer) *Client {
	venues := venuerepo.New(store.Collection(venuerepo.Collection), lookup)
	events := eventrepo.New(store.Collection(eventrepo.Collection))

	searchSvc := searchuc.New(venues, events, lookup, searchuc.Config{
		DefaultLimit: cfg.defaultLimit,
		MaxLimit:     cfg.maxLimit,
	}, zap.NewNop())

	// A typed nil would report the bucket store as failing.
	var bucketPing healthuc.Pinger
	if kv != nil {
		bucketPing = kv
	}

	return &Client{
		store:     store,
		kv:        kv,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, bucketPing),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		_ = c.store.Close(context.Background())
	}
	if c.kv != nil {
		c.kv.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Venues returns one page of venues matching q. A nil q matches every venue.
func (c *Client) Venues(ctx context.Context, q *Query) (page VenuePage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("venues", start, err) }()

	raw, p := q.build()
	page, err = c.searchSvc.ListVenues(ctx, raw, p)
	if err != nil {
		return VenuePage{}, fmt.Errorf("list venues: %w", err)
	}
	return page, nil
}

// Events returns one page of events matching q. A nil q matches every event.
func (c *Client) Events(ctx context.Context, q *Query) (page EventPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("events", start, err) }()

	raw, p := q.build()
	page, err = c.searchSvc.ListEvents(ctx, raw, p)
	if err != nil {
		return EventPage{}, fmt.Errorf("list events: %w", err)
	}
	return page, nil
}
