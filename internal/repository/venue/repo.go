package venue

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nightlife/listings/internal/db"
	"github.com/nightlife/listings/internal/domain/bucket"
	"github.com/nightlife/listings/internal/domain/search/plan"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
)

// Collection is the document collection holding venues.
const Collection = "venues"

// buckets is the consumer interface for per-city bucket tables (ISP).
type buckets interface {
	Get(country, city string) (bucket.Table, error)
	Capacity() []float64
}

// Repo implements usecase/search.VenueRepository.
type Repo struct {
	exec    db.Executor
	buckets buckets
}

// New creates a venue repository.
func New(exec db.Executor, b buckets) *Repo {
	return &Repo{exec: exec, buckets: b}
}

// Find runs the result query and decodes the venues, deriving the bucketed
// fields from the venue's city table when one is configured.
func (r *Repo) Find(ctx context.Context, q *plan.Query) ([]domvenue.Venue, error) {
	raws, err := r.exec.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find venues: %w", err)
	}

	capacity := r.buckets.Capacity()
	out := make([]domvenue.Venue, 0, len(raws))
	for _, raw := range raws {
		var dto venueDTO
		if err := bson.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("decode venue: %w", &db.Error{Op: db.OpDecode, Err: err})
		}
		v := dto.toDomain()

		var table *bucket.Table
		if v.Country != "" && v.City != "" {
			// Unconfigured cities only lose their derived fields; filtering
			// already rejected price filters for them.
			if t, err := r.buckets.Get(v.Country, v.City); err == nil {
				table = &t
			}
		}
		v.Derive(capacity, table)
		out = append(out, v)
	}
	return out, nil
}

// Count runs the count query.
func (r *Repo) Count(ctx context.Context, q *plan.CountQuery) (int, error) {
	n, err := r.exec.Count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count venues: %w", err)
	}
	return n, nil
}
