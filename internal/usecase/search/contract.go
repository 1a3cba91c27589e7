package search

import (
	"context"

	"github.com/nightlife/listings/internal/domain/bucket"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/plan"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
)

// VenueRepository defines the storage contract for venue listings.
type VenueRepository interface {
	Find(ctx context.Context, q *plan.Query) ([]domvenue.Venue, error)
	Count(ctx context.Context, q *plan.CountQuery) (int, error)
}

// EventRepository defines the storage contract for event listings.
type EventRepository interface {
	Find(ctx context.Context, q *plan.Query) ([]domevent.Event, error)
	Count(ctx context.Context, q *plan.CountQuery) (int, error)
}

// BucketLookup resolves per-city bucket tables.
type BucketLookup interface {
	Get(country, city string) (bucket.Table, error)
	Capacity() []float64
}
