package search

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/nightlife/listings/internal/domain/bucket"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/filter"
	"github.com/nightlife/listings/internal/domain/search/plan"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
)

// Friday 2024-01-05 23:00 UTC.
var fixedNow = func() time.Time { return time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC) }

func testLookup(t *testing.T) *bucket.Lookup {
	t.Helper()
	l, err := bucket.NewLookup([]float64{0, 50, 100, 200}, []bucket.Table{{
		Country:      "nl",
		City:         "amsterdam",
		Currency:     "EUR",
		CokePrices:   []float64{0, 2.3, 2.8, 3.3},
		BeerPrices:   []float64{0, 2.4, 3, 3.6},
		EntranceFees: []float64{0, 5, 10, 20},
	}})
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	return l
}

func venueSpec(t *testing.T, raw url.Values) filter.Spec {
	t.Helper()
	s, err := filter.Normalize(raw, filter.Venues, fixedNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return s
}

// mockVenues implements VenueRepository for tests.
type mockVenues struct {
	findFn  func(ctx context.Context, q *plan.Query) ([]domvenue.Venue, error)
	countFn func(ctx context.Context, q *plan.CountQuery) (int, error)
}

func (m *mockVenues) Find(ctx context.Context, q *plan.Query) ([]domvenue.Venue, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockVenues) Count(ctx context.Context, q *plan.CountQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

// mockEvents implements EventRepository for tests.
type mockEvents struct {
	findFn  func(ctx context.Context, q *plan.Query) ([]domevent.Event, error)
	countFn func(ctx context.Context, q *plan.CountQuery) (int, error)
}

func (m *mockEvents) Find(ctx context.Context, q *plan.Query) ([]domevent.Event, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockEvents) Count(ctx context.Context, q *plan.CountQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}
