package venue

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nightlife/listings/internal/domain/bucket"
	"github.com/nightlife/listings/internal/domain/search/plan"
)

// mockExecutor implements db.Executor for tests.
type mockExecutor struct {
	findFn  func(ctx context.Context, q *plan.Query) ([]bson.Raw, error)
	countFn func(ctx context.Context, q *plan.CountQuery) (int, error)
}

func (m *mockExecutor) Find(ctx context.Context, q *plan.Query) ([]bson.Raw, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockExecutor) Count(ctx context.Context, q *plan.CountQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

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

func newTestRepo(t *testing.T) (*Repo, *mockExecutor) {
	t.Helper()
	me := &mockExecutor{}
	return New(me, testLookup(t)), me
}

func mustRaw(t *testing.T, doc any) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return raw
}
