package venue

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nightlife/listings/internal/db"
	"github.com/nightlife/listings/internal/domain"
	"github.com/nightlife/listings/internal/domain/search/plan"
)

func TestFind_DecodesAndDerives(t *testing.T) {
	repo, me := newTestRepo(t)
	oid := primitive.NewObjectID()

	me.findFn = func(_ context.Context, q *plan.Query) ([]bson.Raw, error) {
		if q.Limit != 20 {
			t.Errorf("Limit = %d", q.Limit)
		}
		return []bson.Raw{mustRaw(t, bson.M{
			"_id":  oid,
			"name": "Paradiso",
			"location": bson.M{
				"country": "nl", "city": "amsterdam",
				"geo": bson.M{"type": "Point", "coordinates": bson.A{4.8838, 52.3622}},
			},
			"capacity":     int32(75),
			"entranceFee":  12.5,
			"prices":       bson.M{"coke": 2.5, "beer": 3.2},
			"doorPolicy":   bson.M{"policy": "strict"},
			"facebook":     bson.M{"id": "paradisoadam"},
			"openingHours": bson.M{"fri": bson.M{"from": int32(72000), "to": int32(86399)}},
			"busyFrom":     bson.M{"fri": int32(82800)},
		})}, nil
	}

	venues, err := repo.Find(context.Background(), &plan.Query{Limit: 20})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(venues) != 1 {
		t.Fatalf("len = %d", len(venues))
	}
	v := venues[0]
	if v.ID != oid.Hex() || v.Name != "Paradiso" || v.City != "amsterdam" {
		t.Errorf("venue = %+v", v)
	}
	if v.Point == nil || v.Point.Longitude != 4.8838 {
		t.Errorf("Point = %+v", v.Point)
	}
	if v.DoorPolicy != "strict" || v.FacebookID != "paradisoadam" {
		t.Errorf("DoorPolicy=%q FacebookID=%q", v.DoorPolicy, v.FacebookID)
	}
	if v.OpeningHours["fri"].From != 72000 || v.BusyFrom["fri"] != 82800 {
		t.Errorf("schedules = %+v %+v", v.OpeningHours, v.BusyFrom)
	}
	if v.PriceClass == nil || *v.PriceClass != 2 {
		t.Errorf("PriceClass = %v", v.PriceClass)
	}
	if v.CapacityRange == nil || v.CapacityRange.Low != 50 {
		t.Errorf("CapacityRange = %+v", v.CapacityRange)
	}
	if v.Currency != "EUR" {
		t.Errorf("Currency = %q", v.Currency)
	}
}

func TestFind_UnconfiguredCityKeepsVenue(t *testing.T) {
	repo, me := newTestRepo(t)
	me.findFn = func(context.Context, *plan.Query) ([]bson.Raw, error) {
		return []bson.Raw{mustRaw(t, bson.M{
			"_id":      "legacy-1",
			"name":     "Tresor",
			"location": bson.M{"country": "de", "city": "berlin"},
			"prices":   bson.M{"beer": 4.0},
		})}, nil
	}

	venues, err := repo.Find(context.Background(), &plan.Query{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if venues[0].ID != "legacy-1" {
		t.Errorf("ID = %q", venues[0].ID)
	}
	if venues[0].PriceClass != nil || venues[0].Currency != "" {
		t.Error("derived fields should be empty for an unconfigured city")
	}
}

func TestFind_StorageError(t *testing.T) {
	repo, me := newTestRepo(t)
	me.findFn = func(context.Context, *plan.Query) ([]bson.Raw, error) {
		return nil, &db.Error{Op: db.OpAggregate, Err: errors.New("connection reset")}
	}

	_, err := repo.Find(context.Background(), &plan.Query{})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestFind_DecodeError(t *testing.T) {
	repo, me := newTestRepo(t)
	me.findFn = func(context.Context, *plan.Query) ([]bson.Raw, error) {
		return []bson.Raw{mustRaw(t, bson.M{"_id": "x", "capacity": "huge"})}, nil
	}

	_, err := repo.Find(context.Background(), &plan.Query{})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestCount(t *testing.T) {
	repo, me := newTestRepo(t)
	me.countFn = func(context.Context, *plan.CountQuery) (int, error) { return 7, nil }

	n, err := repo.Count(context.Background(), &plan.CountQuery{})
	if err != nil || n != 7 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	me.countFn = func(context.Context, *plan.CountQuery) (int, error) {
		return 0, &db.Error{Op: db.OpCount, Err: errors.New("timeout")}
	}
	if _, err := repo.Count(context.Background(), &plan.CountQuery{}); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
