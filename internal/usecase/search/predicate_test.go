package search

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nightlife/listings/internal/domain"
	"github.com/nightlife/listings/internal/domain/bucket"
	"github.com/nightlife/listings/internal/domain/search/filter"
	"github.com/nightlife/listings/internal/domain/search/predicate"
)

func mustVenuePredicate(t *testing.T, raw url.Values) *predicate.Node {
	t.Helper()
	p, err := buildVenuePredicate(venueSpec(t, raw), testLookup(t))
	if err != nil {
		t.Fatalf("buildVenuePredicate: %v", err)
	}
	return p
}

func TestBuildVenuePredicate_EmptySpec(t *testing.T) {
	if p := mustVenuePredicate(t, url.Values{}); p != nil {
		t.Errorf("empty spec should build a nil predicate, got kind %v", p.Kind())
	}
}

func TestBuildVenuePredicate_Deterministic(t *testing.T) {
	raw := url.Values{
		"country":    {"nl"},
		"city":       {"amsterdam"},
		"categories": {"club,bar"},
		"priceClass": {"2"},
		"capacity":   {"75"},
		"openNow":    {"true"},
		"terrace":    {"true"},
		"text":       {"Café"},
	}
	a := mustVenuePredicate(t, raw)
	b := mustVenuePredicate(t, raw)
	if !predicate.Equal(a, b) {
		t.Error("same spec should build identical predicates")
	}
}

func TestBuildVenuePredicate_DoorPolicyNone(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"doorPolicy": {"none,strict"}})

	tests := []struct {
		name string
		doc  map[string]any
		want bool
	}{
		{"absent", map[string]any{"name": "a"}, true},
		{"strict", map[string]any{"doorPolicy": map[string]any{"policy": "strict"}}, true},
		{"relaxed", map[string]any{"doorPolicy": map[string]any{"policy": "relaxed"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Match(tt.doc); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildVenuePredicate_PriceClassPreconditions(t *testing.T) {
	tests := []struct {
		name     string
		raw      url.Values
		wantKind error
		wantType string
	}{
		{"no city", url.Values{"priceClass": {"2"}, "country": {"nl"}}, domain.ErrPreconditionFailed, domain.TypeMissingCity},
		{"unconfigured city", url.Values{"priceClass": {"2"}, "country": {"de"}, "city": {"berlin"}}, domain.ErrPreconditionFailed, domain.TypeUnconfiguredCity},
		{"not a class", url.Values{"priceClass": {"cheap"}, "country": {"nl"}, "city": {"amsterdam"}}, domain.ErrInvalidArgument, domain.TypeInvalidBucket},
		{"class too high", url.Values{"priceClass": {"4"}, "country": {"nl"}, "city": {"amsterdam"}}, domain.ErrInvalidArgument, domain.TypeInvalidBucket},
		{"entrance fee without city", url.Values{"entranceFee": {"7"}}, domain.ErrPreconditionFailed, domain.TypeMissingCity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := buildVenuePredicate(venueSpec(t, tt.raw), testLookup(t))
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}
			if domain.TypeOf(err) != tt.wantType {
				t.Errorf("type = %q, want %q", domain.TypeOf(err), tt.wantType)
			}
			if p != nil {
				t.Error("a failed build must not return a partial predicate")
			}
		})
	}
}

func TestBuildVenuePredicate_PriceClassMatchesClassifier(t *testing.T) {
	lookup := testLookup(t)
	table, _ := lookup.Get("nl", "amsterdam")
	prices := []float64{0.5, 2.3, 2.5, 2.9, 3.2, 3.4, 4}

	for class := 0; class < table.PriceClasses(); class++ {
		p := mustVenuePredicate(t, url.Values{
			"priceClass": {fmt.Sprint(class)}, "country": {"nl"}, "city": {"amsterdam"},
		})
		for _, coke := range append(prices, -1) {
			for _, beer := range append(prices, -1) {
				doc := map[string]any{}
				var c, b *float64
				pricesDoc := map[string]any{}
				if coke >= 0 {
					c = &coke
					pricesDoc["coke"] = coke
				}
				if beer >= 0 {
					b = &beer
					pricesDoc["beer"] = beer
				}
				doc["prices"] = pricesDoc

				got, ok := bucket.PriceClass(table, c, b)
				want := ok && got == class
				if p.Match(doc) != want {
					t.Errorf("class %d coke=%v beer=%v: Match = %v, want %v", class, coke, beer, !want, want)
				}
			}
		}
	}
}

func TestBuildVenuePredicate_Capacity(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"capacity": {"75", "250"}})
	for capacity, want := range map[float64]bool{10: false, 50: true, 99: true, 100: false, 199: false, 200: true, 5000: true} {
		if got := p.Match(map[string]any{"capacity": capacity}); got != want {
			t.Errorf("capacity %v: Match = %v, want %v", capacity, got, want)
		}
	}

	for _, bad := range []string{"lots", "-5"} {
		_, err := buildVenuePredicate(venueSpec(t, url.Values{"capacity": {bad}}), testLookup(t))
		if domain.TypeOf(err) != domain.TypeInvalidBucket {
			t.Errorf("capacity %q: expected invalid_bucket, got %v", bad, err)
		}
	}
}

func TestBuildVenuePredicate_EntranceFee(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"entranceFee": {"7"}, "country": {"nl"}, "city": {"amsterdam"}})
	for fee, want := range map[float64]bool{0: false, 5: true, 9.99: true, 10: false} {
		doc := map[string]any{"entranceFee": fee, "location": map[string]any{"country": "nl", "city": "amsterdam"}}
		if got := p.Match(doc); got != want {
			t.Errorf("fee %v: Match = %v, want %v", fee, got, want)
		}
	}
}

func TestBuildVenuePredicate_NoEntranceFeeAndBouncers(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"noEntranceFee": {"true"}, "noBouncers": {"true"}})

	tests := []struct {
		name string
		doc  map[string]any
		want bool
	}{
		{"free", map[string]any{"entranceFee": 0.0}, true},
		{"fee unknown", map[string]any{}, true},
		{"paid", map[string]any{"entranceFee": 5.0}, false},
		{"bouncers", map[string]any{"facilities": []any{"bouncers", "terrace"}}, false},
		{"no bouncers", map[string]any{"facilities": []any{"terrace"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Match(tt.doc); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}

	if p := mustVenuePredicate(t, url.Values{"noEntranceFee": {"false"}}); p != nil {
		t.Error("noEntranceFee=false should not filter")
	}
}

func TestBuildVenuePredicate_Facilities(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"terrace": {"true"}, "kitchen": {"true"}, "parking": {"false"}})
	if !p.Match(map[string]any{"facilities": []any{"kitchen", "terrace", "vipArea"}}) {
		t.Error("venue with both facilities should match")
	}
	if p.Match(map[string]any{"facilities": []any{"terrace"}}) {
		t.Error("venue missing kitchen should not match")
	}
}

func TestBuildVenuePredicate_FacilityTags(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"coatCheck": {"true"}, "smokingArea": {"true"}})
	if !p.Match(map[string]any{"facilities": []any{"cloakroom", "smoking-area"}}) {
		t.Error("flags should match the stored facility tags")
	}
	if p.Match(map[string]any{"facilities": []any{"coatCheck", "smokingArea"}}) {
		t.Error("flag names are not stored tags")
	}
}

func TestBuildVenuePredicate_OpenAt(t *testing.T) {
	// 23:00 on a Friday is 82800 seconds into "fri".
	p := mustVenuePredicate(t, url.Values{"openNow": {"true"}})
	hours := func(from, to int) map[string]any {
		return map[string]any{"openingHours": map[string]any{"fri": map[string]any{"from": from, "to": to}}}
	}

	tests := []struct {
		name string
		doc  map[string]any
		want bool
	}{
		{"open past midnight", hours(72000, 93600), true},
		{"opens exactly now", hours(82800, 93600), true},
		{"closes exactly now", hours(72000, 82800), false},
		{"opens later", hours(84000, 93600), false},
		{"closed on friday", map[string]any{"openingHours": map[string]any{"sat": map[string]any{"from": 0, "to": 86400}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Match(tt.doc); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildVenuePredicate_BitesUntil(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"bitesAt": {"2024-01-05T21:00:00Z"}})
	doc := func(until int) map[string]any {
		return map[string]any{
			"openingHours": map[string]any{"fri": map[string]any{"from": 64800, "to": 93600}},
			"bitesUntil":   map[string]any{"fri": until},
		}
	}
	if !p.Match(doc(79200)) {
		t.Error("bites served until 22:00 should match 21:00")
	}
	if p.Match(doc(75600)) {
		t.Error("bites served until 21:00 should not match 21:00")
	}
}

func TestBuildVenuePredicate_TextAndSets(t *testing.T) {
	p := mustVenuePredicate(t, url.Values{"text": {"Café"}, "musicTypes": {"techno,house"}, "hasFacebookId": {"true"}})
	match := map[string]any{
		"normalizedName": "le cafe noir",
		"musicTypes":     []any{"house"},
		"facebook":       map[string]any{"id": "123"},
	}
	if !p.Match(match) {
		t.Error("expected match")
	}
	noFB := map[string]any{"normalizedName": "le cafe noir", "musicTypes": []any{"house"}}
	if p.Match(noFB) {
		t.Error("hasFacebookId=true should exclude venues without one")
	}
}

func TestBuildVenuePredicate_IDs(t *testing.T) {
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	p := mustVenuePredicate(t, url.Values{"ids": {keep.Hex(), drop.Hex()}, "excludeIds": {drop.Hex()}})
	if !p.Match(map[string]any{"_id": keep}) {
		t.Error("listed id should match")
	}
	if p.Match(map[string]any{"_id": drop}) {
		t.Error("excluded id should not match")
	}
}

func TestBuildEventPredicate(t *testing.T) {
	venueID := primitive.NewObjectID()
	spec, err := filter.Normalize(url.Values{
		"venue":    {venueID.Hex()},
		"tagged":   {"true"},
		"dateFrom": {"2024-05-01"},
		"dateTo":   {"2024-05-03"},
		"text":     {"Techno Night"},
	}, filter.Events, fixedNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := buildEventPredicate(spec)

	base := func() map[string]any {
		return map[string]any{
			"venue":           venueID,
			"tags":            []any{"techno"},
			"date":            time.Date(2024, 5, 2, 22, 0, 0, 0, time.UTC),
			"normalizedTitle": "friday techno night",
		}
	}

	if !p.Match(base()) {
		t.Fatal("expected base event to match")
	}

	untagged := base()
	untagged["tags"] = []any{}
	if p.Match(untagged) {
		t.Error("tagged=true should exclude events with no tags")
	}

	late := base()
	late["date"] = time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if p.Match(late) {
		t.Error("dateTo is exclusive")
	}

	other := base()
	other["venue"] = primitive.NewObjectID()
	if p.Match(other) {
		t.Error("other venue should not match")
	}
}

func TestBuildEventPredicate_Empty(t *testing.T) {
	spec, _ := filter.Normalize(url.Values{}, filter.Events, fixedNow)
	if buildEventPredicate(spec) != nil {
		t.Error("empty spec should build a nil predicate")
	}
}
