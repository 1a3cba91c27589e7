package bucket

import (
	"errors"
	"testing"

	"github.com/nightlife/listings/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func amsterdam() Table {
	return Table{
		Country:      "nl",
		City:         "amsterdam",
		Currency:     "EUR",
		Timezone:     "Europe/Amsterdam",
		CokePrices:   []float64{0, 2.3, 2.8, 3.3},
		BeerPrices:   []float64{0, 2.4, 3, 3.6},
		EntranceFees: []float64{0, 5, 10, 20},
	}
}

func TestCapacityRange(t *testing.T) {
	bp := []float64{0, 50, 100, 200}
	tests := []struct {
		name     string
		value    float64
		low      float64
		high     *float64
		wantNone bool
	}{
		{"inside", 75, 50, floatPtr(100), false},
		{"low bound inclusive", 50, 50, floatPtr(100), false},
		{"high bound exclusive", 99.99, 50, floatPtr(100), false},
		{"zero", 0, 0, floatPtr(50), false},
		{"open bucket", 250, 200, nil, false},
		{"open bucket boundary", 200, 200, nil, false},
		{"below first breakpoint", -1, 0, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := CapacityRange(bp, tt.value)
			if ok == tt.wantNone {
				t.Fatalf("ok = %v, want %v", ok, !tt.wantNone)
			}
			if tt.wantNone {
				return
			}
			if r.Low != tt.low {
				t.Errorf("Low = %v, want %v", r.Low, tt.low)
			}
			if (r.High == nil) != (tt.high == nil) {
				t.Fatalf("High = %v, want %v", r.High, tt.high)
			}
			if r.High != nil && *r.High != *tt.high {
				t.Errorf("High = %v, want %v", *r.High, *tt.high)
			}
			if r.IsOpen() != (tt.high == nil) {
				t.Errorf("IsOpen() = %v", r.IsOpen())
			}
		})
	}
}

func TestPriceClass(t *testing.T) {
	table := amsterdam()
	tests := []struct {
		name       string
		coke, beer *float64
		want       int
		wantOK     bool
	}{
		// 2.5 lies in [2.3, 2.8), coke class 1; 3.2 lies in [3, 3.6), beer
		// class 2. The higher class wins.
		{"max of both", floatPtr(2.5), floatPtr(3.2), 2, true},
		{"coke only", floatPtr(2.5), nil, 1, true},
		{"beer only", nil, floatPtr(3.2), 2, true},
		{"coke boundary belongs to upper interval", floatPtr(2.3), nil, 1, true},
		{"beer just below boundary", nil, floatPtr(2.99), 1, true},
		{"top bucket", floatPtr(3.3), nil, 3, true},
		{"expensive beer dominates cheap coke", floatPtr(1), floatPtr(5), 3, true},
		{"first class is zero", floatPtr(0), floatPtr(1), 0, true},
		{"no prices", nil, nil, 0, false},
		{"negative price has no class", floatPtr(-1), nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PriceClass(table, tt.coke, tt.beer)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PriceClass = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEntranceFeeRange(t *testing.T) {
	r, ok := EntranceFeeRange(amsterdam(), 12.5)
	if !ok || r.Low != 10 || r.High == nil || *r.High != 20 {
		t.Fatalf("EntranceFeeRange = %+v, %v", r, ok)
	}
	r, ok = EntranceFeeRange(amsterdam(), 25)
	if !ok || r.Low != 20 || !r.IsOpen() {
		t.Fatalf("EntranceFeeRange open = %+v, %v", r, ok)
	}
}

func TestClassInterval(t *testing.T) {
	bp := amsterdam().CokePrices
	r, ok := ClassInterval(bp, 1)
	if !ok || r.Low != 2.3 || *r.High != 2.8 {
		t.Fatalf("ClassInterval(1) = %+v, %v", r, ok)
	}
	r, ok = ClassInterval(bp, 3)
	if !ok || r.Low != 3.3 || !r.IsOpen() {
		t.Fatalf("ClassInterval(3) = %+v, %v", r, ok)
	}
	for _, class := range []int{4, -1} {
		if _, ok := ClassInterval(bp, class); ok {
			t.Errorf("ClassInterval(%d) should be absent", class)
		}
	}
}

func TestPriceClass_AmsterdamExample(t *testing.T) {
	table := Table{
		CokePrices: []float64{0, 2.3, 2.8, 3.3},
		BeerPrices: []float64{0, 2.4, 3, 3.6},
	}
	coke, beer := 2.5, 3.2
	got, ok := PriceClass(table, &coke, &beer)
	if !ok || got != 2 {
		t.Fatalf("PriceClass(2.5, 3.2) = (%d, %v), want (2, true)", got, ok)
	}
	if r, _ := ClassInterval(table.CokePrices, 1); r.Low != 2.3 || *r.High != 2.8 {
		t.Errorf("coke class 1 = %+v", r)
	}
	if r, _ := ClassInterval(table.BeerPrices, 2); r.Low != 3 || *r.High != 3.6 {
		t.Errorf("beer class 2 = %+v", r)
	}
}

func TestLookup_Get(t *testing.T) {
	l, err := NewLookup([]float64{0, 50, 100, 200}, []Table{amsterdam()})
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	got, err := l.Get(" NL ", "Amsterdam")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Currency != "EUR" {
		t.Errorf("Currency = %q", got.Currency)
	}
	if !l.Has("nl", "amsterdam") || l.Has("nl", "utrecht") {
		t.Error("Has() mismatch")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d", l.Len())
	}

	_, err = l.Get("nl", "utrecht")
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}
	if domain.TypeOf(err) != domain.TypeUnconfiguredCity {
		t.Errorf("type = %q", domain.TypeOf(err))
	}
}

func TestNewLookup_Invalid(t *testing.T) {
	dup := amsterdam()
	unsorted := amsterdam()
	unsorted.BeerPrices = []float64{0, 3, 2}
	noCity := amsterdam()
	noCity.City = ""

	tests := []struct {
		name     string
		capacity []float64
		tables   []Table
	}{
		{"duplicate city", nil, []Table{amsterdam(), dup}},
		{"unsorted breakpoints", nil, []Table{unsorted}},
		{"missing city", nil, []Table{noCity}},
		{"unsorted capacity", []float64{0, 100, 50}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLookup(tt.capacity, tt.tables); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
