// Package venue holds the venue listing model.
package venue

import (
	"github.com/nightlife/listings/internal/domain/bucket"
	"github.com/nightlife/listings/internal/domain/geo"
)

// Document field paths used by filters, sorting and projection.
const (
	FieldID             = "_id"
	FieldName           = "name"
	FieldNormalizedName = "normalizedName"
	FieldCountry        = "location.country"
	FieldCity           = "location.city"
	FieldLocation       = "location"
	FieldGeo            = "location.geo"
	FieldCategories     = "categories"
	FieldMusicTypes     = "musicTypes"
	FieldVisitorTypes   = "visitorTypes"
	FieldPaymentMethods = "paymentMethods"
	FieldDoorPolicy     = "doorPolicy.policy"
	FieldDresscode      = "dresscode"
	FieldCapacity       = "capacity"
	FieldEntranceFee    = "entranceFee"
	FieldPrices         = "prices"
	FieldCokePrice      = "prices.coke"
	FieldBeerPrice      = "prices.beer"
	FieldFacilities     = "facilities"
	FieldTags           = "tags"
	FieldFacebookID     = "facebook.id"
	FieldCreatedAt      = "createdAt"
)

// Hours is one day of a ranged schedule, in seconds since midnight UTC.
type Hours struct {
	From int
	To   int
}

// Prices holds the two reference prices used for price classes.
type Prices struct {
	Coke *float64
	Beer *float64
}

// Venue is a listed venue. Pointer and zero-valued fields are absent on the
// document, or were projected out.
type Venue struct {
	ID             string
	Name           string
	Country        string
	City           string
	Address        string
	Point          *geo.Point
	Categories     []string
	MusicTypes     []string
	VisitorTypes   []string
	PaymentMethods []string
	Facilities     []string
	Tags           []string
	DoorPolicy     string
	Dresscode      string
	Capacity       *float64
	EntranceFee    *float64
	Prices         Prices
	FacebookID     string

	OpeningHours map[string]Hours
	KitchenHours map[string]Hours
	TerraceHours map[string]Hours
	BusyFrom     map[string]int
	DancingFrom  map[string]int
	BitesUntil   map[string]int

	// Distance in meters from the reference point, set by distance ordering.
	Distance *float64

	// Derived from the city's bucket table.
	PriceClass       *int
	CapacityRange    *bucket.Range
	EntranceFeeRange *bucket.Range
	Currency         string
}

// Derive fills the bucketed fields. capacity holds the shared capacity
// breakpoints; table is nil when the venue's city has no bucket table, in
// which case only the capacity range is derived.
func (v *Venue) Derive(capacity []float64, table *bucket.Table) {
	if v.Capacity != nil {
		if r, ok := bucket.CapacityRange(capacity, *v.Capacity); ok {
			v.CapacityRange = &r
		}
	}
	if table == nil {
		return
	}
	v.Currency = table.Currency
	if class, ok := bucket.PriceClass(*table, v.Prices.Coke, v.Prices.Beer); ok {
		v.PriceClass = &class
	}
	if v.EntranceFee != nil {
		if r, ok := bucket.EntranceFeeRange(*table, *v.EntranceFee); ok {
			v.EntranceFeeRange = &r
		}
	}
}
