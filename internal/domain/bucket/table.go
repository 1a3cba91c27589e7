package bucket

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nightlife/listings/internal/domain"
)

// Table is the bucket configuration of one city.
type Table struct {
	Country      string
	City         string
	Currency     string
	Timezone     string
	CokePrices   []float64
	BeerPrices   []float64
	EntranceFees []float64
}

// PriceClasses returns the number of price classes the table defines.
func (t Table) PriceClasses() int {
	return max(len(t.CokePrices), len(t.BeerPrices))
}

type cityKey struct {
	country string
	city    string
}

func keyOf(country, city string) cityKey {
	return cityKey{
		country: strings.ToLower(strings.TrimSpace(country)),
		city:    strings.ToLower(strings.TrimSpace(city)),
	}
}

// Lookup resolves bucket tables by (country, city). It is built once at
// startup and never mutated afterwards, so it is safe for concurrent use.
type Lookup struct {
	capacity []float64
	tables   map[cityKey]Table
}

// NewLookup validates the tables and builds a Lookup.
func NewLookup(capacity []float64, tables []Table) (*Lookup, error) {
	if err := validateBreakpoints("capacity", capacity); err != nil {
		return nil, err
	}
	l := &Lookup{
		capacity: slices.Clone(capacity),
		tables:   make(map[cityKey]Table, len(tables)),
	}
	for _, t := range tables {
		k := keyOf(t.Country, t.City)
		if k.country == "" || k.city == "" {
			return nil, fmt.Errorf("bucket table requires country and city")
		}
		if _, dup := l.tables[k]; dup {
			return nil, fmt.Errorf("duplicate bucket table for %s/%s", k.country, k.city)
		}
		name := k.country + "/" + k.city
		for field, bp := range map[string][]float64{
			"coke_prices":   t.CokePrices,
			"beer_prices":   t.BeerPrices,
			"entrance_fees": t.EntranceFees,
		} {
			if err := validateBreakpoints(name+" "+field, bp); err != nil {
				return nil, err
			}
		}
		t.CokePrices = slices.Clone(t.CokePrices)
		t.BeerPrices = slices.Clone(t.BeerPrices)
		t.EntranceFees = slices.Clone(t.EntranceFees)
		l.tables[k] = t
	}
	return l, nil
}

func validateBreakpoints(name string, bp []float64) error {
	for i := 1; i < len(bp); i++ {
		if bp[i] <= bp[i-1] {
			return fmt.Errorf("%s breakpoints must be strictly ascending", name)
		}
	}
	return nil
}

// Get returns the table of a city. A missing table is a precondition failure.
func (l *Lookup) Get(country, city string) (Table, error) {
	t, ok := l.tables[keyOf(country, city)]
	if !ok {
		return Table{}, domain.PreconditionFailed(domain.TypeUnconfiguredCity,
			"no bucket table configured for %s/%s", country, city)
	}
	return t, nil
}

// Has reports whether a city has a table.
func (l *Lookup) Has(country, city string) bool {
	_, ok := l.tables[keyOf(country, city)]
	return ok
}

// Capacity returns the capacity breakpoints shared by all cities.
func (l *Lookup) Capacity() []float64 {
	return slices.Clone(l.capacity)
}

// Len returns the number of configured cities.
func (l *Lookup) Len() int { return len(l.tables) }
