// Package bucket classifies prices, capacities and entrance fees into discrete
// buckets using per-city breakpoint tables.
//
// Every breakpoint list is bucketed with one rule: interval i is
// [bp[i], bp[i+1]) and the last interval is [bp[n-1], +inf). Values below
// bp[0] fall in no bucket.
package bucket

// Range is a bucket's bounds. High is nil for the open top bucket.
type Range struct {
	Low  float64
	High *float64
}

// IsOpen reports whether the range has no upper bound.
func (r Range) IsOpen() bool { return r.High == nil }

// Index returns the 0-based index of the interval containing v.
func Index(breakpoints []float64, v float64) (int, bool) {
	if len(breakpoints) == 0 || v < breakpoints[0] {
		return 0, false
	}
	for i := 0; i < len(breakpoints)-1; i++ {
		if v >= breakpoints[i] && v < breakpoints[i+1] {
			return i, true
		}
	}
	return len(breakpoints) - 1, true
}

// IntervalAt returns the bounds of the interval with the given 0-based index.
func IntervalAt(breakpoints []float64, i int) (Range, bool) {
	if i < 0 || i >= len(breakpoints) {
		return Range{}, false
	}
	if i == len(breakpoints)-1 {
		return Range{Low: breakpoints[i]}, true
	}
	high := breakpoints[i+1]
	return Range{Low: breakpoints[i], High: &high}, true
}

// Bucket returns the interval containing v.
func Bucket(breakpoints []float64, v float64) (Range, bool) {
	i, ok := Index(breakpoints, v)
	if !ok {
		return Range{}, false
	}
	return IntervalAt(breakpoints, i)
}

// CapacityRange returns the capacity bucket containing v.
func CapacityRange(breakpoints []float64, v float64) (Range, bool) {
	return Bucket(breakpoints, v)
}

// EntranceFeeRange returns the entrance fee bucket of the city containing fee.
func EntranceFeeRange(t Table, fee float64) (Range, bool) {
	return Bucket(t.EntranceFees, fee)
}

// PriceClass returns the price class for the given reference prices. A class
// is the 0-based interval index within the city's breakpoints. Each price is
// classified against its own breakpoints and the higher class wins. The result
// is absent when neither price yields a class.
func PriceClass(t Table, coke, beer *float64) (int, bool) {
	class, found := 0, false
	for _, p := range []struct {
		bp []float64
		v  *float64
	}{{t.CokePrices, coke}, {t.BeerPrices, beer}} {
		if p.v == nil {
			continue
		}
		if i, ok := Index(p.bp, *p.v); ok {
			class = max(class, i)
			found = true
		}
	}
	return class, found
}

// ClassInterval returns the price interval of a class in breakpoints.
func ClassInterval(breakpoints []float64, class int) (Range, bool) {
	return IntervalAt(breakpoints, class)
}
