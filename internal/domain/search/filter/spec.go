// Package filter turns raw listing query parameters into a normalized,
// immutable Spec.
package filter

import (
	"slices"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nightlife/listings/internal/domain/geo"
)

// Spec is the normalized filter set of one request. It is never mutated after
// Normalize returns; accessors hand out copies.
type Spec struct {
	family  Family
	strings map[string]string
	sets    map[string][]string
	ids     map[string][]primitive.ObjectID
	bools   map[string]bool
	times   map[string]time.Time
	floats  map[string]float64
}

func newSpec(f Family) Spec {
	return Spec{
		family:  f,
		strings: map[string]string{},
		sets:    map[string][]string{},
		ids:     map[string][]primitive.ObjectID{},
		bools:   map[string]bool{},
		times:   map[string]time.Time{},
		floats:  map[string]float64{},
	}
}

// Family returns the parameter catalog the spec was built from.
func (s Spec) Family() Family { return s.family }

// String returns a single-valued string parameter.
func (s Spec) String(name string) (string, bool) {
	v, ok := s.strings[name]
	return v, ok
}

// Set returns a multi-valued parameter as a sorted, de-duplicated set. The
// sort parameter is the exception: its keys are returned in request order.
func (s Spec) Set(name string) ([]string, bool) {
	v, ok := s.sets[name]
	return slices.Clone(v), ok
}

// IDs returns an identifier list parameter.
func (s Spec) IDs(name string) ([]primitive.ObjectID, bool) {
	v, ok := s.ids[name]
	return slices.Clone(v), ok
}

// Bool returns a boolean parameter.
func (s Spec) Bool(name string) (value, ok bool) {
	value, ok = s.bools[name]
	return value, ok
}

// True reports whether a boolean parameter is present and true.
func (s Spec) True(name string) bool {
	return s.bools[name]
}

// Time returns a timestamp parameter.
func (s Spec) Time(name string) (time.Time, bool) {
	v, ok := s.times[name]
	return v, ok
}

// Float returns a numeric parameter.
func (s Spec) Float(name string) (float64, bool) {
	v, ok := s.floats[name]
	return v, ok
}

// Point returns the geo point when both coordinates were supplied.
func (s Spec) Point() (geo.Point, bool) {
	lon, okLon := s.floats[ParamLongitude]
	lat, okLat := s.floats[ParamLatitude]
	if !okLon || !okLat {
		return geo.Point{}, false
	}
	return geo.Point{Longitude: lon, Latitude: lat}, true
}

// Text returns the normalized free-text term.
func (s Spec) Text() (string, bool) {
	return s.String(ParamText)
}

// Has reports whether a parameter is present in any form.
func (s Spec) Has(name string) bool {
	if _, ok := s.strings[name]; ok {
		return true
	}
	if _, ok := s.sets[name]; ok {
		return true
	}
	if _, ok := s.ids[name]; ok {
		return true
	}
	if _, ok := s.bools[name]; ok {
		return true
	}
	if _, ok := s.times[name]; ok {
		return true
	}
	_, ok := s.floats[name]
	return ok
}

// Names returns the sorted names of all present parameters.
func (s Spec) Names() []string {
	var names []string
	for k := range s.strings {
		names = append(names, k)
	}
	for k := range s.sets {
		names = append(names, k)
	}
	for k := range s.ids {
		names = append(names, k)
	}
	for k := range s.bools {
		names = append(names, k)
	}
	for k := range s.times {
		names = append(names, k)
	}
	for k := range s.floats {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of present parameters.
func (s Spec) Len() int {
	return len(s.strings) + len(s.sets) + len(s.ids) + len(s.bools) + len(s.times) + len(s.floats)
}
