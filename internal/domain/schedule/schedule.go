// Package schedule resolves instants into weekly time windows and maps the
// weekly schedule families of a venue document onto field bounds.
package schedule

import (
	"fmt"
	"time"
)

// SecondsPerDay is the exclusive upper bound of SecondsSinceMidnight.
const SecondsPerDay = 86400

// weekdayKeys is indexed by time.Weekday (Sunday = 0).
var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// TimeWindow is a weekday plus the seconds elapsed since midnight, both in UTC.
type TimeWindow struct {
	WeekdayKey           string
	SecondsSinceMidnight int
}

// Resolve maps an instant to its UTC weekday key and seconds since midnight.
func Resolve(t time.Time) TimeWindow {
	u := t.UTC()
	return TimeWindow{
		WeekdayKey:           weekdayKeys[u.Weekday()],
		SecondsSinceMidnight: u.Hour()*3600 + u.Minute()*60 + u.Second(),
	}
}

// Shape distinguishes the two ways a schedule is stored on a document.
type Shape int

const (
	// Ranged schedules store <prefix>.<day>.from and <prefix>.<day>.to.
	Ranged Shape = iota
	// Threshold schedules store a single cutoff per day, paired with a bound
	// taken from the opening hours.
	Threshold
)

// Family describes one weekly schedule stored on venue documents.
type Family struct {
	Name   string
	Shape  Shape
	Prefix string
	// CutoffIsUpper is set for threshold families whose cutoff closes the window
	// (e.g. "bites until"); otherwise the cutoff opens it.
	CutoffIsUpper bool
}

// Known schedule families.
var (
	OpeningHours = Family{Name: "openingHours", Shape: Ranged, Prefix: "openingHours"}
	KitchenHours = Family{Name: "kitchenHours", Shape: Ranged, Prefix: "kitchenHours"}
	TerraceHours = Family{Name: "terraceHours", Shape: Ranged, Prefix: "terraceHours"}
	BusyFrom     = Family{Name: "busyFrom", Shape: Threshold, Prefix: "busyFrom"}
	DancingFrom  = Family{Name: "dancingFrom", Shape: Threshold, Prefix: "dancingFrom"}
	BitesUntil   = Family{Name: "bitesUntil", Shape: Threshold, Prefix: "bitesUntil", CutoffIsUpper: true}
)

// Bounds returns the field holding the inclusive lower bound and the field
// holding the exclusive upper bound of the family's window on the given day.
// A document is inside the window at s when lower <= s and upper > s.
func (f Family) Bounds(weekdayKey string) (lower, upper string) {
	if f.Shape == Ranged {
		return fmt.Sprintf("%s.%s.from", f.Prefix, weekdayKey), fmt.Sprintf("%s.%s.to", f.Prefix, weekdayKey)
	}
	cutoff := fmt.Sprintf("%s.%s", f.Prefix, weekdayKey)
	if f.CutoffIsUpper {
		return fmt.Sprintf("%s.%s.from", OpeningHours.Prefix, weekdayKey), cutoff
	}
	return cutoff, fmt.Sprintf("%s.%s.to", OpeningHours.Prefix, weekdayKey)
}
