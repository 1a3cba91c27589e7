package schedule

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		in      string
		day     string
		seconds int
	}{
		{"2024-01-01T00:00:00Z", "mon", 0},
		{"2024-01-01T23:59:59Z", "mon", 86399},
		{"2024-01-07T12:30:15Z", "sun", 45015},
		{"2024-01-06T22:00:00Z", "sat", 79200},
		// 01:00 in UTC+02:00 is still Sunday in UTC.
		{"2024-01-08T01:00:00+02:00", "sun", 82800},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := time.Parse(time.RFC3339, tt.in)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got := Resolve(ts)
			if got.WeekdayKey != tt.day || got.SecondsSinceMidnight != tt.seconds {
				t.Errorf("Resolve = %+v, want {%s %d}", got, tt.day, tt.seconds)
			}
		})
	}
}

func TestFamily_Bounds(t *testing.T) {
	tests := []struct {
		family       Family
		lower, upper string
	}{
		{OpeningHours, "openingHours.fri.from", "openingHours.fri.to"},
		{KitchenHours, "kitchenHours.fri.from", "kitchenHours.fri.to"},
		{TerraceHours, "terraceHours.fri.from", "terraceHours.fri.to"},
		{BusyFrom, "busyFrom.fri", "openingHours.fri.to"},
		{DancingFrom, "dancingFrom.fri", "openingHours.fri.to"},
		{BitesUntil, "openingHours.fri.from", "bitesUntil.fri"},
	}
	for _, tt := range tests {
		t.Run(tt.family.Name, func(t *testing.T) {
			lower, upper := tt.family.Bounds("fri")
			if lower != tt.lower || upper != tt.upper {
				t.Errorf("Bounds = (%s, %s), want (%s, %s)", lower, upper, tt.lower, tt.upper)
			}
		})
	}
}
