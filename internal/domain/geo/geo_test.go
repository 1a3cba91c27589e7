package geo

import "testing"

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestHaversine_SamePoint(t *testing.T) {
	d := Haversine(52.3676, 4.9041, 52.3676, 4.9041)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestHaversine_AmsterdamRotterdam(t *testing.T) {
	// ~57 km between the two city centres.
	d := Haversine(52.3676, 4.9041, 51.9244, 4.4777)
	if !almost(d, 57_000, 2_000) {
		t.Fatalf("want ~57km, got %.0f m", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Point{Longitude: 4.9041, Latitude: 52.3676}
	b := Point{Longitude: 13.4050, Latitude: 52.5200}
	if !almost(Distance(a, b), Distance(b, a), 1e-6) {
		t.Fatal("distance should be symmetric")
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
	}
	for _, tt := range tests {
		if got := ValidateCoordinates(tt.lat, tt.lon); got != tt.want {
			t.Errorf("ValidateCoordinates(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestFromGeoJSON(t *testing.T) {
	p, ok := FromGeoJSON(map[string]any{"type": "Point", "coordinates": []any{4.9, 52.3}})
	if !ok || p.Longitude != 4.9 || p.Latitude != 52.3 {
		t.Fatalf("FromGeoJSON = %+v, %v", p, ok)
	}
	if _, ok := FromGeoJSON(map[string]any{"coordinates": []any{4.9}}); ok {
		t.Fatal("expected failure for short coordinates")
	}
	if _, ok := FromGeoJSON("nope"); ok {
		t.Fatal("expected failure for non-object")
	}
}
