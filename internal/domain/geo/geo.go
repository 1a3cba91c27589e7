// Package geo holds the geodesic helpers used for distance ordering.
package geo

import "math"

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
const EarthRadiusMeters = 6_371_000.0

// Point is a WGS84 coordinate pair in degrees.
type Point struct {
	Longitude float64
	Latitude  float64
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance returns the great-circle distance in meters between two points.
func Distance(a, b Point) float64 {
	return Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// FromGeoJSON extracts a point from a decoded GeoJSON Point
// ({"type": "Point", "coordinates": [lon, lat]}).
func FromGeoJSON(v any) (Point, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Point{}, false
	}
	coords, ok := m["coordinates"].([]any)
	if !ok || len(coords) != 2 {
		return Point{}, false
	}
	lon, ok1 := number(coords[0])
	lat, ok2 := number(coords[1])
	if !ok1 || !ok2 {
		return Point{}, false
	}
	return Point{Longitude: lon, Latitude: lat}, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
