// Package geo computes great-circle distances between optional coordinates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// NoDistance is returned by Distance when either side has no usable location.
const NoDistance = -1.0

// Point is a fully specified latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Coordinate is a location that may be unknown. A nil component means the
// location is absent; it is never read as zero.
type Coordinate struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// At builds a known Coordinate.
func At(lat, lng float64) Coordinate {
	return Coordinate{Latitude: &lat, Longitude: &lng}
}

// Point returns the coordinate as a Point and whether both components are present.
func (c Coordinate) Point() (Point, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return Point{}, false
	}
	return Point{Lat: *c.Latitude, Lng: *c.Longitude}, true
}

// Known reports whether both components are present.
func (c Coordinate) Known() bool {
	_, ok := c.Point()
	return ok
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Distance returns the distance between two coordinates in kilometres. When
// either coordinate is incomplete it returns NoDistance and false.
func Distance(a, b Coordinate) (float64, bool) {
	pa, ok := a.Point()
	if !ok {
		return NoDistance, false
	}
	pb, ok := b.Point()
	if !ok {
		return NoDistance, false
	}
	return Haversine(pa, pb), true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
