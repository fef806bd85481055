package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		delta    float64
	}{
		{
			name:     "same point",
			a:        Point{Lat: 12.9716, Lng: 77.5946},
			b:        Point{Lat: 12.9716, Lng: 77.5946},
			expected: 0,
			delta:    1e-9,
		},
		{
			name:     "one degree of latitude",
			a:        Point{Lat: 0, Lng: 0},
			b:        Point{Lat: 1, Lng: 0},
			expected: 111.195,
			delta:    0.01,
		},
		{
			name:     "bangalore to mysore",
			a:        Point{Lat: 12.9716, Lng: 77.5946},
			b:        Point{Lat: 12.2958, Lng: 76.6394},
			expected: 128.1,
			delta:    1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Haversine(tt.a, tt.b), tt.delta)
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Point{Lat: 28.6139, Lng: 77.2090}
	b := Point{Lat: 19.0760, Lng: 72.8777}

	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
}

func TestDistance_UnknownCoordinates(t *testing.T) {
	lat := 10.0
	known := At(10, 20)

	tests := []struct {
		name string
		a, b Coordinate
	}{
		{name: "both unknown", a: Coordinate{}, b: Coordinate{}},
		{name: "left unknown", a: Coordinate{}, b: known},
		{name: "right unknown", a: known, b: Coordinate{}},
		{name: "missing longitude", a: Coordinate{Latitude: &lat}, b: known},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Distance(tt.a, tt.b)
			assert.False(t, ok)
			assert.Equal(t, NoDistance, d)
		})
	}
}

func TestDistance_ZeroIsAValidCoordinate(t *testing.T) {
	d, ok := Distance(At(0, 0), At(0, 0))

	assert.True(t, ok)
	assert.Equal(t, 0.0, d)
}
