package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestRadiusScore(t *testing.T) {
	tests := []struct {
		name     string
		distance *float64
		expected float64
	}{
		{name: "unknown distance is neutral", distance: nil, expected: 0.5},
		{name: "same spot", distance: ptr(0), expected: 1.0},
		{name: "walkable", distance: ptr(0.5), expected: 1.0},
		{name: "exactly one km", distance: ptr(1), expected: 1.0},
		{name: "two km", distance: ptr(2), expected: 0.5},
		{name: "four km", distance: ptr(4), expected: 1 / (1 + 2.8284271247461903)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RadiusScore(tt.distance), 1e-9)
		})
	}
}

func TestRadiusScore_StrictlyDecreasingPastOneKm(t *testing.T) {
	prev := RadiusScore(ptr(1.0001))
	for d := 1.5; d <= 50; d += 0.5 {
		cur := RadiusScore(ptr(d))
		assert.Less(t, cur, prev, "distance %.1f", d)
		assert.Greater(t, cur, 0.0)
		prev = cur
	}
}
