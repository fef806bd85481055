package ranking

import "math"

const (
	// NeutralProximity is the score for an unknown distance.
	NeutralProximity = 0.5
	walkableKm       = 1.0
)

// RadiusScore maps a distance in km to a 0-1 proximity score. Nil means the
// distance is unknown. Anything within walking range scores 1; past that the
// score decays as 1 / (1 + (d/2)^1.5).
func RadiusScore(distanceKm *float64) float64 {
	if distanceKm == nil {
		return NeutralProximity
	}
	d := *distanceKm
	if d <= walkableKm {
		return 1.0
	}
	score := 1 / (1 + math.Pow(d/2, 1.5))
	if score < 0 {
		return 0
	}
	return score
}
