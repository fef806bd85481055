// Package ranking scores and orders candidates for a requester by skill fit,
// proximity and reputation signals.
package ranking

import "campus-gig-workers/internal/geo"

// DefaultRating is used when a profile has no rating yet.
const DefaultRating = 4.0

// Profile is the requester being served: a student looking for gigs or a poster looking for talent.
type Profile struct {
	ID            string         `json:"id"`
	Skills        string         `json:"skills"`
	Location      geo.Coordinate `json:"location"`
	Rating        *float64       `json:"rating,omitempty"`
	CompletedJobs int            `json:"completedJobs"`
}

// EffectiveRating returns the rating clamped to [0,5], or DefaultRating when unset.
func (p Profile) EffectiveRating() float64 {
	if p.Rating == nil {
		return DefaultRating
	}
	r := *p.Rating
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// Candidate is a gig or a talent record being ranked.
type Candidate struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Tags        string         `json:"tags"`
	Description string         `json:"description"`
	Location    geo.Coordinate `json:"location"`
	Urgency     int            `json:"urgency"`
}

// Result is one ranked candidate.
type Result struct {
	ID             string   `json:"id"`
	Title          string   `json:"title,omitempty"`
	Score          int      `json:"score"`
	SkillScore     int      `json:"skillScore"`
	ProximityScore float64  `json:"proximityScore"`
	DistanceKm     *float64 `json:"distanceKm,omitempty"`
}
