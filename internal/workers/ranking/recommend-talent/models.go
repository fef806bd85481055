// internal/workers/ranking/recommend-talent/models.go
package recommendtalent

import "campus-gig-workers/internal/ranking"

type Input struct {
	// UserID is the poster looking for talent.
	UserID     string              `json:"userId"`
	Profile    *ranking.Profile    `json:"profile,omitempty"`
	Candidates []ranking.Candidate `json:"candidates,omitempty"`
	Limit      int                 `json:"limit,omitempty"`
}

type Output struct {
	RadiusKm float64          `json:"radiusKm"`
	Results  []ranking.Result `json:"results"`
	Count    int              `json:"count"`
}
