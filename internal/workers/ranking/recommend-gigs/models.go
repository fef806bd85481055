// internal/workers/ranking/recommend-gigs/models.go
package recommendgigs

import "campus-gig-workers/internal/ranking"

type Input struct {
	UserID     string              `json:"userId"`
	Profile    *ranking.Profile    `json:"profile,omitempty"`
	Candidates []ranking.Candidate `json:"candidates,omitempty"`
	Limit      int                 `json:"limit,omitempty"`
}

type Output struct {
	Policy   string           `json:"policy"`
	RadiusKm float64          `json:"radiusKm"`
	Results  []ranking.Result `json:"results"`
	Count    int              `json:"count"`
}
