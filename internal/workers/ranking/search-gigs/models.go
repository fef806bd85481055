// internal/workers/ranking/search-gigs/models.go
package searchgigs

import "campus-gig-workers/internal/ranking"

type Input struct {
	UserID  string           `json:"userId"`
	Profile *ranking.Profile `json:"profile,omitempty"`
	// Candidates, when present (even empty), are ranked as-is instead of
	// fetching open gigs.
	Candidates []ranking.Candidate `json:"candidates,omitempty"`
	Limit      int                 `json:"limit,omitempty"`
}

type Output struct {
	Policy  string           `json:"policy"`
	Results []ranking.Result `json:"results"`
	Count   int              `json:"count"`
}
