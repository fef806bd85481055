// internal/workers/escrow/accept-application/models.go
package acceptapplication

import "campus-gig-workers/internal/common/auth"

type Input struct {
	auth.Credentials
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	GigID             string `json:"gigId"`
	GigStatus         string `json:"gigStatus"`
	ApplicationID     string `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	WorkerID          string `json:"workerId"`
}
