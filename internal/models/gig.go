// internal/models/gig.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type GigStatus string

const (
	GigOpen       GigStatus = "OPEN"
	GigAccepted   GigStatus = "ACCEPTED"
	GigInProgress GigStatus = "IN_PROGRESS"
	GigCompleted  GigStatus = "COMPLETED"
)

type Gig struct {
	ID               string          `json:"id"`
	PosterID         string          `json:"posterId"`
	Title            string          `json:"title,omitempty"`
	Budget           decimal.Decimal `json:"budget"`
	Status           GigStatus       `json:"status"`
	OwnerConfirmed   bool            `json:"ownerConfirmed"`
	StudentConfirmed bool            `json:"studentConfirmed"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ResetConfirmations clears both release confirmations.
func (g *Gig) ResetConfirmations() {
	g.OwnerConfirmed = false
	g.StudentConfirmed = false
}
