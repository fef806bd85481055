// internal/models/escrow.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowStatus string

const (
	EscrowLocked   EscrowStatus = "LOCKED"
	EscrowReleased EscrowStatus = "RELEASED"
)

// Escrow is an explicit lock of client funds against a specific worker.
type Escrow struct {
	ID         string          `json:"id"`
	GigID      string          `json:"gigId"`
	ClientID   string          `json:"clientId"`
	WorkerID   string          `json:"workerId"`
	Amount     decimal.Decimal `json:"amount"`
	Status     EscrowStatus    `json:"status"`
	Reference  *string         `json:"reference,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	ReleasedAt *time.Time      `json:"releasedAt,omitempty"`
}

// Involves reports whether userID is the client or the worker of the escrow.
func (e Escrow) Involves(userID string) bool {
	return e.ClientID == userID || e.WorkerID == userID
}
