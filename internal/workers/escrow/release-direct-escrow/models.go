// internal/workers/escrow/release-direct-escrow/models.go
package releasedirectescrow

import (
	"time"

	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	EscrowID string `json:"escrowId"`
}

// Output reports a payout of the full escrowed amount. No commission is
// deducted on the direct path.
type Output struct {
	EscrowID      string          `json:"escrowId"`
	EscrowStatus  string          `json:"escrowStatus"`
	GigID         string          `json:"gigId"`
	WorkerID      string          `json:"workerId"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
	ReleasedAt    *time.Time      `json:"releasedAt,omitempty"`
}
