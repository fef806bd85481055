// internal/workers/escrow/lock-direct-escrow/models.go
package lockdirectescrow

import (
	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	GigID     string `json:"gigId"`
	WorkerID  string `json:"workerId"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
	// Amount is what the client believes it paid. Optional; the gateway amount is what gets locked.
	Amount decimal.NullDecimal `json:"amount"`
}

type Output struct {
	EscrowID      string          `json:"escrowId"`
	EscrowStatus  string          `json:"escrowStatus"`
	GigID         string          `json:"gigId"`
	WorkerID      string          `json:"workerId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	TransactionID string          `json:"transactionId"`
}
