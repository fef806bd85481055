// internal/workers/escrow/refund-escrow/models.go
package refundescrow

import (
	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	GigID string `json:"gigId"`
}

type Output struct {
	GigID          string          `json:"gigId"`
	GigStatus      string          `json:"gigStatus"`
	PreviousStatus string          `json:"previousStatus"`
	TransactionID  string          `json:"transactionId"`
	Amount         decimal.Decimal `json:"amount"`
}
