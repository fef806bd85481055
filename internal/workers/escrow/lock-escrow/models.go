// internal/workers/escrow/lock-escrow/models.go
package lockescrow

import (
	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	GigID string `json:"gigId"`
}

type Output struct {
	GigID         string          `json:"gigId"`
	GigStatus     string          `json:"gigStatus"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}
