// internal/workers/wallet/verify-deposit/models.go
package verifydeposit

import (
	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	OrderID   string              `json:"orderId"`
	PaymentID string              `json:"paymentId"`
	Signature string              `json:"signature"`
	Amount    decimal.NullDecimal `json:"amount"`
}

type Output struct {
	TransactionID string          `json:"transactionId"`
	PaymentID     string          `json:"paymentId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
}
