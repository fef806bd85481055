// internal/workers/wallet/request-withdrawal/models.go
package requestwithdrawal

import (
	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	Amount decimal.Decimal `json:"amount"`
}

type Output struct {
	TransactionID     string          `json:"transactionId"`
	TransactionStatus string          `json:"transactionStatus"`
	Amount            decimal.Decimal `json:"amount"`
	// Available is the balance remaining after this withdrawal.
	Available decimal.Decimal `json:"available"`
}
