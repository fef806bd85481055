// internal/workers/wallet/settle-transaction/models.go
package settletransaction

import (
	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/models"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	TransactionID string                   `json:"transactionId"`
	Status        models.TransactionStatus `json:"status"`
}

type Output struct {
	TransactionID     string                   `json:"transactionId"`
	TransactionType   models.TransactionType   `json:"transactionType"`
	TransactionStatus models.TransactionStatus `json:"transactionStatus"`
	UserID            string                   `json:"userId"`
	Amount            decimal.Decimal          `json:"amount"`
}
