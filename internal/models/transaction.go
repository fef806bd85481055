// internal/models/transaction.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxnEscrowLock    TransactionType = "ESCROW_LOCK"
	TxnEscrowRelease TransactionType = "ESCROW_RELEASE"
	TxnCommission    TransactionType = "COMMISSION"
	TxnRefund        TransactionType = "REFUND"
	TxnDeposit       TransactionType = "DEPOSIT"
	TxnWithdrawal    TransactionType = "WITHDRAWAL"
)

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
)

// Transaction is an append-only ledger entry. Only Status may change after
// creation, and only from PENDING.
type Transaction struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	GigID     *string             `json:"gigId,omitempty"`
	Amount    decimal.Decimal     `json:"amount"`
	Fee       decimal.Decimal     `json:"fee"`
	NetAmount decimal.NullDecimal `json:"netAmount"`
	Type      TransactionType     `json:"type"`
	Status    TransactionStatus   `json:"status"`
	Reference *string             `json:"reference,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Net returns NetAmount when it has a value, otherwise Amount. A recorded zero is kept.
func (t Transaction) Net() decimal.Decimal {
	if t.NetAmount.Valid {
		return t.NetAmount.Decimal
	}
	return t.Amount
}
