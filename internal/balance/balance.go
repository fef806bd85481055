// Package balance derives a user's wallet position from ledger entries.
// Nothing here is stored; every figure is a fold over transactions and escrows.
package balance

import (
	"campus-gig-workers/internal/models"

	"github.com/shopspring/decimal"
)

// Summary is a user's derived wallet position.
type Summary struct {
	UserID         string          `json:"userId"`
	Credits        decimal.Decimal `json:"credits"`
	Debits         decimal.Decimal `json:"debits"`
	Available      decimal.Decimal `json:"available"`
	LockedInEscrow decimal.Decimal `json:"lockedInEscrow"`
}

// Aggregate folds userID's transactions into credits, debits and available.
// Entries belonging to other users are ignored.
//
// Credits are completed releases and deposits at their net value. Debits are
// escrow locks and withdrawals that are completed or still pending, at gross.
func Aggregate(userID string, txns []models.Transaction) Summary {
	credits := decimal.Zero
	debits := decimal.Zero

	for _, t := range txns {
		if t.UserID != userID {
			continue
		}
		switch {
		case isCredit(t):
			credits = credits.Add(t.Net())
		case isDebit(t):
			debits = debits.Add(t.Amount)
		}
	}

	return Summary{
		UserID:         userID,
		Credits:        credits,
		Debits:         debits,
		Available:      credits.Sub(debits),
		LockedInEscrow: decimal.Zero,
	}
}

func isCredit(t models.Transaction) bool {
	if t.Status != models.TxnCompleted {
		return false
	}
	return t.Type == models.TxnEscrowRelease || t.Type == models.TxnDeposit
}

func isDebit(t models.Transaction) bool {
	if t.Status != models.TxnCompleted && t.Status != models.TxnPending {
		return false
	}
	return t.Type == models.TxnEscrowLock || t.Type == models.TxnWithdrawal
}

// LockedInEscrow sums LOCKED escrows where userID is the client or the worker.
func LockedInEscrow(userID string, escrows []models.Escrow) decimal.Decimal {
	total := decimal.Zero
	for _, e := range escrows {
		if e.Status == models.EscrowLocked && e.Involves(userID) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Build combines Aggregate and LockedInEscrow.
func Build(userID string, txns []models.Transaction, escrows []models.Escrow) Summary {
	s := Aggregate(userID, txns)
	s.LockedInEscrow = LockedInEscrow(userID, escrows)
	return s
}
