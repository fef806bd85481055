package ledger

import (
	"context"

	"campus-gig-workers/internal/balance"
	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/models"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	// Amount must be the gateway-verified amount, never a client-supplied one.
	Amount    decimal.Decimal
	Reference string
}

type WithdrawResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     balance.Summary     `json:"balance"`
}

// Balance derives the user's wallet position. It takes no lock.
func (l *Ledger) Balance(ctx context.Context, userID string) (*balance.Summary, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}

	txns, err := l.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_transactions", err)
	}
	escrows, err := l.store.ListLockedEscrows(ctx, userID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_locked_escrows", err)
	}

	s := balance.Build(userID, txns, escrows)
	return &s, nil
}

// Deposit credits the caller with a confirmed payment. Each payment reference is credited once.
func (l *Ledger) Deposit(ctx context.Context, caller models.Caller, req DepositRequest) (*models.Transaction, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("reference", req.Reference); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := l.mutate(ctx, "deposit", lock.UserKey(caller.ID), func(ctx context.Context, repo Repository) error {
		if err := ensureUnusedReference(ctx, repo, req.Reference); err != nil {
			return err
		}

		txn = l.newTransaction(caller.ID, nil, models.TxnDeposit, models.TxnCompleted, req.Amount)
		txn.Reference = strPtr(req.Reference)
		return write("deposit", repo.AppendTransaction(ctx, txn))
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("deposit recorded", map[string]interface{}{
		"userId":    caller.ID,
		"amount":    req.Amount.String(),
		"reference": req.Reference,
	})
	return txn, nil
}

// Withdraw appends a PENDING withdrawal if amount does not exceed the
// caller's available balance. Withdrawals for one user are serialized.
func (l *Ledger) Withdraw(ctx context.Context, caller models.Caller, amount decimal.Decimal) (*WithdrawResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}

	var result WithdrawResult
	err := l.mutate(ctx, "withdraw", lock.UserKey(caller.ID), func(ctx context.Context, repo Repository) error {
		txns, err := repo.ListTransactions(ctx, caller.ID)
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("list_transactions", err)
		}

		summary := balance.Aggregate(caller.ID, txns)
		if amount.GreaterThan(summary.Available) {
			return apperrors.NewInsufficientBalanceError(
				"requested " + amount.String() + ", available " + summary.Available.String())
		}

		txn := l.newTransaction(caller.ID, nil, models.TxnWithdrawal, models.TxnPending, amount)
		if err := write("withdraw", repo.AppendTransaction(ctx, txn)); err != nil {
			return err
		}

		summary.Debits = summary.Debits.Add(amount)
		summary.Available = summary.Available.Sub(amount)
		result = WithdrawResult{Transaction: txn, Balance: summary}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("withdrawal requested", map[string]interface{}{
		"userId":    caller.ID,
		"amount":    amount.String(),
		"available": result.Balance.Available.String(),
	})
	return &result, nil
}

// SettleTransaction finalizes a PENDING transaction as COMPLETED or FAILED. Admin only.
func (l *Ledger) SettleTransaction(ctx context.Context, caller models.Caller, txnID string, status models.TransactionStatus) (*models.Transaction, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("transactionId", txnID); err != nil {
		return nil, err
	}
	if status != models.TxnCompleted && status != models.TxnFailed {
		return nil, apperrors.NewValidationError("status must be COMPLETED or FAILED")
	}
	if !caller.IsAdmin() {
		return nil, apperrors.NewUnauthorizedError("only an admin can settle transactions")
	}

	var txn *models.Transaction
	err := l.mutate(ctx, "settle", lock.TxnKey(txnID), func(ctx context.Context, repo Repository) error {
		current, err := repo.GetTransaction(ctx, txnID)
		if err != nil {
			return read("transaction", txnID, err)
		}
		if current.Status != models.TxnPending {
			return apperrors.NewStateConflictError(apperrors.ErrCodeInvalidTransactionState,
				"Only PENDING transactions can be settled", "status: "+string(current.Status))
		}
		if err := write("settle", repo.UpdateTransactionStatus(ctx, txnID, status)); err != nil {
			return err
		}
		current.Status = status
		txn = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("transaction settled", map[string]interface{}{
		"transactionId": txnID,
		"status":        string(status),
		"callerId":      caller.ID,
	})
	return txn, nil
}
