package ledger

import (
	"context"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/models"

	"github.com/shopspring/decimal"
)

// LockDirectRequest pre-pays a gig against a specific worker without going
// through application acceptance.
type LockDirectRequest struct {
	GigID    string
	WorkerID string
	Amount   decimal.Decimal
	// Reference is the confirmed payment id funding the lock, if any.
	Reference string
}

type DirectLockResult struct {
	Escrow      *models.Escrow      `json:"escrow"`
	Transaction *models.Transaction `json:"transaction"`
}

type DirectReleaseResult struct {
	Escrow      *models.Escrow      `json:"escrow"`
	Transaction *models.Transaction `json:"transaction"`
}

// LockDirect creates a LOCKED escrow for the gig and debits the poster. A gig
// holds at most one LOCKED escrow at a time.
func (l *Ledger) LockDirect(ctx context.Context, caller models.Caller, req LockDirectRequest) (*DirectLockResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("gigId", req.GigID); err != nil {
		return nil, err
	}
	if err := requireID("workerId", req.WorkerID); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}

	var result DirectLockResult
	err := l.mutate(ctx, "lock_direct", lock.GigKey(req.GigID), func(ctx context.Context, repo Repository) error {
		gig, err := l.loadGig(ctx, repo, req.GigID)
		if err != nil {
			return err
		}
		if caller.ID != gig.PosterID {
			return apperrors.NewUnauthorizedError("only the poster can fund escrow for a gig")
		}
		if req.WorkerID == gig.PosterID {
			return apperrors.NewValidationError("worker cannot be the poster")
		}

		existing, err := repo.LockedEscrowForGig(ctx, gig.ID)
		if err == nil {
			return apperrors.NewStateConflictError(apperrors.ErrCodeEscrowAlreadyLocked,
				"Gig already has locked escrow", "escrowId: "+existing.ID)
		}
		if !isNotFound(err) {
			return read("escrow", gig.ID, err)
		}

		if req.Reference != "" {
			if err := ensureUnusedReference(ctx, repo, req.Reference); err != nil {
				return err
			}
		}

		escrow := &models.Escrow{
			ID:        l.newID(),
			GigID:     gig.ID,
			ClientID:  caller.ID,
			WorkerID:  req.WorkerID,
			Amount:    req.Amount,
			Status:    models.EscrowLocked,
			Reference: strPtr(req.Reference),
			CreatedAt: l.now(),
		}
		if err := write("lock_direct", repo.CreateEscrow(ctx, escrow)); err != nil {
			return err
		}

		txn := l.newTransaction(caller.ID, &gig.ID, models.TxnEscrowLock, models.TxnCompleted, req.Amount)
		txn.Reference = strPtr(req.Reference)
		if err := write("lock_direct", repo.AppendTransaction(ctx, txn)); err != nil {
			return err
		}

		result = DirectLockResult{Escrow: escrow, Transaction: txn}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("direct escrow locked", map[string]interface{}{
		"gigId":    req.GigID,
		"escrowId": result.Escrow.ID,
		"workerId": req.WorkerID,
		"amount":   req.Amount.String(),
	})
	return &result, nil
}

// ReleaseDirect pays the full escrowed amount to the worker. No commission is
// taken on this path. The releaser must be the escrow client, the gig poster
// or an admin.
func (l *Ledger) ReleaseDirect(ctx context.Context, caller models.Caller, escrowID string) (*DirectReleaseResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("escrowId", escrowID); err != nil {
		return nil, err
	}

	escrow, err := l.store.GetEscrow(ctx, escrowID)
	if err != nil {
		return nil, read("escrow", escrowID, err)
	}

	var result DirectReleaseResult
	err = l.mutate(ctx, "release_direct", lock.GigKey(escrow.GigID), func(ctx context.Context, repo Repository) error {
		escrow, err := repo.GetEscrow(ctx, escrowID)
		if err != nil {
			return read("escrow", escrowID, err)
		}
		if escrow.Status != models.EscrowLocked {
			return apperrors.NewStateConflictError(apperrors.ErrCodeEscrowNotLocked,
				"Escrow is not locked", "status: "+string(escrow.Status))
		}
		gig, err := l.loadGig(ctx, repo, escrow.GigID)
		if err != nil {
			return err
		}
		if caller.ID != escrow.ClientID && caller.ID != gig.PosterID && !caller.IsAdmin() {
			return apperrors.NewUnauthorizedError("only the client, the poster or an admin can release escrow")
		}

		now := l.now()
		escrow.Status = models.EscrowReleased
		escrow.ReleasedAt = &now
		if err := write("release_direct", repo.UpdateEscrow(ctx, escrow)); err != nil {
			return err
		}

		txn := l.newTransaction(escrow.WorkerID, &escrow.GigID, models.TxnEscrowRelease, models.TxnCompleted, escrow.Amount)
		txn.NetAmount = decimal.NewNullDecimal(escrow.Amount)
		if err := write("release_direct", repo.AppendTransaction(ctx, txn)); err != nil {
			return err
		}

		result = DirectReleaseResult{Escrow: escrow, Transaction: txn}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("direct escrow released", map[string]interface{}{
		"escrowId": escrowID,
		"gigId":    result.Escrow.GigID,
		"callerId": caller.ID,
		"amount":   result.Escrow.Amount.String(),
	})
	return &result, nil
}

func ensureUnusedReference(ctx context.Context, repo Repository, reference string) error {
	existing, err := repo.FindTransactionByReference(ctx, reference)
	if err == nil {
		return apperrors.NewStateConflictError(apperrors.ErrCodeDuplicatePayment,
			"Payment reference already used", "transactionId: "+existing.ID)
	}
	if !isNotFound(err) {
		return read("transaction", reference, err)
	}
	return nil
}
