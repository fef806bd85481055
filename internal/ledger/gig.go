package ledger

import (
	"context"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/metrics"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/models"

	"github.com/shopspring/decimal"
)

type AcceptResult struct {
	Gig         *models.Gig         `json:"gig"`
	Application *models.Application `json:"application"`
}

type LockResult struct {
	Gig         *models.Gig         `json:"gig"`
	Transaction *models.Transaction `json:"transaction"`
}

type ReleaseResult struct {
	Gig *models.Gig `json:"gig"`
	// Released is true only on the call that completed the gig.
	Released   bool                `json:"released"`
	WorkerID   string              `json:"workerId,omitempty"`
	Split      *Split              `json:"split,omitempty"`
	Commission *models.Transaction `json:"commission,omitempty"`
	Payout     *models.Transaction `json:"payout,omitempty"`
}

type RefundResult struct {
	Gig            *models.Gig         `json:"gig"`
	PreviousStatus models.GigStatus    `json:"previousStatus"`
	Transaction    *models.Transaction `json:"transaction"`
}

// AcceptApplication makes the poster's chosen application the gig's worker and
// moves the gig from OPEN to ACCEPTED. Any other accepted application on the
// gig is rejected so exactly one remains.
func (l *Ledger) AcceptApplication(ctx context.Context, caller models.Caller, applicationID string) (*AcceptResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("applicationId", applicationID); err != nil {
		return nil, err
	}

	app, err := l.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, read("application", applicationID, err)
	}

	var result AcceptResult
	err = l.mutate(ctx, "accept_application", lock.GigKey(app.GigID), func(ctx context.Context, repo Repository) error {
		app, err := repo.GetApplication(ctx, applicationID)
		if err != nil {
			return read("application", applicationID, err)
		}
		gig, err := l.loadGig(ctx, repo, app.GigID)
		if err != nil {
			return err
		}
		if caller.ID != gig.PosterID {
			return apperrors.NewUnauthorizedError("only the poster can accept applications")
		}
		if gig.Status != models.GigOpen {
			return apperrors.NewStateConflictError(apperrors.ErrCodeInvalidGigState,
				"Gig is not open for acceptance", "status: "+string(gig.Status))
		}
		if app.Status == models.ApplicationRejected {
			return apperrors.NewStateConflictError(apperrors.ErrCodeInvalidGigState,
				"Application was rejected", "applicationId: "+app.ID)
		}

		current, err := repo.FirstAcceptedApplication(ctx, gig.ID)
		switch {
		case err == nil && current.ID != app.ID:
			current.Status = models.ApplicationRejected
			if err := write("accept_application", repo.UpdateApplication(ctx, current)); err != nil {
				return err
			}
		case err != nil && !isNotFound(err):
			return read("application", gig.ID, err)
		}

		app.Status = models.ApplicationAccepted
		if err := write("accept_application", repo.UpdateApplication(ctx, app)); err != nil {
			return err
		}

		gig.Status = models.GigAccepted
		gig.UpdatedAt = l.now()
		if err := write("accept_application", repo.UpdateGig(ctx, gig)); err != nil {
			return err
		}

		result = AcceptResult{Gig: gig, Application: app}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("application accepted", map[string]interface{}{
		"gigId":         result.Gig.ID,
		"applicationId": applicationID,
		"workerId":      result.Application.ApplicantID,
	})
	return &result, nil
}

// Lock moves an ACCEPTED gig to IN_PROGRESS and debits the poster the budget.
func (l *Ledger) Lock(ctx context.Context, caller models.Caller, gigID string) (*LockResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("gigId", gigID); err != nil {
		return nil, err
	}

	var result LockResult
	err := l.mutate(ctx, "lock", lock.GigKey(gigID), func(ctx context.Context, repo Repository) error {
		gig, err := l.loadGig(ctx, repo, gigID)
		if err != nil {
			return err
		}
		if caller.ID != gig.PosterID {
			return apperrors.NewUnauthorizedError("only the poster can lock escrow")
		}
		if gig.Status != models.GigAccepted {
			return apperrors.NewStateConflictError(apperrors.ErrCodeInvalidGigState,
				"Gig must be ACCEPTED to lock escrow", "status: "+string(gig.Status))
		}
		if err := requirePositive("budget", gig.Budget); err != nil {
			return err
		}

		gig.Status = models.GigInProgress
		gig.UpdatedAt = l.now()
		if err := write("lock", repo.UpdateGig(ctx, gig)); err != nil {
			return err
		}

		txn := l.newTransaction(gig.PosterID, &gig.ID, models.TxnEscrowLock, models.TxnCompleted, gig.Budget)
		if err := write("lock", repo.AppendTransaction(ctx, txn)); err != nil {
			return err
		}

		result = LockResult{Gig: gig, Transaction: txn}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("escrow locked", map[string]interface{}{
		"gigId":    gigID,
		"callerId": caller.ID,
		"amount":   result.Transaction.Amount.String(),
	})
	return &result, nil
}

// ConfirmRelease records the caller's confirmation. The poster and the worker
// must both confirm; the call that supplies the second confirmation completes
// the gig and pays out in the same atomic unit. Repeat confirmations are no-ops.
func (l *Ledger) ConfirmRelease(ctx context.Context, caller models.Caller, gigID string) (*ReleaseResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("gigId", gigID); err != nil {
		return nil, err
	}

	var result ReleaseResult
	err := l.mutate(ctx, "confirm_release", lock.GigKey(gigID), func(ctx context.Context, repo Repository) error {
		gig, err := l.loadGig(ctx, repo, gigID)
		if err != nil {
			return err
		}
		workerID, err := worker(ctx, repo, gigID)
		if err != nil {
			return err
		}

		isPoster := caller.ID == gig.PosterID
		isWorker := workerID != "" && caller.ID == workerID
		if !isPoster && !isWorker {
			return apperrors.NewUnauthorizedError("only the poster or the accepted worker can confirm release")
		}
		if gig.Status != models.GigInProgress {
			return apperrors.NewStateConflictError(apperrors.ErrCodeInvalidGigState,
				"Gig must be IN_PROGRESS to confirm release", "status: "+string(gig.Status))
		}

		changed := false
		if isPoster && !gig.OwnerConfirmed {
			gig.OwnerConfirmed = true
			changed = true
		}
		if isWorker && !gig.StudentConfirmed {
			gig.StudentConfirmed = true
			changed = true
		}

		result = ReleaseResult{Gig: gig, WorkerID: workerID}
		if !changed {
			return nil
		}

		if !gig.OwnerConfirmed || !gig.StudentConfirmed {
			gig.UpdatedAt = l.now()
			return write("confirm_release", repo.UpdateGig(ctx, gig))
		}

		if workerID == "" {
			return apperrors.NewStateConflictError(apperrors.ErrCodeInvalidGigState,
				"Gig has no accepted worker", "gigId: "+gig.ID)
		}
		return l.release(ctx, repo, gig, workerID, &result)
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"gigId":            gigID,
		"callerId":         caller.ID,
		"ownerConfirmed":   result.Gig.OwnerConfirmed,
		"studentConfirmed": result.Gig.StudentConfirmed,
		"released":         result.Released,
	}
	if result.Released {
		fee, _ := result.Split.Fee.Float64()
		metrics.LedgerCommission.Add(fee)
		fields["fee"] = result.Split.Fee.String()
		fields["net"] = result.Split.Net.String()
	}
	l.logger.Info("release confirmed", fields)
	return &result, nil
}

// release completes the gig, records the poster's commission entry and pays the worker.
func (l *Ledger) release(ctx context.Context, repo Repository, gig *models.Gig, workerID string, result *ReleaseResult) error {
	split := Commission(gig.Budget)

	gig.Status = models.GigCompleted
	gig.UpdatedAt = l.now()
	if err := write("release", repo.UpdateGig(ctx, gig)); err != nil {
		return err
	}

	commission := l.newTransaction(gig.PosterID, &gig.ID, models.TxnCommission, models.TxnCompleted, gig.Budget)
	commission.Fee = split.Fee
	commission.NetAmount = decimal.NewNullDecimal(decimal.Zero)
	if err := write("release", repo.AppendTransaction(ctx, commission)); err != nil {
		return err
	}

	payout := l.newTransaction(workerID, &gig.ID, models.TxnEscrowRelease, models.TxnCompleted, split.Net)
	payout.NetAmount = decimal.NewNullDecimal(split.Net)
	if err := write("release", repo.AppendTransaction(ctx, payout)); err != nil {
		return err
	}

	result.Released = true
	result.Split = &split
	result.Commission = commission
	result.Payout = payout
	return nil
}

// Refund returns a gig to OPEN, clears both confirmations and records a refund
// of the budget to the poster.
func (l *Ledger) Refund(ctx context.Context, caller models.Caller, gigID string) (*RefundResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireID("gigId", gigID); err != nil {
		return nil, err
	}

	var result RefundResult
	err := l.mutate(ctx, "refund", lock.GigKey(gigID), func(ctx context.Context, repo Repository) error {
		gig, err := l.loadGig(ctx, repo, gigID)
		if err != nil {
			return err
		}
		if caller.ID != gig.PosterID {
			return apperrors.NewUnauthorizedError("only the poster can refund")
		}

		previous := gig.Status
		gig.Status = models.GigOpen
		gig.ResetConfirmations()
		gig.UpdatedAt = l.now()
		if err := write("refund", repo.UpdateGig(ctx, gig)); err != nil {
			return err
		}

		txn := l.newTransaction(gig.PosterID, &gig.ID, models.TxnRefund, models.TxnCompleted, gig.Budget)
		if err := write("refund", repo.AppendTransaction(ctx, txn)); err != nil {
			return err
		}

		l.logger.Debug("gig refunded", map[string]interface{}{"gigId": gigID, "from": string(previous)})
		result = RefundResult{Gig: gig, PreviousStatus: previous, Transaction: txn}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("escrow refunded", map[string]interface{}{
		"gigId":    gigID,
		"callerId": caller.ID,
		"amount":   result.Transaction.Amount.String(),
	})
	return &result, nil
}
