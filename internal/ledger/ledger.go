// Package ledger implements the gig escrow state machine and the wallet
// operations that append to the transaction ledger.
//
// Every mutation takes a keyed lock, then runs read-authorize-decide-write as
// a single Store.Atomic unit. Business rule violations are returned as
// StandardErrors; a failed write inside the unit surfaces as an integrity
// error and leaves the ledger unchanged.
package ledger

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/common/metrics"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Ledger struct {
	store  Store
	locker lock.Locker
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Ledger)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides how transaction and escrow ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

func New(store Store, locker lock.Locker, log logger.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		locker: locker,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// mutate serializes on key and runs fn atomically.
func (l *Ledger) mutate(ctx context.Context, op, key string, fn func(ctx context.Context, repo Repository) error) error {
	release, err := l.locker.Acquire(ctx, key)
	if err != nil {
		l.record(op, err)
		return err
	}
	defer release()

	err = l.store.Atomic(ctx, fn)
	if err != nil {
		if _, ok := apperrors.AsStandard(err); !ok {
			err = apperrors.NewIntegrityError(op, err)
		}
	}
	l.record(op, err)
	return err
}

func (l *Ledger) record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(apperrors.CategoryOf(apperrors.CodeOf(err)))
	}
	metrics.LedgerOperations.WithLabelValues(op, outcome).Inc()
}

// write wraps a failed store write so the unit rolls back as an integrity error.
// Stores that already classified the failure keep their classification.
func write(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsStandard(err); ok {
		return err
	}
	return apperrors.NewIntegrityError(op, err)
}

// read maps store read errors onto not-found or retryable query failures.
func read(entity, id string, err error) error {
	if stderrors.Is(err, ErrNotFound) {
		return apperrors.NewResourceNotFoundError("ledger", entity+": "+id)
	}
	return apperrors.NewQueryExecutionFailedError("get_"+entity, err)
}

func (l *Ledger) loadGig(ctx context.Context, repo Repository, gigID string) (*models.Gig, error) {
	gig, err := repo.GetGig(ctx, gigID)
	if err != nil {
		return nil, read("gig", gigID, err)
	}
	if gig.Status == models.GigCompleted {
		return nil, apperrors.NewGigAlreadyCompletedError(gigID)
	}
	return gig, nil
}

// worker returns the applicant of the first accepted application, or "" if none.
func worker(ctx context.Context, repo Repository, gigID string) (string, error) {
	app, err := repo.FirstAcceptedApplication(ctx, gigID)
	if stderrors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", read("application", gigID, err)
	}
	return app.ApplicantID, nil
}

func (l *Ledger) newTransaction(userID string, gigID *string, typ models.TransactionType, status models.TransactionStatus, amount decimal.Decimal) *models.Transaction {
	return &models.Transaction{
		ID:        l.newID(),
		UserID:    userID,
		GigID:     gigID,
		Amount:    amount,
		Fee:       decimal.Zero,
		Type:      typ,
		Status:    status,
		CreatedAt: l.now(),
	}
}

func requireCaller(caller models.Caller) error {
	if strings.TrimSpace(caller.ID) == "" {
		return apperrors.NewValidationError("caller id is required")
	}
	return nil
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(name + " is required")
	}
	return nil
}

func requirePositive(name string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewInvalidAmountError(name + " must be greater than zero")
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}
