package ledger

import (
	"context"
	"errors"

	"campus-gig-workers/internal/models"
)

// ErrNotFound is returned (possibly wrapped) by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

type GigStore interface {
	GetGig(ctx context.Context, gigID string) (*models.Gig, error)
	UpdateGig(ctx context.Context, gig *models.Gig) error
}

type ApplicationStore interface {
	GetApplication(ctx context.Context, applicationID string) (*models.Application, error)
	// FirstAcceptedApplication returns the earliest accepted application for the gig.
	FirstAcceptedApplication(ctx context.Context, gigID string) (*models.Application, error)
	UpdateApplication(ctx context.Context, app *models.Application) error
}

type TransactionStore interface {
	AppendTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, txnID string, status models.TransactionStatus) error
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	FindTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)
}

type EscrowStore interface {
	GetEscrow(ctx context.Context, escrowID string) (*models.Escrow, error)
	LockedEscrowForGig(ctx context.Context, gigID string) (*models.Escrow, error)
	CreateEscrow(ctx context.Context, escrow *models.Escrow) error
	UpdateEscrow(ctx context.Context, escrow *models.Escrow) error
	ListLockedEscrows(ctx context.Context, userID string) ([]models.Escrow, error)
}

// Repository is the full set of ledger reads and writes.
type Repository interface {
	GigStore
	ApplicationStore
	TransactionStore
	EscrowStore
}

// Store is a Repository that can run a function as one atomic unit. Reads made
// through the repository passed to fn see a consistent, write-locked view of
// the gig rows they touch, and either every write in fn commits or none does.
type Store interface {
	Repository
	Atomic(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
