package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/models"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// LedgerStore persists gigs, applications, transactions and escrows.
type LedgerStore struct {
	*repo
	db *sql.DB
}

var _ ledger.Store = (*LedgerStore)(nil)

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{repo: &repo{q: db}, db: db}
}

// Atomic runs fn inside one transaction. Gig and application reads inside the
// unit take row locks with FOR UPDATE.
func (s *LedgerStore) Atomic(ctx context.Context, fn func(ctx context.Context, repo ledger.Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &repo{q: tx, forUpdate: true}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type repo struct {
	q         querier
	forUpdate bool
}

func (r *repo) lockClause() string {
	if r.forUpdate {
		return " FOR UPDATE"
	}
	return ""
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ledger.ErrNotFound)
}

func rowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

// duplicate maps a unique violation on a payment reference to a state conflict.
func duplicate(err error, reference *string) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		ref := ""
		if reference != nil {
			ref = *reference
		}
		return errors.NewStateConflictError(errors.ErrCodeDuplicatePayment,
			"Payment reference has already been used", fmt.Sprintf("reference: %s (%s)", ref, pqErr.Constraint))
	}
	return err
}

// --- gigs ---

const selectGig = `SELECT id, poster_id, title, budget, status, owner_confirmed, student_confirmed, updated_at
FROM gigs WHERE id = $1`

func (r *repo) GetGig(ctx context.Context, gigID string) (*models.Gig, error) {
	var g models.Gig
	err := r.q.QueryRowContext(ctx, selectGig+r.lockClause(), gigID).Scan(
		&g.ID, &g.PosterID, &g.Title, &g.Budget, &g.Status, &g.OwnerConfirmed, &g.StudentConfirmed, &g.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, notFound("gig", gigID)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repo) UpdateGig(ctx context.Context, g *models.Gig) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE gigs SET status = $2, owner_confirmed = $3, student_confirmed = $4, updated_at = $5 WHERE id = $1`,
		g.ID, g.Status, g.OwnerConfirmed, g.StudentConfirmed, g.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res, "gig", g.ID)
}

// --- applications ---

const applicationColumns = `id, gig_id, applicant_id, status, created_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(&a.ID, &a.GigID, &a.ApplicantID, &a.Status, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) GetApplication(ctx context.Context, applicationID string) (*models.Application, error) {
	a, err := scanApplication(r.q.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`+r.lockClause(), applicationID))
	if err == sql.ErrNoRows {
		return nil, notFound("application", applicationID)
	}
	return a, err
}

func (r *repo) FirstAcceptedApplication(ctx context.Context, gigID string) (*models.Application, error) {
	a, err := scanApplication(r.q.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
WHERE gig_id = $1 AND status = $2 ORDER BY created_at, id LIMIT 1`,
		gigID, models.ApplicationAccepted))
	if err == sql.ErrNoRows {
		return nil, notFound("accepted application for gig", gigID)
	}
	return a, err
}

func (r *repo) UpdateApplication(ctx context.Context, a *models.Application) error {
	res, err := r.q.ExecContext(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, a.ID, a.Status)
	if err != nil {
		return err
	}
	return rowsAffected(res, "application", a.ID)
}

// --- transactions ---

const transactionColumns = `id, user_id, gig_id, amount, fee, net_amount, type, status, reference, created_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*models.Transaction, error) {
	var (
		t         models.Transaction
		gigID     sql.NullString
		reference sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &gigID, &t.Amount, &t.Fee, &t.NetAmount, &t.Type, &t.Status, &reference, &t.CreatedAt); err != nil {
		return nil, err
	}
	if gigID.Valid {
		t.GigID = &gigID.String
	}
	if reference.Valid {
		t.Reference = &reference.String
	}
	return &t, nil
}

func (r *repo) AppendTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.UserID, t.GigID, t.Amount, t.Fee, t.NetAmount, t.Type, t.Status, t.Reference, t.CreatedAt,
	)
	if err != nil {
		return duplicate(err, t.Reference)
	}
	return nil
}

func (r *repo) GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`+r.lockClause(), txnID))
	if err == sql.ErrNoRows {
		return nil, notFound("transaction", txnID)
	}
	return t, err
}

func (r *repo) UpdateTransactionStatus(ctx context.Context, txnID string, status models.TransactionStatus) error {
	res, err := r.q.ExecContext(ctx, `UPDATE transactions SET status = $2 WHERE id = $1`, txnID, status)
	if err != nil {
		return err
	}
	return rowsAffected(res, "transaction", txnID)
}

func (r *repo) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *repo) FindTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE reference = $1 LIMIT 1`, reference))
	if err == sql.ErrNoRows {
		return nil, notFound("transaction with reference", reference)
	}
	return t, err
}

// --- escrows ---

const escrowColumns = `id, gig_id, client_id, worker_id, amount, status, reference, created_at, released_at`

func scanEscrow(row interface{ Scan(...interface{}) error }) (*models.Escrow, error) {
	var (
		e          models.Escrow
		reference  sql.NullString
		releasedAt sql.NullTime
	)
	if err := row.Scan(&e.ID, &e.GigID, &e.ClientID, &e.WorkerID, &e.Amount, &e.Status, &reference, &e.CreatedAt, &releasedAt); err != nil {
		return nil, err
	}
	if reference.Valid {
		e.Reference = &reference.String
	}
	if releasedAt.Valid {
		e.ReleasedAt = &releasedAt.Time
	}
	return &e, nil
}

func (r *repo) GetEscrow(ctx context.Context, escrowID string) (*models.Escrow, error) {
	e, err := scanEscrow(r.q.QueryRowContext(ctx,
		`SELECT `+escrowColumns+` FROM escrows WHERE id = $1`+r.lockClause(), escrowID))
	if err == sql.ErrNoRows {
		return nil, notFound("escrow", escrowID)
	}
	return e, err
}

func (r *repo) LockedEscrowForGig(ctx context.Context, gigID string) (*models.Escrow, error) {
	e, err := scanEscrow(r.q.QueryRowContext(ctx,
		`SELECT `+escrowColumns+` FROM escrows WHERE gig_id = $1 AND status = $2 ORDER BY created_at, id LIMIT 1`,
		gigID, models.EscrowLocked))
	if err == sql.ErrNoRows {
		return nil, notFound("locked escrow for gig", gigID)
	}
	return e, err
}

func (r *repo) CreateEscrow(ctx context.Context, e *models.Escrow) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO escrows (`+escrowColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.GigID, e.ClientID, e.WorkerID, e.Amount, e.Status, e.Reference, e.CreatedAt, e.ReleasedAt,
	)
	if err != nil {
		return duplicate(err, e.Reference)
	}
	return nil
}

func (r *repo) UpdateEscrow(ctx context.Context, e *models.Escrow) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE escrows SET status = $2, released_at = $3 WHERE id = $1`, e.ID, e.Status, e.ReleasedAt)
	if err != nil {
		return err
	}
	return rowsAffected(res, "escrow", e.ID)
}

func (r *repo) ListLockedEscrows(ctx context.Context, userID string) ([]models.Escrow, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+escrowColumns+` FROM escrows WHERE status = $1 AND (client_id = $2 OR worker_id = $2) ORDER BY created_at, id`,
		models.EscrowLocked, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Escrow
	for rows.Next() {
		e, err := scanEscrow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
