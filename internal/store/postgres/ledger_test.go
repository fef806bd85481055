package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gigCols = []string{"id", "poster_id", "title", "budget", "status", "owner_confirmed", "student_confirmed", "updated_at"}
	txnCols = []string{"id", "user_id", "gig_id", "amount", "fee", "net_amount", "type", "status", "reference", "created_at"}
)

func newMock(t *testing.T) (*LedgerStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLedgerStore(db), mock
}

func TestLedgerStore_GetGig(t *testing.T) {
	store, mock := newMock(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectGig)).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(gigCols).AddRow("g-1", "p-1", "Poster design", "1500.00", "ACCEPTED", true, false, now))

	gig, err := store.GetGig(context.Background(), "g-1")

	require.NoError(t, err)
	assert.Equal(t, "p-1", gig.PosterID)
	assert.Equal(t, models.GigAccepted, gig.Status)
	assert.True(t, gig.Budget.Equal(decimal.NewFromInt(1500)))
	assert.True(t, gig.OwnerConfirmed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_GetGig_NotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectGig)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(gigCols))

	_, err := store.GetGig(context.Background(), "missing")

	assert.True(t, stderrors.Is(err, ledger.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_ListTransactions_Nullables(t *testing.T) {
	store, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE user_id = $1 ORDER BY created_at, id")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(txnCols).
			AddRow("t-1", "u-1", nil, "200.00", "0", nil, "DEPOSIT", "COMPLETED", "pay_1", now).
			AddRow("t-2", "u-1", "g-1", "950.00", "50.00", "950.00", "ESCROW_RELEASE", "COMPLETED", nil, now))

	txns, err := store.ListTransactions(context.Background(), "u-1")

	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Nil(t, txns[0].GigID)
	assert.False(t, txns[0].NetAmount.Valid)
	assert.Equal(t, "pay_1", *txns[0].Reference)
	assert.Equal(t, "g-1", *txns[1].GigID)
	assert.True(t, txns[1].NetAmount.Valid)
	assert.Equal(t, "950", txns[1].Net().String())
	assert.Nil(t, txns[1].Reference)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_AppendTransaction_DuplicateReference(t *testing.T) {
	store, mock := newMock(t)
	ref := "pay_1"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "transactions_reference_key"})

	err := store.AppendTransaction(context.Background(), &models.Transaction{
		ID: "t-1", UserID: "u-1", Amount: decimal.NewFromInt(10), Type: models.TxnDeposit,
		Status: models.TxnCompleted, Reference: &ref, CreatedAt: time.Now(),
	})

	assert.Equal(t, errors.ErrCodeDuplicatePayment, errors.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_UpdateTransactionStatus_NotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET status = $2 WHERE id = $1")).
		WithArgs("t-9", "COMPLETED").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateTransactionStatus(context.Background(), "t-9", models.TxnCompleted)

	assert.True(t, stderrors.Is(err, ledger.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_Atomic_RollsBackOnError(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectGig + " FOR UPDATE")).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(gigCols))
	mock.ExpectRollback()

	err := store.Atomic(context.Background(), func(ctx context.Context, repo ledger.Repository) error {
		_, err := repo.GetGig(ctx, "g-1")
		return err
	})

	assert.True(t, stderrors.Is(err, ledger.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func newLedger(store ledger.Store, now time.Time) *ledger.Ledger {
	ids := 0
	return ledger.New(store, lock.NewLocal(time.Second), logger.NewNoOpLogger(),
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("txn-%d", ids)
		}),
	)
}

func TestLedgerStore_LockCommitsInOneTransaction(t *testing.T) {
	store, mock := newMock(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectGig + " FOR UPDATE")).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(gigCols).AddRow("g-1", "p-1", "Tutoring", "800.00", "ACCEPTED", false, false, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE gigs SET status = $2")).
		WithArgs("g-1", "IN_PROGRESS", false, false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs("txn-1", "p-1", "g-1", "800", "0", nil, "ESCROW_LOCK", "COMPLETED", nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := newLedger(store, now).Lock(context.Background(), models.Caller{ID: "p-1", Role: models.RolePoster}, "g-1")

	require.NoError(t, err)
	assert.Equal(t, models.GigInProgress, res.Gig.Status)
	assert.Equal(t, models.TxnEscrowLock, res.Transaction.Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_LockRollsBackWhenLedgerWriteFails(t *testing.T) {
	store, mock := newMock(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectGig + " FOR UPDATE")).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(gigCols).AddRow("g-1", "p-1", "Tutoring", "800.00", "ACCEPTED", false, false, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE gigs SET status = $2")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnError(stderrors.New("disk full"))
	mock.ExpectRollback()

	_, err := newLedger(store, now).Lock(context.Background(), models.Caller{ID: "p-1", Role: models.RolePoster}, "g-1")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLedgerIntegrity, errors.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatements(t *testing.T) {
	stmts := statements(Schema())

	require.NotEmpty(t, stmts)
	for _, s := range stmts {
		assert.Regexp(t, `^CREATE (TABLE|INDEX|UNIQUE INDEX) IF NOT EXISTS`, s)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	for _, s := range statements(Schema()) {
		mock.ExpectExec(s).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
