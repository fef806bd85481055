package getbalance

import (
	"context"
	"testing"
	"time"

	"campus-gig-workers/internal/common/auth"
	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/models"
	"campus-gig-workers/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	student = models.Caller{ID: "student-1", Role: models.RoleStudent}
	other   = models.Caller{ID: "student-2", Role: models.RoleStudent}
	admin   = models.Caller{ID: "admin-1", Role: models.RoleAdmin}
)

func directory(callers ...models.Caller) auth.Resolver {
	return auth.ResolverFunc(func(_ context.Context, c auth.Credentials) (models.Caller, error) {
		for _, caller := range callers {
			if caller.ID == c.CallerID {
				return caller, nil
			}
		}
		return models.Caller{}, apperrors.NewUnauthorizedError("unknown caller " + c.CallerID)
	})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newHandler(t *testing.T) *Handler {
	store := memory.New()
	now := time.Now()
	store.PutTransaction(models.Transaction{ID: "t1", UserID: student.ID, Amount: dec("1000"), Type: models.TxnDeposit, Status: models.TxnCompleted, CreatedAt: now})
	store.PutTransaction(models.Transaction{ID: "t2", UserID: student.ID, Amount: dec("300"), Type: models.TxnWithdrawal, Status: models.TxnPending, CreatedAt: now})
	store.PutTransaction(models.Transaction{ID: "t3", UserID: student.ID, Amount: dec("50"), Type: models.TxnWithdrawal, Status: models.TxnFailed, CreatedAt: now})
	store.PutEscrow(models.Escrow{ID: "e1", GigID: "g1", ClientID: "poster-1", WorkerID: student.ID, Amount: dec("250"), Status: models.EscrowLocked, CreatedAt: now})

	l := ledger.New(store, lock.NewLocal(time.Second), logger.NewTestLogger(t))
	return NewHandler(LoadConfig(), l, directory(student, other, admin), logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		caller        models.Caller
		userID        string
		wantAvailable string
		wantError     apperrors.ErrorCode
	}{
		{name: "own balance", caller: student, wantAvailable: "700"},
		{name: "own balance explicit", caller: student, userID: student.ID, wantAvailable: "700"},
		{name: "admin reads another user", caller: admin, userID: student.ID, wantAvailable: "700"},
		{name: "empty wallet", caller: other, wantAvailable: "0"},
		{name: "student reads another user", caller: other, userID: student.ID, wantError: apperrors.ErrCodeUnauthorizedAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newHandler(t).Execute(context.Background(), &Input{
				Credentials: auth.Credentials{CallerID: tt.caller.ID},
				UserID:      tt.userID,
			})

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantError, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, dec(tt.wantAvailable).Equal(out.Available), "available %s", out.Available)
		})
	}
}

func TestHandler_Execute_Breakdown(t *testing.T) {
	out, err := newHandler(t).Execute(context.Background(), &Input{Credentials: auth.Credentials{CallerID: student.ID}})

	require.NoError(t, err)
	assert.Equal(t, student.ID, out.UserID)
	assert.True(t, dec("1000").Equal(out.Credits))
	assert.True(t, dec("300").Equal(out.Debits))
	assert.True(t, dec("250").Equal(out.LockedInEscrow))
}
