package requestwithdrawal

import (
	"context"
	"sync"
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

var student = models.Caller{ID: "student-1", Role: models.RoleStudent}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newHandler(t *testing.T, cfg *Config) (*Handler, *memory.Store) {
	store := memory.New()
	store.PutTransaction(models.Transaction{
		ID: "dep-1", UserID: student.ID, Amount: dec("1000"),
		Type: models.TxnDeposit, Status: models.TxnCompleted, CreatedAt: time.Now(),
	})

	l := ledger.New(store, lock.NewLocal(2*time.Second), logger.NewTestLogger(t))
	resolver := auth.ResolverFunc(func(_ context.Context, c auth.Credentials) (models.Caller, error) {
		if c.CallerID != student.ID {
			return models.Caller{}, apperrors.NewUnauthorizedError("unknown caller")
		}
		return student, nil
	})
	return NewHandler(cfg, l, resolver, logger.NewTestLogger(t)), store
}

func withdraw(amount string) *Input {
	return &Input{Credentials: auth.Credentials{CallerID: student.ID}, Amount: dec(amount)}
}

func TestHandler_Execute(t *testing.T) {
	minimum := DefaultConfig()
	minimum.MinAmount = dec("100")

	tests := []struct {
		name          string
		config        *Config
		amount        string
		wantAvailable string
		wantError     apperrors.ErrorCode
	}{
		{name: "within balance", config: DefaultConfig(), amount: "300", wantAvailable: "700"},
		{name: "entire balance", config: DefaultConfig(), amount: "1000", wantAvailable: "0"},
		{name: "over balance", config: DefaultConfig(), amount: "1000.01", wantError: apperrors.ErrCodeInsufficientBalance},
		{name: "zero", config: DefaultConfig(), amount: "0", wantError: apperrors.ErrCodeInvalidAmount},
		{name: "negative", config: DefaultConfig(), amount: "-5", wantError: apperrors.ErrCodeInvalidAmount},
		{name: "below minimum", config: minimum, amount: "99.99", wantError: apperrors.ErrCodeInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newHandler(t, tt.config)

			out, err := h.Execute(context.Background(), withdraw(tt.amount))

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantError, apperrors.CodeOf(err))
				assert.Len(t, store.Transactions(), 1)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "PENDING", out.TransactionStatus)
			assert.True(t, dec(tt.wantAvailable).Equal(out.Available), "available %s", out.Available)
		})
	}
}

func TestHandler_Execute_ConcurrentRequestsNeverOverdraw(t *testing.T) {
	h, store := newHandler(t, DefaultConfig())

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.Execute(context.Background(), withdraw("300")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.Equal(t, apperrors.ErrCodeInsufficientBalance, apperrors.CodeOf(err))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Len(t, store.Transactions(), 4)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MinAmount = dec("-1")
	assert.Error(t, cfg.Validate())
}
