package lockescrow

import (
	"context"
	"testing"

	"campus-gig-workers/internal/common/auth"
	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedger struct{ mock.Mock }

func (m *mockLedger) Lock(ctx context.Context, caller models.Caller, gigID string) (*ledger.LockResult, error) {
	args := m.Called(ctx, caller, gigID)
	if r := args.Get(0); r != nil {
		return r.(*ledger.LockResult), args.Error(1)
	}
	return nil, args.Error(1)
}

var poster = models.Caller{ID: "poster-1", Role: models.RolePoster}

func resolveAs(caller models.Caller, err error) auth.Resolver {
	return auth.ResolverFunc(func(context.Context, auth.Credentials) (models.Caller, error) {
		return caller, err
	})
}

func TestHandler_Execute(t *testing.T) {
	gigID := "gig-1"

	tests := []struct {
		name      string
		resolver  auth.Resolver
		setup     func(m *mockLedger)
		want      *Output
		wantError apperrors.ErrorCode
	}{
		{
			name:     "locks budget",
			resolver: resolveAs(poster, nil),
			setup: func(m *mockLedger) {
				m.On("Lock", mock.Anything, poster, gigID).Return(&ledger.LockResult{
					Gig:         &models.Gig{ID: gigID, Status: models.GigInProgress},
					Transaction: &models.Transaction{ID: "txn-1", Amount: decimal.NewFromInt(800)},
				}, nil)
			},
			want: &Output{GigID: gigID, GigStatus: "IN_PROGRESS", TransactionID: "txn-1", Amount: decimal.NewFromInt(800)},
		},
		{
			name:      "invalid token never reaches the ledger",
			resolver:  resolveAs(models.Caller{}, apperrors.NewTokenInvalidError("inactive token")),
			wantError: apperrors.ErrCodeTokenInvalid,
		},
		{
			name:     "state conflict is passed through",
			resolver: resolveAs(poster, nil),
			setup: func(m *mockLedger) {
				m.On("Lock", mock.Anything, poster, gigID).Return(nil,
					apperrors.NewStateConflictError(apperrors.ErrCodeInvalidGigState, "Gig must be ACCEPTED to lock escrow", "status: OPEN"))
			},
			wantError: apperrors.ErrCodeInvalidGigState,
		},
		{
			name:     "lock timeout is retryable",
			resolver: resolveAs(poster, nil),
			setup: func(m *mockLedger) {
				m.On("Lock", mock.Anything, poster, gigID).Return(nil, apperrors.NewLockTimeoutError("gig:gig-1"))
			},
			wantError: apperrors.ErrCodeLockTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockLedger{}
			if tt.setup != nil {
				tt.setup(m)
			}
			h := NewHandler(LoadConfig(), m, tt.resolver, logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), &Input{
				Credentials: auth.Credentials{AccessToken: "token"},
				GigID:       gigID,
			})

			m.AssertExpectations(t)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantError, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
