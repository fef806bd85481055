package lockdirectescrow

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"campus-gig-workers/internal/common/auth"
	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/common/validation"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/models"
	"campus-gig-workers/internal/payment"
	"campus-gig-workers/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "whsec_test"

var (
	poster  = models.Caller{ID: "poster-1", Role: models.RolePoster}
	student = models.Caller{ID: "student-1", Role: models.RoleStudent}
)

type mockGateway struct{ mock.Mock }

func (m *mockGateway) FetchPayment(ctx context.Context, paymentID string) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID)
	if p := args.Get(0); p != nil {
		return p.(*payment.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

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

type fixture struct {
	handler *Handler
	store   *memory.Store
	gateway *mockGateway
}

func newFixture(t *testing.T) *fixture {
	store := memory.New()
	store.PutGig(models.Gig{ID: "gig-1", PosterID: poster.ID, Budget: decimal.NewFromInt(800), Status: models.GigOpen})

	var seq int64
	l := ledger.New(store, lock.NewLocal(time.Second), logger.NewTestLogger(t),
		ledger.WithIDGenerator(func() string { return fmt.Sprintf("id-%d", atomic.AddInt64(&seq, 1)) }))

	gw := &mockGateway{}
	h := NewHandler(DefaultConfig(), l, payment.NewVerifier(secret, gw), directory(poster, student), logger.NewTestLogger(t))
	return &fixture{handler: h, store: store, gateway: gw}
}

func signedInput(caller models.Caller, paymentID string) *Input {
	return &Input{
		Credentials: auth.Credentials{CallerID: caller.ID},
		GigID:       "gig-1",
		WorkerID:    student.ID,
		OrderID:     "order-1",
		PaymentID:   paymentID,
		Signature:   payment.Sign(secret, "order-1", paymentID),
	}
}

func captured(id string, amount string) *payment.Payment {
	return &payment.Payment{ID: id, OrderID: "order-1", Amount: decimal.RequireFromString(amount), Currency: "INR", Status: payment.StatusCaptured}
}

func TestHandler_Execute_LocksVerifiedAmount(t *testing.T) {
	f := newFixture(t)
	f.gateway.On("FetchPayment", mock.Anything, "pay-1").Return(captured("pay-1", "750"), nil)

	out, err := f.handler.Execute(context.Background(), signedInput(poster, "pay-1"))

	require.NoError(t, err)
	assert.Equal(t, "LOCKED", out.EscrowStatus)
	assert.Equal(t, student.ID, out.WorkerID)
	assert.True(t, decimal.NewFromInt(750).Equal(out.Amount), "gateway amount wins over gig budget")
	assert.Equal(t, "INR", out.Currency)

	txns := f.store.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, models.TxnEscrowLock, txns[0].Type)
	require.NotNil(t, txns[0].Reference)
	assert.Equal(t, "pay-1", *txns[0].Reference)
}

func TestHandler_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		input     func() *Input
		setup     func(f *fixture)
		wantError apperrors.ErrorCode
	}{
		{
			name: "forged signature",
			input: func() *Input {
				in := signedInput(poster, "pay-1")
				in.Signature = payment.Sign("wrong", "order-1", "pay-1")
				return in
			},
			wantError: apperrors.ErrCodePaymentSignatureInvalid,
		},
		{
			name: "client amount disagrees with gateway",
			input: func() *Input {
				in := signedInput(poster, "pay-1")
				in.Amount = decimal.NewNullDecimal(decimal.NewFromInt(900))
				return in
			},
			setup: func(f *fixture) {
				f.gateway.On("FetchPayment", mock.Anything, "pay-1").Return(captured("pay-1", "750"), nil)
			},
			wantError: apperrors.ErrCodePaymentAmountMismatch,
		},
		{
			name:  "worker cannot fund",
			input: func() *Input { return signedInput(student, "pay-1") },
			setup: func(f *fixture) {
				f.gateway.On("FetchPayment", mock.Anything, "pay-1").Return(captured("pay-1", "750"), nil)
			},
			wantError: apperrors.ErrCodeUnauthorizedAction,
		},
		{
			name:  "gateway down",
			input: func() *Input { return signedInput(poster, "pay-1") },
			setup: func(f *fixture) {
				f.gateway.On("FetchPayment", mock.Anything, "pay-1").
					Return(nil, apperrors.NewExternalServiceError("payment_gateway", assert.AnError))
			},
			wantError: apperrors.ErrCodeExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.handler.Execute(context.Background(), tt.input())

			require.Error(t, err)
			assert.Equal(t, tt.wantError, apperrors.CodeOf(err))
			assert.Empty(t, f.store.Transactions())
			f.gateway.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_SecondLockAndReusedPayment(t *testing.T) {
	f := newFixture(t)
	f.gateway.On("FetchPayment", mock.Anything, "pay-1").Return(captured("pay-1", "500"), nil)
	f.gateway.On("FetchPayment", mock.Anything, "pay-2").Return(captured("pay-2", "500"), nil)

	_, err := f.handler.Execute(context.Background(), signedInput(poster, "pay-1"))
	require.NoError(t, err)

	_, err = f.handler.Execute(context.Background(), signedInput(poster, "pay-2"))
	assert.Equal(t, apperrors.ErrCodeEscrowAlreadyLocked, apperrors.CodeOf(err))
}

func TestGetInputSchema(t *testing.T) {
	sig := payment.Sign(secret, "o", "p")

	ok, err := validation.ValidateJSON(`{"gigId":"g","workerId":"w","orderId":"o","paymentId":"p","signature":"`+sig+`","amount":"750.00"}`, GetInputSchema())
	require.NoError(t, err)
	assert.True(t, ok.Valid, ok.GetErrorMessages())

	bad, err := validation.ValidateJSON(`{"gigId":"g","workerId":"w","orderId":"o","paymentId":"p","signature":"xyz"}`, GetInputSchema())
	require.NoError(t, err)
	assert.True(t, bad.HasErrors("signature"))
}
