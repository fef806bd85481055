package payment

import (
	"context"
	"fmt"

	"campus-gig-workers/internal/common/errors"

	"github.com/shopspring/decimal"
)

// Confirmation is what the client reports after checkout.
type Confirmation struct {
	OrderID   string
	PaymentID string
	Signature string
	// Amount is optional; when set it must equal the verified amount.
	Amount decimal.NullDecimal
}

// Verified is the gateway's answer once every check has passed.
type Verified struct {
	OrderID   string          `json:"orderId"`
	PaymentID string          `json:"paymentId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency,omitempty"`
}

type Verifier struct {
	secret  string
	gateway Gateway
}

func NewVerifier(secret string, gateway Gateway) *Verifier {
	return &Verifier{secret: secret, gateway: gateway}
}

// Confirm checks the signature before calling the gateway, so forged
// confirmations never cost a round trip.
func (v *Verifier) Confirm(ctx context.Context, c Confirmation) (*Verified, error) {
	if c.OrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return nil, errors.NewValidationError("orderId, paymentId and signature are required")
	}
	if !VerifySignature(v.secret, c.OrderID, c.PaymentID, c.Signature) {
		return nil, errors.NewPaymentSignatureInvalidError(fmt.Sprintf("paymentId: %s", c.PaymentID))
	}

	p, err := v.gateway.FetchPayment(ctx, c.PaymentID)
	if err != nil {
		return nil, err
	}

	if p.OrderID != "" && p.OrderID != c.OrderID {
		return nil, errors.NewPaymentSignatureInvalidError(
			fmt.Sprintf("payment %s belongs to order %s, not %s", p.ID, p.OrderID, c.OrderID))
	}
	if !p.Captured() {
		return nil, errors.NewStateConflictError(errors.ErrCodePaymentNotCaptured,
			"Payment has not been captured", fmt.Sprintf("paymentId: %s, status: %s", p.ID, p.Status))
	}
	if !p.Amount.IsPositive() {
		return nil, errors.NewInvalidAmountError(fmt.Sprintf("gateway reported amount %s", p.Amount))
	}
	if c.Amount.Valid && !c.Amount.Decimal.Equal(p.Amount) {
		return nil, errors.NewPaymentAmountMismatchError(
			fmt.Sprintf("client amount %s, verified amount %s", c.Amount.Decimal, p.Amount))
	}

	return &Verified{
		OrderID:   c.OrderID,
		PaymentID: p.ID,
		Amount:    p.Amount,
		Currency:  p.Currency,
	}, nil
}
