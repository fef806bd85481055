package payment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"campus-gig-workers/internal/common/errors"
	apphttp "campus-gig-workers/internal/common/http"

	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"
)

const StatusCaptured = "captured"

// Payment is the provider's view of a payment. Amount is in major units.
type Payment struct {
	ID       string          `json:"id"`
	OrderID  string          `json:"orderId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Status   string          `json:"status"`
}

func (p Payment) Captured() bool {
	return strings.EqualFold(p.Status, StatusCaptured)
}

// Gateway fetches the authoritative record of a payment.
type Gateway interface {
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
}

const paymentSchema = `{
	"type": "object",
	"required": ["id", "amount", "status"],
	"properties": {
		"id":       {"type": "string", "minLength": 1},
		"order_id": {"type": ["string", "null"]},
		"amount":   {"type": "integer", "minimum": 0},
		"currency": {"type": "string"},
		"status":   {"type": "string", "minLength": 1}
	}
}`

var paymentSchemaLoader = gojsonschema.NewStringLoader(paymentSchema)

type gatewayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type HTTPGatewayConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
	// MinorUnits per major unit, e.g. 100 for paise or cents.
	MinorUnits int
}

// HTTPGateway talks to a REST payment provider using basic auth.
type HTTPGateway struct {
	client     *apphttp.Client
	minorUnits decimal.Decimal
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(cfg HTTPGatewayConfig) *HTTPGateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MinorUnits <= 0 {
		cfg.MinorUnits = 100
	}
	return &HTTPGateway{
		client: apphttp.NewClient(cfg.Timeout,
			apphttp.WithBaseURL(cfg.BaseURL),
			apphttp.WithBasicAuth(cfg.KeyID, cfg.KeySecret),
		),
		minorUnits: decimal.NewFromInt(int64(cfg.MinorUnits)),
	}
}

func (g *HTTPGateway) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if paymentID == "" {
		return nil, errors.NewValidationError("paymentId is required")
	}

	body, err := g.client.Get(ctx, "/payments/"+url.PathEscape(paymentID))
	if err != nil {
		var statusErr *apphttp.StatusError
		if stderrors.As(err, &statusErr) {
			if statusErr.StatusCode == 404 {
				return nil, errors.NewResourceNotFoundError("payment-gateway", fmt.Sprintf("paymentId: %s", paymentID))
			}
			stdErr := errors.NewExternalServiceError("payment-gateway", err)
			stdErr.Retryable = statusErr.Transient()
			return nil, stdErr
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewTimeoutError("payment-gateway", err)
		}
		return nil, errors.NewExternalServiceError("payment-gateway", err)
	}

	result, err := gojsonschema.Validate(paymentSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, errors.NewExternalServiceError("payment-gateway", fmt.Errorf("malformed payment payload: %w", err))
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		stdErr := errors.NewExternalServiceError("payment-gateway", fmt.Errorf("unexpected payment payload: %s", strings.Join(msgs, "; ")))
		stdErr.Retryable = false
		return nil, stdErr
	}

	var raw gatewayPayment
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.NewExternalServiceError("payment-gateway", err)
	}

	return &Payment{
		ID:       raw.ID,
		OrderID:  raw.OrderID,
		Amount:   decimal.NewFromInt(raw.Amount).Div(g.minorUnits),
		Currency: raw.Currency,
		Status:   raw.Status,
	}, nil
}
