// internal/workers/wallet/verify-deposit/handler.go
package verifydeposit

import (
	"context"

	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/models"
	"campus-gig-workers/internal/payment"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "verify-deposit"

type Depositor interface {
	Deposit(ctx context.Context, caller models.Caller, req ledger.DepositRequest) (*models.Transaction, error)
}

type PaymentVerifier interface {
	Confirm(ctx context.Context, c payment.Confirmation) (*payment.Verified, error)
}

// Handler credits a wallet with a gateway-confirmed payment. The credited
// amount is the gateway's; a payment is credited at most once.
type Handler struct {
	config   *Config
	ledger   Depositor
	payments PaymentVerifier
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l Depositor, payments PaymentVerifier, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	return &Handler{
		config:   config,
		ledger:   l,
		payments: payments,
		resolver: resolver,
		runner:   camunda.NewRunner(TaskType, config.Timeout, GetInputSchema(), log, opts...),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	caller, err := h.resolver.Resolve(ctx, input.Credentials)
	if err != nil {
		return nil, err
	}

	verified, err := h.payments.Confirm(ctx, payment.Confirmation{
		OrderID:   input.OrderID,
		PaymentID: input.PaymentID,
		Signature: input.Signature,
		Amount:    input.Amount,
	})
	if err != nil {
		return nil, err
	}

	txn, err := h.ledger.Deposit(ctx, caller, ledger.DepositRequest{
		Amount:    verified.Amount,
		Reference: verified.PaymentID,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		TransactionID: txn.ID,
		PaymentID:     verified.PaymentID,
		Amount:        txn.Amount,
		Currency:      verified.Currency,
	}, nil
}
