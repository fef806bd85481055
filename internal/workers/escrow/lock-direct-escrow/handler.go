// internal/workers/escrow/lock-direct-escrow/handler.go
package lockdirectescrow

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

const TaskType = "lock-direct-escrow"

type DirectLocker interface {
	LockDirect(ctx context.Context, caller models.Caller, req ledger.LockDirectRequest) (*ledger.DirectLockResult, error)
}

type PaymentVerifier interface {
	Confirm(ctx context.Context, c payment.Confirmation) (*payment.Verified, error)
}

// Handler locks a gateway-confirmed payment against a specific worker before
// any application has been accepted. The locked amount is the gateway's,
// never the client's.
type Handler struct {
	config   *Config
	ledger   DirectLocker
	payments PaymentVerifier
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l DirectLocker, payments PaymentVerifier, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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
		h.logger.Warn("payment confirmation rejected", map[string]interface{}{
			"callerId":  caller.ID,
			"gigId":     input.GigID,
			"paymentId": input.PaymentID,
			"error":     err,
		})
		return nil, err
	}

	result, err := h.ledger.LockDirect(ctx, caller, ledger.LockDirectRequest{
		GigID:     input.GigID,
		WorkerID:  input.WorkerID,
		Amount:    verified.Amount,
		Reference: verified.PaymentID,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		EscrowID:      result.Escrow.ID,
		EscrowStatus:  string(result.Escrow.Status),
		GigID:         result.Escrow.GigID,
		WorkerID:      result.Escrow.WorkerID,
		Amount:        result.Escrow.Amount,
		Currency:      verified.Currency,
		TransactionID: result.Transaction.ID,
	}, nil
}
