// internal/workers/wallet/request-withdrawal/handler.go
package requestwithdrawal

import (
	"context"

	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/shopspring/decimal"
)

const TaskType = "request-withdrawal"

type Withdrawer interface {
	Withdraw(ctx context.Context, caller models.Caller, amount decimal.Decimal) (*ledger.WithdrawResult, error)
}

// Handler records a PENDING withdrawal when the caller's available balance
// covers it. Settlement happens later via settle-transaction.
type Handler struct {
	config   *Config
	ledger   Withdrawer
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l Withdrawer, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	return &Handler{
		config:   config,
		ledger:   l,
		resolver: resolver,
		runner:   camunda.NewRunner(TaskType, config.Timeout, GetInputSchema(), log, opts...),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !input.Amount.IsPositive() {
		return nil, errors.NewInvalidAmountError("amount must be greater than zero")
	}
	if input.Amount.LessThan(h.config.MinAmount) {
		return nil, errors.NewInvalidAmountError("amount is below the minimum withdrawal of " + h.config.MinAmount.String())
	}

	caller, err := h.resolver.Resolve(ctx, input.Credentials)
	if err != nil {
		return nil, err
	}

	result, err := h.ledger.Withdraw(ctx, caller, input.Amount)
	if err != nil {
		return nil, err
	}

	return &Output{
		TransactionID:     result.Transaction.ID,
		TransactionStatus: string(result.Transaction.Status),
		Amount:            result.Transaction.Amount,
		Available:         result.Balance.Available,
	}, nil
}
