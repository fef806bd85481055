// internal/workers/escrow/refund-escrow/handler.go
package refundescrow

import (
	"context"

	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "refund-escrow"

type Refunder interface {
	Refund(ctx context.Context, caller models.Caller, gigID string) (*ledger.RefundResult, error)
}

type Handler struct {
	config   *Config
	ledger   Refunder
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l Refunder, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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
	caller, err := h.resolver.Resolve(ctx, input.Credentials)
	if err != nil {
		return nil, err
	}

	result, err := h.ledger.Refund(ctx, caller, input.GigID)
	if err != nil {
		return nil, err
	}

	return &Output{
		GigID:          result.Gig.ID,
		GigStatus:      string(result.Gig.Status),
		PreviousStatus: string(result.PreviousStatus),
		TransactionID:  result.Transaction.ID,
		Amount:         result.Transaction.Amount,
	}, nil
}
