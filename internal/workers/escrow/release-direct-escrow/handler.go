// internal/workers/escrow/release-direct-escrow/handler.go
package releasedirectescrow

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

const TaskType = "release-direct-escrow"

type DirectReleaser interface {
	ReleaseDirect(ctx context.Context, caller models.Caller, escrowID string) (*ledger.DirectReleaseResult, error)
}

type Handler struct {
	config   *Config
	ledger   DirectReleaser
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l DirectReleaser, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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

	result, err := h.ledger.ReleaseDirect(ctx, caller, input.EscrowID)
	if err != nil {
		return nil, err
	}

	return &Output{
		EscrowID:      result.Escrow.ID,
		EscrowStatus:  string(result.Escrow.Status),
		GigID:         result.Escrow.GigID,
		WorkerID:      result.Escrow.WorkerID,
		Amount:        result.Transaction.Amount,
		TransactionID: result.Transaction.ID,
		ReleasedAt:    result.Escrow.ReleasedAt,
	}, nil
}
