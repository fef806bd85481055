// internal/workers/escrow/confirm-release/handler.go
package confirmrelease

import (
	"context"

	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/shopspring/decimal"
)

const TaskType = "confirm-release"

type Releaser interface {
	ConfirmRelease(ctx context.Context, caller models.Caller, gigID string) (*ledger.ReleaseResult, error)
}

// Handler records a release confirmation from the poster or the worker. The
// second confirmation completes the gig and pays out net of commission.
type Handler struct {
	config   *Config
	ledger   Releaser
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l Releaser, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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

	result, err := h.ledger.ConfirmRelease(ctx, caller, input.GigID)
	if err != nil {
		return nil, err
	}

	out := &Output{
		GigID:            result.Gig.ID,
		GigStatus:        string(result.Gig.Status),
		OwnerConfirmed:   result.Gig.OwnerConfirmed,
		StudentConfirmed: result.Gig.StudentConfirmed,
		Released:         result.Released,
		WorkerID:         result.WorkerID,
	}
	if result.Released {
		out.CommissionRate = decimal.NewNullDecimal(result.Split.Rate)
		out.Commission = decimal.NewNullDecimal(result.Split.Fee)
		out.NetAmount = decimal.NewNullDecimal(result.Split.Net)
		out.PayoutID = result.Payout.ID
	}
	return out, nil
}
