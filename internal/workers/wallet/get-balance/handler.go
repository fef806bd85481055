// internal/workers/wallet/get-balance/handler.go
package getbalance

import (
	"context"

	"campus-gig-workers/internal/balance"
	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "get-balance"

type BalanceReader interface {
	Balance(ctx context.Context, userID string) (*balance.Summary, error)
}

// Handler derives a wallet position from the ledger. It takes no lock, so a
// concurrent mutation may or may not be reflected.
type Handler struct {
	config   *Config
	ledger   BalanceReader
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l BalanceReader, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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

	userID := input.UserID
	if userID == "" {
		userID = caller.ID
	}
	if userID != caller.ID && !caller.IsAdmin() {
		return nil, errors.NewUnauthorizedError("only admins can read another user's balance")
	}

	summary, err := h.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Output{
		UserID:         summary.UserID,
		Credits:        summary.Credits,
		Debits:         summary.Debits,
		Available:      summary.Available,
		LockedInEscrow: summary.LockedInEscrow,
	}, nil
}
