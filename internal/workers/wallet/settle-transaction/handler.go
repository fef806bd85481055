// internal/workers/wallet/settle-transaction/handler.go
package settletransaction

import (
	"context"

	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "settle-transaction"

type Settler interface {
	SettleTransaction(ctx context.Context, caller models.Caller, txnID string, status models.TransactionStatus) (*models.Transaction, error)
}

type Handler struct {
	config   *Config
	ledger   Settler
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l Settler, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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

	txn, err := h.ledger.SettleTransaction(ctx, caller, input.TransactionID, input.Status)
	if err != nil {
		return nil, err
	}

	return &Output{
		TransactionID:     txn.ID,
		TransactionType:   txn.Type,
		TransactionStatus: txn.Status,
		UserID:            txn.UserID,
		Amount:            txn.Amount,
	}, nil
}
