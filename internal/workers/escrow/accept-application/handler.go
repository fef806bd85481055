// internal/workers/escrow/accept-application/handler.go
package acceptapplication

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

const TaskType = "accept-application"

type Acceptor interface {
	AcceptApplication(ctx context.Context, caller models.Caller, applicationID string) (*ledger.AcceptResult, error)
}

type Handler struct {
	config   *Config
	ledger   Acceptor
	resolver auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, l Acceptor, resolver auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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

	result, err := h.ledger.AcceptApplication(ctx, caller, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	return &Output{
		GigID:             result.Gig.ID,
		GigStatus:         string(result.Gig.Status),
		ApplicationID:     result.Application.ID,
		ApplicationStatus: string(result.Application.Status),
		WorkerID:          result.Application.ApplicantID,
	}, nil
}
