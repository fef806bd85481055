// internal/workers/ranking/search-gigs/handler.go
package searchgigs

import (
	"context"

	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/common/metrics"
	"campus-gig-workers/internal/ranking"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-gigs"
	policy   = "hybrid"
)

// Handler ranks open gigs for a student by skill fit and proximity. Gigs with
// no known location are kept with a neutral proximity.
type Handler struct {
	config     *Config
	engine     *ranking.Engine
	profiles   ranking.ProfileSource
	candidates ranking.CandidateSource
	runner     *camunda.Runner
	logger     logger.Logger
}

func NewHandler(
	config *Config,
	engine *ranking.Engine,
	profiles ranking.ProfileSource,
	candidates ranking.CandidateSource,
	log logger.Logger,
	opts ...camunda.RunnerOption,
) *Handler {
	return &Handler{
		config:     config,
		engine:     engine,
		profiles:   profiles,
		candidates: candidates,
		runner:     camunda.NewRunner(TaskType, config.Timeout, GetInputSchema(), log, opts...),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := ranking.Requester(ctx, h.profiles, input.Profile, input.UserID)
	if err != nil {
		return nil, err
	}

	candidates := input.Candidates
	if candidates == nil && h.candidates != nil {
		candidates, err = h.candidates.OpenGigs(ctx, ranking.Query{
			ExcludeID: profile.ID,
			Limit:     h.config.MaxCandidates,
		})
		if err != nil {
			return nil, err
		}
	}
	metrics.RankingCandidates.WithLabelValues(policy).Observe(float64(len(candidates)))

	results := h.engine.Hybrid(*profile, candidates, input.Limit)

	h.logger.Info("gigs ranked", map[string]interface{}{
		"userId":     profile.ID,
		"candidates": len(candidates),
		"returned":   len(results),
	})

	return &Output{
		Policy:  policy,
		Results: results,
		Count:   len(results),
	}, nil
}
