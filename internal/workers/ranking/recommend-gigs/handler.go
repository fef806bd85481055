// internal/workers/ranking/recommend-gigs/handler.go
package recommendgigs

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
	TaskType = "recommend-gigs"
	policy   = "composite"
)

// Handler recommends nearby open gigs using the composite policy: skill,
// proximity, the student's reputation and the gig's urgency. Only gigs
// within the engine radius are considered.
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

	out := &Output{Policy: policy, RadiusKm: h.engine.RadiusKm(), Results: []ranking.Result{}}

	point, ok := profile.Location.Point()
	if !ok {
		h.logger.Info("requester has no location, nothing to recommend", map[string]interface{}{
			"userId": profile.ID,
		})
		return out, nil
	}

	candidates := input.Candidates
	if candidates == nil && h.candidates != nil {
		candidates, err = h.candidates.OpenGigs(ctx, ranking.Query{
			ExcludeID: profile.ID,
			Near:      &point,
			RadiusKm:  h.engine.RadiusKm(),
			Limit:     h.config.MaxCandidates,
		})
		if err != nil {
			return nil, err
		}
	}
	metrics.RankingCandidates.WithLabelValues(policy).Observe(float64(len(candidates)))

	out.Results = h.engine.Composite(*profile, candidates, input.Limit)
	out.Count = len(out.Results)

	h.logger.Info("gigs recommended", map[string]interface{}{
		"userId":     profile.ID,
		"candidates": len(candidates),
		"returned":   out.Count,
	})
	return out, nil
}
