// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campus-gig-workers/internal/common/config"
	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/common/metrics"
	"campus-gig-workers/internal/common/observability"
	"campus-gig-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// JobHandler is implemented by every task handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Runner carries the per-task plumbing shared by all handlers: input schema
// validation, timeout, metrics, tracing and error classification.
type Runner struct {
	taskType string
	schema   validation.JSONSchema
	timeout  time.Duration
	logger   logger.Logger
	errors   *apperrors.ErrorHandler
	obs      *observability.Observability
}

type RunnerOption func(*Runner)

// WithObservability records otel spans and job metrics.
func WithObservability(obs *observability.Observability) RunnerOption {
	return func(r *Runner) { r.obs = obs }
}

func NewRunner(taskType string, timeout time.Duration, schema validation.JSONSchema, log logger.Logger, opts ...RunnerOption) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &Runner{
		taskType: taskType,
		schema:   schema,
		timeout:  timeout,
		logger:   log.WithFields(map[string]interface{}{"taskType": taskType}),
	}
	r.errors = apperrors.NewErrorHandler(r.logger)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) TaskType() string { return r.taskType }

// Run decodes the job variables into In, calls exec and completes the job
// with its output. Any error is routed through the ErrorHandler, which fails
// the job with retries or throws a BPMN error.
func Run[In, Out any](r *Runner, client worker.JobClient, job entities.Job, exec func(context.Context, *In) (*Out, error)) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, span := r.obs.StartSpan(ctx, r.taskType,
		attribute.Int64("job.key", job.Key),
		attribute.Int64("process.instance.key", job.ProcessInstanceKey),
	)
	defer span.End()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
		"retries":     job.Retries,
	})

	output, err := decodeAndExecute(ctx, r, job, exec)
	status := "completed"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(apperrors.Normalize(err).Code)).Inc()
		r.errors.HandleJobError(ctx, client, job, err)
	} else {
		r.complete(ctx, client, job, output)
		metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	}

	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJobProcessed(ctx, r.taskType, status)
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, status)
}

func decodeAndExecute[In, Out any](ctx context.Context, r *Runner, job entities.Job, exec func(context.Context, *In) (*Out, error)) (*Out, error) {
	result, err := validation.ValidateJSON(job.Variables, r.schema)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	var input In
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}

	return exec(ctx, &input)
}

func (r *Runner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		r.errors.HandleJobError(ctx, client, job, apperrors.NewValidationError(fmt.Sprintf("encode output: %v", err)))
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	r.logger.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}

// StartWorker opens a job worker for taskType with the per-worker settings.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log *zap.Logger) worker.JobWorker {
	w := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeoutMs", wcfg.Timeout),
	)
	return w
}
