package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
	"github.com/couchcryptid/plate-kinematics-etl/internal/observability"
)

// Batch is the convergence output of one reconstruction time step.
type Batch struct {
	TimeMa  float64
	Samples []domain.ConvergenceSample
}

// Extractor produces one batch per call. done is true when the export window
// is exhausted. Implementations must not advance past a step that returned
// an error, so a retried Extract resumes at the failed step.
type Extractor interface {
	Extract(ctx context.Context) (batch Batch, done bool, err error)
}

// Transformer converts a batch into serialized output rows.
type Transformer interface {
	Transform(ctx context.Context, batch Batch) ([]domain.OutputRow, error)
}

// Loader writes output rows to the destination.
type Loader interface {
	LoadBatch(ctx context.Context, rows []domain.OutputRow) error
}

// Pipeline orchestrates the extract-transform-load loop over reconstruction
// time steps.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the pipeline has exported at least one
// time step, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not exported any time steps yet")
	}
	return nil
}

// Run executes the export loop until the window is exhausted or the context
// is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("export pipeline started")
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during engine or
	// broker outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		done, ok := p.processStep(ctx, &backoff, maxBackoff)
		if done {
			p.logger.Info("export window complete")
			return nil
		}
		if !ok {
			return nil
		}
	}
}

// processStep runs one extract-transform-load cycle. done reports an
// exhausted export window; ok is false when the pipeline should stop.
func (p *Pipeline) processStep(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) (done, ok bool) {
	start := time.Now()

	batch, exhausted, err := p.extractor.Extract(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, false
		}
		p.logger.Error("extract step failed", "error", err)
		p.metrics.ExtractErrors.Inc()
		return false, p.backoffOrStop(ctx, backoff, maxBackoff)
	}
	if exhausted {
		return true, false
	}
	*backoff = 200 * time.Millisecond

	// A transform failure is deterministic, so the step is skipped rather
	// than retried.
	rows, err := p.transformer.Transform(ctx, batch)
	if err != nil {
		p.logger.Warn("transform failed, skipping time step", "error", err, "time_ma", batch.TimeMa)
		p.metrics.TransformErrors.Inc()
		return false, true
	}

	if len(rows) > 0 {
		if !p.loadWithRetry(ctx, batch.TimeMa, rows, backoff, maxBackoff) {
			return false, false
		}
		p.metrics.RowsProduced.Add(float64(len(rows)))
	}

	p.metrics.StepsCompleted.Inc()
	p.metrics.StepDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("time step exported", "time_ma", batch.TimeMa, "rows", len(rows))
	return false, true
}

// loadWithRetry writes rows to the loader, retrying transient failures with
// backoff so a broker outage does not drop the step. Returns false if the
// pipeline should stop.
func (p *Pipeline) loadWithRetry(ctx context.Context, timeMa float64, rows []domain.OutputRow, backoff *time.Duration, maxBackoff time.Duration) bool {
	for {
		err := p.loader.LoadBatch(ctx, rows)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("load step failed", "error", err, "time_ma", timeMa, "rows", len(rows))
		if !p.backoffOrStop(ctx, backoff, maxBackoff) {
			return false
		}
	}
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
