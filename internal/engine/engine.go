// Package engine runs execution plans wave by wave against an external
// criterion executor, with per-attempt timeouts, bounded retries, and
// lifecycle event emission.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/wavegate/internal/analytics"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/errors"
	"github.com/felixgeelhaar/wavegate/internal/log"
	"github.com/felixgeelhaar/wavegate/internal/planner"
)

const (
	// DefaultTimeout is applied when Options.Timeout is zero.
	DefaultTimeout = 60 * time.Second
	// DefaultMaxRetries is the conventional retry budget; a negative
	// Options.MaxRetries falls back to it, zero disables retries.
	DefaultMaxRetries = 2

	// retryBackoffBase is the first retry delay; each further retry
	// doubles it. Fixed, jitter-free backoff keeps runs deterministic.
	retryBackoffBase = 100 * time.Millisecond
)

// Options configures a single plan run.
type Options struct {
	// Timeout bounds each individual execution attempt.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after a failure.
	MaxRetries int
	// Listener receives lifecycle events; nil means no observation.
	Listener Listener
	// Recorder, when set, receives one analytics record per final
	// criterion outcome.
	Recorder *analytics.Recorder
	// Logger defaults to the process-wide logger.
	Logger *log.Logger
}

// Summary reports topline numbers for a finished run.
type Summary struct {
	TotalCriteria       int     `json:"totalCriteria"`
	ParallelizationGain float64 `json:"parallelizationGain"`
}

// Report is the result of executing a plan.
type Report struct {
	RunID   string  `json:"runId"`
	Success bool    `json:"success"`
	State   State   `json:"executionState"`
	Summary Summary `json:"summary"`
}

// Engine executes plans against a criterion executor.
type Engine struct {
	executor Executor
}

// New creates an Engine backed by the given executor
func New(executor Executor) *Engine {
	return &Engine{executor: executor}
}

// Run executes the plan wave by wave. Waves never overlap: all tasks of
// a wave finish before the next wave starts. Within a wave, entries run
// concurrently up to the wave's concurrency. A criterion whose strict
// dependency already failed is skipped into the failed set without
// touching the executor; forced entries run regardless. A failure never
// aborts sibling tasks already in flight.
//
// Run returns an error only when the engine itself cannot proceed
// (missing executor, cancelled context); criterion failures surface
// through Report.Success and the failed set.
func (e *Engine) Run(ctx context.Context, g *criteria.Graph, plan planner.Plan, opts Options) (Report, error) {
	if e.executor == nil {
		return Report{}, errors.New(errors.ErrCodeExecutorMissing, "no criterion executor configured")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Listener == nil {
		opts.Listener = NopListener{}
	}
	if opts.Logger == nil {
		opts.Logger = log.DefaultLogger()
	}

	run := &activeRun{
		engine:   e,
		graph:    g,
		opts:     opts,
		state:    newRunState(),
		listener: &lockedListener{inner: opts.Listener},
	}

	report := Report{
		RunID: uuid.NewString(),
		Summary: Summary{
			TotalCriteria:       plan.TotalCriteria,
			ParallelizationGain: plan.ParallelizationGain,
		},
	}
	logger := opts.Logger.With("run_id", report.RunID)
	logger.Info("starting plan execution", "waves", plan.TotalWaves, "criteria", plan.TotalCriteria)

	for _, wave := range plan.Waves {
		if ctx.Err() != nil {
			// Cancellation: everything not yet finished counts failed.
			for _, entry := range wave.Entries {
				run.state.finish(entry.CriterionID, false)
			}
			continue
		}
		run.executeWave(ctx, wave, logger)
	}

	if err := ctx.Err(); err != nil {
		report.State = run.state.snapshot()
		return report, fmt.Errorf("plan execution cancelled: %w", err)
	}

	report.State = run.state.snapshot()
	report.Success = len(report.State.Failed) == 0
	logger.Info("plan execution finished", "success", report.Success,
		"completed", len(report.State.Completed), "failed", len(report.State.Failed))
	return report, nil
}

// activeRun carries the shared state of one Run invocation.
type activeRun struct {
	engine   *Engine
	graph    *criteria.Graph
	opts     Options
	state    *runState
	listener *lockedListener
}

func (r *activeRun) executeWave(ctx context.Context, wave planner.Wave, logger *log.Logger) {
	r.listener.WaveStarted(wave)
	logger.Debug("wave started", "wave", wave.Index, "entries", len(wave.Entries))

	var wg sync.WaitGroup
	for _, entry := range wave.Entries {
		// Skip criteria whose strict dependencies failed. Forced
		// entries are exempt: their unmet dependencies were already
		// discounted at planning time.
		if !entry.Forced {
			if blocked, dep := r.blockedBy(entry.CriterionID); blocked {
				outcome := Outcome{
					CriterionID: entry.CriterionID,
					Skipped:     true,
					Err: errors.New(errors.ErrCodeExecutorFailure,
						fmt.Sprintf("skipped: strict dependency %q failed", dep)),
				}
				r.state.finish(entry.CriterionID, false)
				r.record(outcome)
				r.listener.CriterionCompleted(outcome)
				continue
			}
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.executeCriterion(ctx, id, logger)
		}(entry.CriterionID)
	}
	wg.Wait()

	failed := r.state.snapshot().Failed
	r.listener.WaveCompleted(wave, failed)
	logger.Debug("wave completed", "wave", wave.Index, "failed_so_far", len(failed))
}

// blockedBy reports whether any strict dependency of id failed in this run.
func (r *activeRun) blockedBy(id string) (bool, string) {
	c, ok := r.graph.Get(id)
	if !ok {
		return false, ""
	}
	for _, dep := range c.Dependencies {
		if dep.Type == criteria.DependencyStrict && r.state.hasFailed(dep.TargetID) {
			return true, dep.TargetID
		}
	}
	return false, ""
}

func (r *activeRun) executeCriterion(ctx context.Context, id string, logger *log.Logger) {
	r.state.start(id)
	r.listener.CriterionStarted(id)

	outcome := Outcome{CriterionID: id}
	attempts := r.opts.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		outcome.Attempts = attempt

		result, err := r.attempt(ctx, id)
		outcome.DurationMs = result.DurationMs
		outcome.Output = result.Output
		outcome.Err = err

		if err != nil {
			// Executor-level fault, distinct from a validation failure.
			r.listener.Error(id, err)
			logger.Warn("executor fault", "criterion", id, "attempt", attempt, "error", err)
		} else if result.Success {
			outcome.Success = true
			break
		} else {
			logger.Debug("criterion attempt failed", "criterion", id, "attempt", attempt)
		}

		if attempt < attempts && !sleepBackoff(ctx, attempt) {
			break
		}
	}

	r.state.finish(id, outcome.Success)
	r.record(outcome)
	r.listener.CriterionCompleted(outcome)
}

// attempt runs one bounded executor call. Timeouts come back as
// executor faults so they count as failed attempts eligible for retry.
func (r *activeRun) attempt(ctx context.Context, id string) (Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	started := time.Now()
	result, err := r.engine.executor.Execute(attemptCtx, id)
	if result.DurationMs == 0 {
		result.DurationMs = time.Since(started).Milliseconds()
	}

	if attemptCtx.Err() == context.DeadlineExceeded {
		err = errors.Wrap(errors.ErrCodeExecTimeout,
			fmt.Sprintf("criterion %q timed out after %s", id, r.opts.Timeout), attemptCtx.Err())
	} else if err != nil {
		err = errors.Wrap(errors.ErrCodeExecutorFailure,
			fmt.Sprintf("executor failed for criterion %q", id), err)
	}
	return result, err
}

func (r *activeRun) record(outcome Outcome) {
	if r.opts.Recorder == nil {
		return
	}
	status := analytics.StatusFailure
	if outcome.Success {
		status = analytics.StatusSuccess
	}
	r.opts.Recorder.Record(outcome.CriterionID, status, outcome.DurationMs)
}

// sleepBackoff waits 100ms doubling per attempt; returns false when the
// context was cancelled during the wait.
func sleepBackoff(ctx context.Context, attempt int) bool {
	delay := retryBackoffBase << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// lockedListener serializes listener callbacks from concurrent tasks.
type lockedListener struct {
	mu    sync.Mutex
	inner Listener
}

func (l *lockedListener) WaveStarted(w planner.Wave) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.WaveStarted(w)
}

func (l *lockedListener) CriterionStarted(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.CriterionStarted(id)
}

func (l *lockedListener) CriterionCompleted(o Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.CriterionCompleted(o)
}

func (l *lockedListener) WaveCompleted(w planner.Wave, failed []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.WaveCompleted(w, failed)
}

func (l *lockedListener) Error(id string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.Error(id, err)
}
