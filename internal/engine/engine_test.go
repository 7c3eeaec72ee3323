package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/wavegate/internal/analytics"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/planner"
)

// scriptedExecutor fails configured criteria a set number of times
// before succeeding, and counts calls per criterion.
type scriptedExecutor struct {
	mu       sync.Mutex
	failures map[string]int
	faults   map[string]error
	calls    map[string]int
	blockCtx bool
}

func newScriptedExecutor() *scriptedExecutor {
	return &scriptedExecutor{
		failures: make(map[string]int),
		faults:   make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (s *scriptedExecutor) Execute(ctx context.Context, id string) (Result, error) {
	if s.blockCtx {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[id]++

	if err, ok := s.faults[id]; ok {
		return Result{}, err
	}
	if s.failures[id] > 0 {
		s.failures[id]--
		return Result{Success: false, Output: "validation failed", DurationMs: 5}, nil
	}
	return Result{Success: true, Output: "ok", DurationMs: 5}, nil
}

func (s *scriptedExecutor) callCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[id]
}

// eventLog records listener events in order.
type eventLog struct {
	NopListener
	mu     sync.Mutex
	events []string
	faults []string
}

func (l *eventLog) WaveStarted(w planner.Wave) {
	l.append("wave-start")
}

func (l *eventLog) CriterionStarted(id string) {
	l.append("start:" + id)
}

func (l *eventLog) CriterionCompleted(o Outcome) {
	l.append("done:" + o.CriterionID)
}

func (l *eventLog) WaveCompleted(w planner.Wave, failed []string) {
	l.append("wave-done")
}

func (l *eventLog) Error(id string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.faults = append(l.faults, id)
}

func (l *eventLog) append(ev string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

func pipelinePlan(t *testing.T) (*criteria.Graph, planner.Plan) {
	t.Helper()
	s := criteria.NewEmptyStore()
	strict := func(target string) criteria.Dependency {
		return criteria.Dependency{TargetID: target, Type: criteria.DependencyStrict}
	}
	require.NoError(t, s.Add("lint", criteria.Config{}))
	require.NoError(t, s.Add("typecheck", criteria.Config{}))
	require.NoError(t, s.Add("build", criteria.Config{Dependencies: []criteria.Dependency{strict("lint"), strict("typecheck")}}))
	require.NoError(t, s.Add("test", criteria.Config{Dependencies: []criteria.Dependency{strict("build")}}))

	g := s.Snapshot()
	plan, err := planner.ParallelPlan(g, nil, 4)
	require.NoError(t, err)
	return g, plan
}

func TestRunAllSucceed(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()

	report, err := New(exec).Run(context.Background(), g, plan, Options{Timeout: time.Second})
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.State.Completed, 4)
	assert.Empty(t, report.State.Failed)
	assert.Empty(t, report.State.InProgress)
	assert.Equal(t, 4, report.Summary.TotalCriteria)
}

func TestRunRetriesUntilSuccess(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()
	exec.failures["lint"] = 2

	report, err := New(exec).Run(context.Background(), g, plan, Options{
		Timeout:    time.Second,
		MaxRetries: 2,
	})
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, 3, exec.callCount("lint"))
}

func TestRunFailureSkipsStrictDependents(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()
	exec.failures["build"] = 10 // more than the retry budget

	events := &eventLog{}
	report, err := New(exec).Run(context.Background(), g, plan, Options{
		Timeout:    time.Second,
		MaxRetries: 1,
		Listener:   events,
	})
	require.NoError(t, err)

	assert.False(t, report.Success)
	assert.ElementsMatch(t, []string{"build", "test"}, report.State.Failed)
	assert.ElementsMatch(t, []string{"lint", "typecheck"}, report.State.Completed)
	// test was skipped without ever reaching the executor
	assert.Zero(t, exec.callCount("test"))
	assert.Equal(t, 2, exec.callCount("build"))
}

func TestRunSiblingFailureDoesNotAbortWave(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()
	exec.failures["lint"] = 10

	report, err := New(exec).Run(context.Background(), g, plan, Options{
		Timeout:    time.Second,
		MaxRetries: 0,
	})
	require.NoError(t, err)

	// typecheck shares lint's wave and must still run to completion.
	assert.Contains(t, report.State.Completed, "typecheck")
	assert.Contains(t, report.State.Failed, "lint")
}

func TestRunExecutorFaultEmitsError(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()
	exec.faults["typecheck"] = errors.New("tool crashed")

	events := &eventLog{}
	report, err := New(exec).Run(context.Background(), g, plan, Options{
		Timeout:    time.Second,
		MaxRetries: 0,
		Listener:   events,
	})
	require.NoError(t, err)

	assert.False(t, report.Success)
	assert.Contains(t, report.State.Failed, "typecheck")
	assert.Contains(t, events.faults, "typecheck")
}

func TestRunTimeoutCountsAsFailedAttempt(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()
	exec.blockCtx = true

	report, err := New(exec).Run(context.Background(), g, plan, Options{
		Timeout:    20 * time.Millisecond,
		MaxRetries: 0,
	})
	require.NoError(t, err)

	assert.False(t, report.Success)
	assert.Len(t, report.State.Failed, 4)
}

func TestRunEventOrdering(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()

	events := &eventLog{}
	_, err := New(exec).Run(context.Background(), g, plan, Options{
		Timeout:  time.Second,
		Listener: events,
	})
	require.NoError(t, err)

	all := events.all()
	require.NotEmpty(t, all)
	assert.Equal(t, "wave-start", all[0])
	assert.Equal(t, "wave-done", all[len(all)-1])

	// Criterion events stay inside their wave's start/done bracket.
	depth := 0
	for _, ev := range all {
		switch ev {
		case "wave-start":
			depth++
			assert.Equal(t, 1, depth, "waves must not overlap")
		case "wave-done":
			depth--
		default:
			assert.Equal(t, 1, depth, "criterion event %q outside wave bracket", ev)
		}
	}
}

func TestRunRecordsAnalytics(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()
	exec.failures["build"] = 10

	recorder := analytics.NewRecorder()
	_, err := New(exec).Run(context.Background(), g, plan, Options{
		Timeout:    time.Second,
		MaxRetries: 0,
		Recorder:   recorder,
	})
	require.NoError(t, err)

	stats := recorder.Stats()
	assert.Equal(t, 4, stats.TotalExecutions)
	assert.Equal(t, 1.0, stats.Criteria["lint"].SuccessRate)
	assert.Equal(t, 0.0, stats.Criteria["build"].SuccessRate)
}

func TestRunForcedEntryExecutesDespiteFailedDependency(t *testing.T) {
	s := criteria.NewEmptyStore()
	strict := func(target string) criteria.Dependency {
		return criteria.Dependency{TargetID: target, Type: criteria.DependencyStrict}
	}
	require.NoError(t, s.Add("a", criteria.Config{Dependencies: []criteria.Dependency{strict("b")}}))
	require.NoError(t, s.Add("b", criteria.Config{Dependencies: []criteria.Dependency{strict("a")}}))

	g := s.Snapshot()
	plan, err := planner.ParallelPlan(g, nil, 2)
	require.NoError(t, err)
	require.True(t, plan.HasForced())

	exec := newScriptedExecutor()
	report, err := New(exec).Run(context.Background(), g, plan, Options{Timeout: time.Second})
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Positive(t, exec.callCount("a"))
	assert.Positive(t, exec.callCount("b"))
}

func TestRunCancelledContext(t *testing.T) {
	g, plan := pipelinePlan(t)
	exec := newScriptedExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(exec).Run(ctx, g, plan, Options{Timeout: time.Second})
	require.Error(t, err)
	assert.False(t, report.Success)
}

func TestRunMissingExecutor(t *testing.T) {
	g, plan := pipelinePlan(t)

	_, err := New(nil).Run(context.Background(), g, plan, Options{})
	require.Error(t, err)
}
