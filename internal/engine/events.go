package engine

import (
	"github.com/felixgeelhaar/wavegate/internal/planner"
)

// Outcome is the final result of one criterion within a run, after all
// retry attempts.
type Outcome struct {
	CriterionID string `json:"criterionId"`
	Success     bool   `json:"success"`
	// Skipped means the criterion never ran because a strict
	// dependency failed earlier in the run.
	Skipped    bool   `json:"skipped,omitempty"`
	Attempts   int    `json:"attempts"`
	DurationMs int64  `json:"durationMs"`
	Output     string `json:"output,omitempty"`
	Err        error  `json:"-"`
}

// Listener observes execution lifecycle events. The engine serializes
// all calls, so implementations need no internal locking. Ordering per
// wave is fixed: WaveStarted, then CriterionStarted/CriterionCompleted
// pairs, then WaveCompleted. Error fires for executor-level faults,
// before the corresponding CriterionCompleted.
type Listener interface {
	WaveStarted(wave planner.Wave)
	CriterionStarted(criterionID string)
	CriterionCompleted(outcome Outcome)
	WaveCompleted(wave planner.Wave, failed []string)
	Error(criterionID string, err error)
}

// NopListener is an embeddable Listener that ignores every event
type NopListener struct{}

func (NopListener) WaveStarted(planner.Wave)             {}
func (NopListener) CriterionStarted(string)              {}
func (NopListener) CriterionCompleted(Outcome)           {}
func (NopListener) WaveCompleted(planner.Wave, []string) {}
func (NopListener) Error(string, error)                  {}
