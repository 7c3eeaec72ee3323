// Package planner computes execution orders and concurrency-limited
// parallel wave plans over a criteria graph snapshot. All analyses are
// read-only: forced scheduling for cyclic graphs lives entirely in
// planner working state and never touches the graph.
package planner

// DefaultMaxConcurrency is used when a caller passes a non-positive limit
const DefaultMaxConcurrency = 3

// maxRecommendedConcurrency caps adaptive recommendations regardless of
// how large the host is.
const maxRecommendedConcurrency = 16

// Entry is a single scheduled criterion within a wave.
type Entry struct {
	CriterionID string `json:"criterionId"`
	// Forced marks a criterion scheduled despite unmet strict
	// dependencies. Only set when the graph contains a cycle.
	Forced bool `json:"forced,omitempty"`
}

// Wave is a batch of criteria that run concurrently in one step of a plan.
type Wave struct {
	Index               int     `json:"waveIndex"`
	Entries             []Entry `json:"criteria"`
	EstimatedDurationMs int64   `json:"estimatedDurationMs"`
	Concurrency         int     `json:"concurrency"`
}

// Plan is an ordered list of waves plus derived duration metrics.
type Plan struct {
	Waves          []Wave `json:"waves"`
	TotalWaves     int    `json:"totalWaves"`
	TotalCriteria  int    `json:"totalCriteria"`
	MaxConcurrency int    `json:"maxConcurrency"`

	// EstimatedTotalDurationMs is the sum over waves of the longest
	// entry in each wave.
	EstimatedTotalDurationMs int64 `json:"estimatedTotalDurationMs"`
	// SequentialDurationMs is the sum of all entry durations.
	SequentialDurationMs int64 `json:"sequentialDurationMs"`
	// ParallelizationGain is sequential over parallel duration; 1 when
	// parallelism buys nothing, greater when it helps.
	ParallelizationGain float64 `json:"parallelizationGain"`
	// Efficiency is scheduled work over wave capacity
	// (maxConcurrency x waveCount).
	Efficiency float64 `json:"efficiency"`
}

// CriterionIDs returns every scheduled criterion id in wave order
func (p Plan) CriterionIDs() []string {
	var ids []string
	for _, w := range p.Waves {
		for _, e := range w.Entries {
			ids = append(ids, e.CriterionID)
		}
	}
	return ids
}

// HasForced reports whether any entry was force-scheduled
func (p Plan) HasForced() bool {
	for _, w := range p.Waves {
		for _, e := range w.Entries {
			if e.Forced {
				return true
			}
		}
	}
	return false
}
