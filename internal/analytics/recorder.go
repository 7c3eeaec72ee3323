// Package analytics accumulates criterion execution outcomes and
// derives aggregate statistics for planning and reporting.
package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the terminal outcome of one criterion execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Record is one appended execution outcome. Records are never mutated
// or removed.
type Record struct {
	ID          string    `json:"id"`
	CriterionID string    `json:"criterionId"`
	Status      Status    `json:"status"`
	DurationMs  int64     `json:"durationMs"`
	Timestamp   time.Time `json:"timestamp"`
}

// CriterionStats aggregates outcomes for a single criterion.
type CriterionStats struct {
	Count             int     `json:"count"`
	Successes         int     `json:"successes"`
	SuccessRate       float64 `json:"successRate"`
	AverageDurationMs float64 `json:"averageDurationMs"`
}

// Stats is the aggregate view over all records.
type Stats struct {
	NoData            bool                      `json:"noData,omitempty"`
	TotalExecutions   int                       `json:"totalExecutions"`
	SuccessRate       float64                   `json:"successRate"`
	AverageDurationMs float64                   `json:"averageDurationMs"`
	Criteria          map[string]CriterionStats `json:"criteriaStats"`
}

// Recorder is an append-only, concurrency-safe execution log held in
// memory for the life of the manager instance.
type Recorder struct {
	mu      sync.RWMutex
	records []Record
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends an execution outcome
func (r *Recorder) Record(criterionID string, status Status, durationMs int64) Record {
	rec := Record{
		ID:          uuid.NewString(),
		CriterionID: criterionID,
		Status:      status,
		DurationMs:  durationMs,
		Timestamp:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()

	return rec
}

// Records returns a copy of all records in append order
func (r *Recorder) Records() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Load seeds the recorder with previously persisted records. Existing
// in-memory records are preserved; loaded records are appended.
func (r *Recorder) Load(records []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
}

// Stats computes aggregate statistics over all recorded executions.
// Returns NoData when nothing has been recorded yet.
func (r *Recorder) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.records) == 0 {
		return Stats{NoData: true, Criteria: map[string]CriterionStats{}}
	}

	stats := Stats{Criteria: make(map[string]CriterionStats)}
	successes := 0
	var totalDuration int64

	for _, rec := range r.records {
		stats.TotalExecutions++
		totalDuration += rec.DurationMs

		cs := stats.Criteria[rec.CriterionID]
		cs.Count++
		if rec.Status == StatusSuccess {
			successes++
			cs.Successes++
		}
		cs.AverageDurationMs += float64(rec.DurationMs)
		stats.Criteria[rec.CriterionID] = cs
	}

	stats.SuccessRate = float64(successes) / float64(stats.TotalExecutions)
	stats.AverageDurationMs = float64(totalDuration) / float64(stats.TotalExecutions)

	for id, cs := range stats.Criteria {
		cs.SuccessRate = float64(cs.Successes) / float64(cs.Count)
		cs.AverageDurationMs /= float64(cs.Count)
		stats.Criteria[id] = cs
	}

	return stats
}
