package analytics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsNoData(t *testing.T) {
	r := NewRecorder()

	stats := r.Stats()

	assert.True(t, stats.NoData)
	assert.Zero(t, stats.TotalExecutions)
}

func TestRecordAndStats(t *testing.T) {
	r := NewRecorder()
	r.Record("x", StatusSuccess, 1000)
	r.Record("x", StatusSuccess, 1000)
	r.Record("x", StatusSuccess, 1000)

	stats := r.Stats()

	assert.False(t, stats.NoData)
	assert.Equal(t, 3, stats.TotalExecutions)
	assert.Equal(t, 1.0, stats.SuccessRate)
	require.Contains(t, stats.Criteria, "x")
	assert.Equal(t, 3, stats.Criteria["x"].Count)
	assert.Equal(t, 1.0, stats.Criteria["x"].SuccessRate)
	assert.Equal(t, 1000.0, stats.Criteria["x"].AverageDurationMs)
}

func TestStatsMixedOutcomes(t *testing.T) {
	r := NewRecorder()
	r.Record("lint", StatusSuccess, 500)
	r.Record("lint", StatusFailure, 1500)
	r.Record("build", StatusFailure, 4000)

	stats := r.Stats()

	assert.Equal(t, 3, stats.TotalExecutions)
	assert.InDelta(t, 1.0/3.0, stats.SuccessRate, 1e-9)
	assert.InDelta(t, 2000.0, stats.AverageDurationMs, 1e-9)
	assert.InDelta(t, 0.5, stats.Criteria["lint"].SuccessRate, 1e-9)
	assert.Equal(t, 0.0, stats.Criteria["build"].SuccessRate)
}

func TestRecordsAreAppendOnlyCopies(t *testing.T) {
	r := NewRecorder()
	first := r.Record("x", StatusSuccess, 10)

	records := r.Records()
	require.Len(t, records, 1)
	assert.NotEmpty(t, first.ID)

	records[0].CriterionID = "mutated"
	assert.Equal(t, "x", r.Records()[0].CriterionID)
}

func TestLoadAppends(t *testing.T) {
	r := NewRecorder()
	r.Record("live", StatusSuccess, 10)
	r.Load([]Record{{ID: "persisted", CriterionID: "old", Status: StatusFailure, DurationMs: 20}})

	records := r.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "live", records[0].CriterionID)
	assert.Equal(t, "old", records[1].CriterionID)
}

func TestConcurrentRecording(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("x", StatusSuccess, 100)
			_ = r.Stats()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Stats().TotalExecutions)
}
