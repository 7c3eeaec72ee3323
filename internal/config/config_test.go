package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/wavegate/internal/analytics"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	store := criteria.NewStore()
	require.NoError(t, store.Add("custom-check", criteria.Config{
		Dependencies: []criteria.Dependency{
			{TargetID: "build-validated", Type: criteria.DependencyStrict},
			{TargetID: "security-validated", Type: criteria.DependencyWeak},
		},
		Metadata: criteria.Metadata{
			Description:         "Project-specific validation",
			EstimatedDurationMs: 45_000,
			Parallelizable:      true,
			Resources:           []criteria.Resource{criteria.ResourceCPU},
		},
	}))

	written, err := Save(store, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	file, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, Version, file.Version)

	fresh := criteria.NewEmptyStore()
	require.NoError(t, Apply(fresh, file, ModeReplace))

	wantIDs := idsOf(store)
	gotIDs := idsOf(fresh)
	sort.Strings(wantIDs)
	sort.Strings(gotIDs)
	assert.Equal(t, wantIDs, gotIDs)

	for _, c := range store.List() {
		loaded, err := fresh.Get(c.ID)
		require.NoError(t, err, "criterion %q missing after round trip", c.ID)
		assert.Equal(t, c.Dependencies, loaded.Dependencies, "edges changed for %q", c.ID)
		assert.Equal(t, c.Metadata, loaded.Metadata, "metadata changed for %q", c.ID)
	}
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	file, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestLoadCorruptFileReturnsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	file, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestLoadRejectsTamperedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	store := criteria.NewStore()
	_, err := Save(store, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `"estimatedDurationMs": 30000`, `"estimatedDurationMs": 1`, 1)
	require.NotEqual(t, string(data), tampered)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o644))

	file, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestApplyMergePreservesExisting(t *testing.T) {
	store := criteria.NewEmptyStore()
	require.NoError(t, store.Add("kept", criteria.Config{}))
	require.NoError(t, store.Add("overwritten", criteria.Config{
		Metadata: criteria.Metadata{EstimatedDurationMs: 1},
	}))

	file := &File{
		Version: Version,
		Dependencies: map[string]Entry{
			"overwritten": {Metadata: criteria.Metadata{EstimatedDurationMs: 2}},
			"added":       {},
		},
	}
	require.NoError(t, Apply(store, file, ModeMerge))

	ids := idsOf(store)
	sort.Strings(ids)
	assert.Equal(t, []string{"added", "kept", "overwritten"}, ids)

	c, err := store.Get("overwritten")
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Metadata.EstimatedDurationMs)
}

func TestApplyReplaceDropsUnlisted(t *testing.T) {
	store := criteria.NewEmptyStore()
	require.NoError(t, store.Add("dropped", criteria.Config{}))

	file := &File{
		Version:      Version,
		Dependencies: map[string]Entry{"only": {}},
	}
	require.NoError(t, Apply(store, file, ModeReplace))

	assert.Equal(t, []string{"only"}, idsOf(store))
}

func TestApplyRejectsInvalidDependencyType(t *testing.T) {
	store := criteria.NewEmptyStore()
	file := &File{
		Version: Version,
		Dependencies: map[string]Entry{
			"bad": {Dependencies: []criteria.Dependency{
				{TargetID: "x", Type: criteria.DependencyType("mandatory")},
			}},
		},
	}
	assert.Error(t, Apply(store, file, ModeReplace))
}

func TestAnalyticsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")

	recorder := analytics.NewRecorder()
	recorder.Record("build-validated", analytics.StatusSuccess, 1234)
	recorder.Record("test-validated", analytics.StatusFailure, 5678)

	_, err := SaveAnalytics(recorder, path)
	require.NoError(t, err)

	records, err := LoadAnalytics(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "build-validated", records[0].CriterionID)
	assert.Equal(t, analytics.StatusFailure, records[1].Status)
	assert.Equal(t, time.UTC, records[0].Timestamp.Location())
}

func idsOf(store *criteria.Store) []string {
	list := store.List()
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	return ids
}
