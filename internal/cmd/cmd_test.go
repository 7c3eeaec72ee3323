package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/wavegate/internal/config"
	"github.com/felixgeelhaar/wavegate/internal/criteria"
	"github.com/felixgeelhaar/wavegate/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCriteriaAddPersistsAndLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	out, err := execute(t,
		"criteria", "add", "custom-check",
		"--depends", "strict:build-validated",
		"--description", "Project-specific validation",
		"--duration-ms", "5000",
		"--config", path, "-o", "json")
	require.NoError(t, err)

	var added criteria.Criterion
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, "custom-check", added.ID)
	require.Len(t, added.Dependencies, 1)
	assert.Equal(t, "build-validated", added.Dependencies[0].TargetID)
	assert.Equal(t, criteria.DependencyStrict, added.Dependencies[0].Type)

	out, err = execute(t, "criteria", "list", "--config", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "custom-check")
	assert.Contains(t, out, "build-validated")
}

func TestValidateReportsDanglingReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	store := criteria.NewStore()
	require.NoError(t, store.Add("broken-check", criteria.Config{
		Dependencies: []criteria.Dependency{{TargetID: "no-such-criterion", Type: criteria.DependencyStrict}},
	}))
	_, err := config.Save(store, path)
	require.NoError(t, err)

	out, err := execute(t, "validate", "--config", path, "-o", "text")
	assert.True(t, errors.IsCode(err, errors.ErrCodeGraphInvalid))
	assert.Contains(t, out, "dangling_reference")
}

func TestValidateHealthySeedGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	out, err := execute(t, "validate", "--config", path, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
}

func TestOrderCoversSeedCriteria(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	out, err := execute(t, "order", "--config", path, "-o", "json")
	require.NoError(t, err)

	var payload struct {
		Order []string `json:"order"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Len(t, payload.Order, len(criteria.StandardIDs()))
	assert.Less(t, indexOf(payload.Order, "build-validated"), indexOf(payload.Order, "test-validated"))
}

func TestPlanTextOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	out, err := execute(t, "plan", "--config", path, "-o", "text", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Wave 1")
	assert.Contains(t, out, "gain over sequential")
}

func TestPlanAdaptiveLatencyOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	out, err := execute(t,
		"plan", "adaptive",
		"--cpus", "2",
		"--network-latency-ms", "300",
		"--config", path, "-o", "json")
	require.NoError(t, err)

	var plan struct {
		RecommendedConcurrency int `json:"recommendedConcurrency"`
		Dimensions             struct {
			NetworkOptimized int `json:"networkOptimized"`
		} `json:"dimensions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, 1, plan.Dimensions.NetworkOptimized)
	assert.Equal(t, 1, plan.RecommendedConcurrency)
}

func TestVisualizeMermaid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	out, err := execute(t, "visualize", "--config", path, "-f", "mermaid", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
}

func TestVisualizeUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	_, err := execute(t, "visualize", "--config", path, "-f", "svg")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedFormat))
}

func TestConfigSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")

	out, err := execute(t, "config", "save", "--config", path, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "config", "load", "--config", path, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded")
}

func indexOf(list []string, want string) int {
	for i, s := range list {
		if s == want {
			return i
		}
	}
	return -1
}
