package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/wavegate/internal/errors"
)

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavegate.yaml")
	manifest := `version: "1"
commands:
  build-validated:
    run: ["go", "build", "./..."]
  test-validated:
    run: ["go", "test", "./..."]
    env: ["CGO_ENABLED=0"]
`
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m.Commands, 2)
	assert.Equal(t, []string{"go", "build", "./..."}, m.Commands["build-validated"].Run)
	assert.Equal(t, []string{"CGO_ENABLED=0"}, m.Commands["test-validated"].Env)
}

func TestLoadManifestRejectsEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavegate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands:\n  broken: {}\n"), 0o644))

	_, err := LoadManifest(path)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigParseFailure))
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigReadFailed))
}

func TestExecuteSuccess(t *testing.T) {
	skipOnWindows(t)

	exec := NewCommandExecutor(&Manifest{Commands: map[string]Command{
		"echo-check": {Run: []string{"sh", "-c", "echo ok"}},
	}}, "")

	result, err := exec.Execute(context.Background(), "echo-check")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Output, "ok")
	assert.GreaterOrEqual(t, result.DurationMs, int64(0))
}

func TestExecuteNonZeroExitIsFailureNotError(t *testing.T) {
	skipOnWindows(t)

	exec := NewCommandExecutor(&Manifest{Commands: map[string]Command{
		"failing-check": {Run: []string{"sh", "-c", "echo broken; exit 3"}},
	}}, "")

	result, err := exec.Execute(context.Background(), "failing-check")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Output, "broken")
}

func TestExecuteUnmappedCriterion(t *testing.T) {
	exec := NewCommandExecutor(&Manifest{Commands: map[string]Command{}}, "")

	_, err := exec.Execute(context.Background(), "unknown")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCommandNotMapped))
}

func TestExecuteHonorsWorkingDirectory(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	exec := NewCommandExecutor(&Manifest{Commands: map[string]Command{
		"pwd-check": {Run: []string{"pwd"}},
	}}, dir)

	result, err := exec.Execute(context.Background(), "pwd-check")
	require.NoError(t, err)
	assert.Contains(t, result.Output, filepath.Base(dir))
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}
