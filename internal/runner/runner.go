package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/felixgeelhaar/wavegate/internal/engine"
	"github.com/felixgeelhaar/wavegate/internal/errors"
)

// CommandExecutor runs manifest commands as OS processes. It implements
// engine.Executor so plans can drive real validation tooling.
type CommandExecutor struct {
	manifest *Manifest
	dir      string
}

// NewCommandExecutor builds an executor over the given manifest. dir is
// the default working directory for commands that do not set their own.
func NewCommandExecutor(manifest *Manifest, dir string) *CommandExecutor {
	return &CommandExecutor{manifest: manifest, dir: dir}
}

// Execute looks up the criterion's command and runs it, honoring the
// context deadline. A non-zero exit is reported as an unsuccessful
// result rather than an error so the engine can retry it.
func (e *CommandExecutor) Execute(ctx context.Context, criterionID string) (engine.Result, error) {
	spec, ok := e.manifest.Commands[criterionID]
	if !ok {
		return engine.Result{}, errors.New(errors.ErrCodeCommandNotMapped,
			"no command mapped for criterion "+criterionID).
			WithSuggestion("Add a commands entry for it in " + DefaultManifestPath)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, spec.Run[0], spec.Run[1:]...)
	cmd.Dir = spec.Dir
	if cmd.Dir == "" {
		cmd.Dir = e.dir
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	result := engine.Result{
		Success:    err == nil,
		Output:     output.String(),
		DurationMs: time.Since(start).Milliseconds(),
	}

	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			// Command ran and failed; that is a validation failure,
			// not an executor fault.
			return result, nil
		}
		return result, errors.Wrap(errors.ErrCodeExecutorFailure,
			"failed to run command for "+criterionID, err)
	}
	return result, nil
}
