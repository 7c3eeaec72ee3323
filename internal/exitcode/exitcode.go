package exitcode

import (
	"os"

	"github.com/felixgeelhaar/wavegate/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ExecutionFailed indicates one or more validation criteria failed
	ExecutionFailed = 3

	// GraphInvalid indicates the dependency graph failed validation
	GraphInvalid = 4

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch {
	case errors.IsCode(err, errors.ErrCodeInvalidDependencyType),
		errors.IsCode(err, errors.ErrCodeInvalidResource),
		errors.IsCode(err, errors.ErrCodeCriterionNotFound),
		errors.IsCode(err, errors.ErrCodeUnsupportedFormat):
		return UsageError
	case errors.IsCode(err, errors.ErrCodeGraphInvalid):
		return GraphInvalid
	case errors.IsCode(err, errors.ErrCodeExecutorFailure),
		errors.IsCode(err, errors.ErrCodeExecTimeout):
		return ExecutionFailed
	default:
		return GeneralError
	}
}
