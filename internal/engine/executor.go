package engine

import "context"

// Result is what the external criterion executor reports back for one
// attempt. Success false is an ordinary validation failure; an error
// returned alongside is an executor-level fault.
type Result struct {
	Success    bool   `json:"success"`
	Output     string `json:"output"`
	DurationMs int64  `json:"durationMs"`
}

// Executor performs the actual validation work for a named criterion.
// Implementations must honor context cancellation; the engine bounds
// every call with the configured per-attempt timeout.
type Executor interface {
	Execute(ctx context.Context, criterionID string) (Result, error)
}

// ExecutorFunc adapts a plain function to the Executor interface
type ExecutorFunc func(ctx context.Context, criterionID string) (Result, error)

// Execute implements Executor
func (f ExecutorFunc) Execute(ctx context.Context, criterionID string) (Result, error) {
	return f(ctx, criterionID)
}
