package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Graph store errors (GRAPH-001 to GRAPH-099)
	ErrCodeCriterionNotFound     ErrorCode = "GRAPH-001"
	ErrCodeInvalidDependencyType ErrorCode = "GRAPH-002"
	ErrCodeSelfDependency        ErrorCode = "GRAPH-003"
	ErrCodeEmptyCriterionID      ErrorCode = "GRAPH-004"
	ErrCodeGraphInvalid          ErrorCode = "GRAPH-005"
	ErrCodeInvalidResource       ErrorCode = "GRAPH-006"

	// Planning errors (PLAN-001 to PLAN-099)
	ErrCodePlanEmptySelection ErrorCode = "PLAN-001"
	ErrCodePlanUnknownID      ErrorCode = "PLAN-002"

	// Visualization errors (VIS-001 to VIS-099)
	ErrCodeUnsupportedFormat ErrorCode = "VIS-001"

	// Config persistence errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigParseFailure ErrorCode = "CONFIG-001"
	ErrCodeConfigWriteFailed  ErrorCode = "CONFIG-002"
	ErrCodeConfigReadFailed   ErrorCode = "CONFIG-003"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeExecutorFailure  ErrorCode = "EXEC-001"
	ErrCodeExecTimeout      ErrorCode = "EXEC-002"
	ErrCodeExecutorMissing  ErrorCode = "EXEC-003"
	ErrCodeCommandNotMapped ErrorCode = "EXEC-004"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
)

// WavegateError represents an enhanced error with code, suggestions, and documentation
type WavegateError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *WavegateError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *WavegateError) Unwrap() error {
	return e.Cause
}

// New creates a new WavegateError
func New(code ErrorCode, message string) *WavegateError {
	return &WavegateError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new WavegateError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *WavegateError {
	return &WavegateError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *WavegateError) WithSuggestion(suggestion string) *WavegateError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *WavegateError) WithSuggestions(suggestions ...string) *WavegateError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *WavegateError) WithDocs(url string) *WavegateError {
	e.DocsURL = url
	return e
}

// IsCode reports whether err is a WavegateError with the given code
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	werr, ok := err.(*WavegateError)
	if !ok {
		return false
	}
	return werr.Code == code
}
