package sdk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNilTaxonomy indicates the engine was constructed without a loaded
	// taxonomy store.
	ErrNilTaxonomy = errors.New("taxonomy store is nil")

	// ErrNilIndex indicates the engine was constructed without a built
	// retrieval index.
	ErrNilIndex = errors.New("retrieval index is nil")

	// ErrAlertFiltered indicates the admission filter rejected the alert
	// before correlation. This is an expected outcome, not a failure.
	ErrAlertFiltered = errors.New("alert rejected by admission filter")

	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration or
	// construction of the engine's long-lived resources.
	KindConfiguration = "configuration"

	// KindExecution represents errors that occur while serving a request.
	KindExecution = "execution"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// EngineError is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of
// error.
//
// EngineError implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type EngineError struct {
	// Op is the operation that failed (e.g., "Engine.Correlate").
	Op string

	// Kind categorizes the error (e.g., KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *EngineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sdk: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("sdk: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error matching for EngineError, allowing comparison based on
// the underlying error or on a target EngineError's Kind and Op.
func (e *EngineError) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*EngineError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}
	return errors.Is(e.Err, target)
}

// NewValidationError creates a new EngineError with KindValidation.
func NewValidationError(op string, err error) *EngineError {
	return &EngineError{Op: op, Kind: KindValidation, Err: err}
}

// NewConfigurationError creates a new EngineError with KindConfiguration.
func NewConfigurationError(op string, err error) *EngineError {
	return &EngineError{Op: op, Kind: KindConfiguration, Err: err}
}

// NewExecutionError creates a new EngineError with KindExecution.
func NewExecutionError(op string, err error) *EngineError {
	return &EngineError{Op: op, Kind: KindExecution, Err: err}
}

// NewInternalError creates a new EngineError with KindInternal.
func NewInternalError(op string, err error) *EngineError {
	return &EngineError{Op: op, Kind: KindInternal, Err: err}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "cache", "watcher"). If logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
