package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving its code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps an error under a specific code
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the innermost-assigned code in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any error in the chain carries the given code
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Failure taxonomy of the power study core. None of these are retried: a
// failing trial aborts its sampling call, which aborts the enclosing
// calibration or estimation, which aborts the run.
const (
	CodeGenerationFailure = "GENERATION_FAILURE"
	CodeMeasureFailure    = "MEASURE_FAILURE"
	CodeDimensionMismatch = "DIMENSION_MISMATCH"
	CodeSinkWriteFailure  = "SINK_WRITE_FAILURE"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeInternalError     = "INTERNAL_ERROR"
)

// GenerationFailure marks a generator that cannot produce a matrix
func GenerationFailure(message string) *AppError {
	return New(CodeGenerationFailure, message)
}

// MeasureFailure marks a contrast measure that raised on its input
func MeasureFailure(message string) *AppError {
	return New(CodeMeasureFailure, message)
}

// DimensionMismatch marks a dilution composition invariant violation
func DimensionMismatch(message string) *AppError {
	return New(CodeDimensionMismatch, message)
}

// SinkWriteFailure marks an unavailable output channel
func SinkWriteFailure(message string) *AppError {
	return New(CodeSinkWriteFailure, message)
}

// ConfigInvalid marks a rejected configuration
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
