// Package errors provides structured error handling for tablebridge.
//
// Every failure surfaced by the conversion engine, the dictionary adapter and the
// columnar view carries an ErrorType so callers can tell validation problems
// apart from cancellation or task failures:
//
//	tbl, err := conv.ToTable(ctx, set, exec)
//	switch {
//	case errors.IsType(err, errors.ErrorTypeExecutionStopped):
//	    // the execution context was stopped, nothing was produced
//	case errors.IsType(err, errors.ErrorTypeExecutionFailed):
//	    // a column task failed; retrying sequentially is the caller's call
//	}
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInvalidArgument represents absent required inputs or malformed construction input
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeOutOfRange represents an index outside its valid range
	ErrorTypeOutOfRange ErrorType = "out_of_range"
	// ErrorTypeTypeMismatch represents a query unsupported by the receiver's shape
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeUnsupportedOperation represents a mutation of a read-only structure
	ErrorTypeUnsupportedOperation ErrorType = "unsupported_operation"
	// ErrorTypeExecutionStopped represents cooperative cancellation
	ErrorTypeExecutionStopped ErrorType = "execution_stopped"
	// ErrorTypeExecutionFailed represents a failed task inside a batch
	ErrorTypeExecutionFailed ErrorType = "execution_failed"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeData represents malformed serialized data
	ErrorTypeData ErrorType = "data"
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the outermost structured error in the chain has the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the type of the outermost structured error, or "" for foreign errors
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Type
}

// IsStopped reports whether the chain contains an execution_stopped error at any depth
func IsStopped(err error) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == ErrorTypeExecutionStopped {
			return true
		}
		err = e.Cause
	}
	return false
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
