// Package errors provides structured error types for the Gander engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, server, and dispatch layers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - Task failure codes (TIMEOUT, WORKER_FAILURE, CANCELLED,
//     PRECONDITION_FAILED) classify how an asynchronous computation ended
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid node id: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeWorkerFailure, origErr, "task %s failed", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeInvalidOptions   Code = "INVALID_OPTIONS"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeEdgeNotFound Code = "EDGE_NOT_FOUND"
	ErrCodeTaskNotFound Code = "TASK_NOT_FOUND"

	// Task failure classification
	ErrCodePrecondition  Code = "PRECONDITION_FAILED"
	ErrCodeTimeout       Code = "TIMEOUT"
	ErrCodeWorkerFailure Code = "WORKER_FAILURE"
	ErrCodeCancelled     Code = "CANCELLED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnavailable Code = "UNAVAILABLE"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is satisfied by auxiliary error types that carry their own
// code, like [PreconditionError] and [WorkerError].
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for a coded error that matches.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if nothing in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// PreconditionError reports a computation that cannot run because a
// required upstream result is missing. Requires names the computation
// that has to run first.
type PreconditionError struct {
	Requires string // Name of the missing upstream computation
	Message  string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("requires %s: %s", e.Requires, e.Message)
	}
	return fmt.Sprintf("requires %s", e.Requires)
}

// Code returns the error code for this error type.
func (e *PreconditionError) Code() Code {
	return ErrCodePrecondition
}

// WorkerError carries the failure captured inside an isolated worker,
// including the recovered panic message when the worker crashed.
type WorkerError struct {
	TaskID string // Identifier of the failed task
	Reason string // Original failure or panic message
	Stack  string // Stack trace at the point of failure (optional)
}

// Error implements the error interface.
func (e *WorkerError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("worker failed running task %s: %s", e.TaskID, e.Reason)
	}
	return fmt.Sprintf("worker failed: %s", e.Reason)
}

// Code returns the error code for this error type.
func (e *WorkerError) Code() Code {
	return ErrCodeWorkerFailure
}
