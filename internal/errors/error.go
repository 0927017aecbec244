package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryConfig   Category = "config"
	CategoryScenario Category = "scenario"
	CategoryCLI      Category = "cli"
)

// DepstateError is a structured error with a code, an explanation and an optional hint.
type DepstateError struct {
	// Code is a unique error identifier (e.g., "E011").
	Code string

	// Category is the error type (runtime, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *DepstateError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *DepstateError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a DepstateError with the same code.
// This lets callers match on a fresh New(code) value.
func (e *DepstateError) Is(target error) bool {
	t, ok := target.(*DepstateError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *DepstateError) WithSuggestion(s string) *DepstateError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *DepstateError) WithDetail(d string) *DepstateError {
	e.Detail = d
	return e
}

// WithDetailf replaces the registered explanation with a formatted one.
func (e *DepstateError) WithDetailf(format string, args ...any) *DepstateError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *DepstateError) Wrap(err error) *DepstateError {
	e.Wrapped = err
	return e
}

// New creates a DepstateError from a registered error code.
func New(code string) *DepstateError {
	template, ok := registry[code]
	if !ok {
		return &DepstateError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &DepstateError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}
