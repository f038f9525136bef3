package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryBuilder   Category = "builder"
	CategoryMount     Category = "mount"
	CategoryLifecycle Category = "lifecycle"
	CategoryReconcile Category = "reconcile"
	CategoryConfig    Category = "config"
	CategoryLive      Category = "live"
	CategorySnapshot  Category = "snapshot"
	CategoryCLI       Category = "cli"
)

// Error is a structured error with a registered code and optional context.
type Error struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (builder, mount, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Component is the component type involved, if any.
	Component string

	// Tag is the element tag or attribute involved, if any.
	Tag string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Component != "" {
		msg += " (component " + e.Component + ")"
	}
	if e.Tag != "" {
		msg += " (" + e.Tag + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
// Errors without a code never match by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithComponent records the component type involved.
func (e *Error) WithComponent(name string) *Error {
	e.Component = name
	return e
}

// WithTag records the element tag or attribute involved.
func (e *Error) WithTag(tag string) *Error {
	e.Tag = tag
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
// Each call returns a fresh value, so the With* helpers never mutate a
// shared sentinel.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*Error); ok {
		return re
	}
	return New(code).Wrap(err)
}
