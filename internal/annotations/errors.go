package annotations

import (
	"fmt"
	"strings"
)

// AnnotationError defines the interface for annotation-related errors
type AnnotationError interface {
	error
	Location() SourceLocation
	Suggestion() string
	Code() ErrorCode
}

// ErrorCode represents different types of annotation errors
type ErrorCode int

const (
	SyntaxErrorCode ErrorCode = iota
	ValidationErrorCode
	SchemaErrorCode
	RegistrationErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case SchemaErrorCode:
		return "SchemaError"
	case RegistrationErrorCode:
		return "RegistrationError"
	default:
		return "UnknownError"
	}
}

func formatWithHint(loc SourceLocation, kind, msg, hint string) string {
	var b strings.Builder
	if loc.File != "" {
		b.WriteString(loc.String())
		b.WriteString(": ")
	}
	b.WriteString(kind)
	b.WriteString(": ")
	b.WriteString(msg)
	if hint != "" {
		b.WriteString(". ")
		b.WriteString(hint)
	}
	return b.String()
}

// ValidationError represents an option validation error
type ValidationError struct {
	Parameter string         // Option name that failed validation
	Expected  string         // What was expected
	Actual    string         // What was provided
	Loc       SourceLocation // Where the error occurred
	Hint      string         // Suggested fix
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("option '%s' validation failed: expected %s, got %s", e.Parameter, e.Expected, e.Actual)
	return formatWithHint(e.Loc, "validation error", msg, e.Hint)
}

func (e *ValidationError) Location() SourceLocation { return e.Loc }
func (e *ValidationError) Suggestion() string       { return e.Hint }
func (e *ValidationError) Code() ErrorCode          { return ValidationErrorCode }

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SyntaxError) Error() string {
	return formatWithHint(e.Loc, "syntax error", e.Msg, e.Hint)
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }
func (e *SyntaxError) Code() ErrorCode          { return SyntaxErrorCode }

// SchemaError represents a schema-related error
type SchemaError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SchemaError) Error() string {
	return formatWithHint(e.Loc, "schema error", e.Msg, e.Hint)
}

func (e *SchemaError) Location() SourceLocation { return e.Loc }
func (e *SchemaError) Suggestion() string       { return e.Hint }
func (e *SchemaError) Code() ErrorCode          { return SchemaErrorCode }

// RegistrationError represents an error during annotation type registration
type RegistrationError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred (optional)
	Hint string         // Suggested fix
}

func (e *RegistrationError) Error() string {
	return formatWithHint(e.Loc, "registration error", e.Msg, e.Hint)
}

func (e *RegistrationError) Location() SourceLocation { return e.Loc }
func (e *RegistrationError) Suggestion() string       { return e.Hint }
func (e *RegistrationError) Code() ErrorCode          { return RegistrationErrorCode }

// MultipleAnnotationErrors represents multiple annotation errors collected together
type MultipleAnnotationErrors struct {
	Errors []AnnotationError
}

func (e *MultipleAnnotationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	messages := make([]string, 0, len(e.Errors))
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple annotation errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns the underlying errors for error inspection
func (e *MultipleAnnotationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends an error to the collection
func (e *MultipleAnnotationErrors) Add(err AnnotationError) {
	e.Errors = append(e.Errors, err)
}

// HasErrors reports whether any errors were collected
func (e *MultipleAnnotationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrorOrNil returns nil when nothing was collected
func (e *MultipleAnnotationErrors) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// NewSyntaxError creates a syntax error at the given location
func NewSyntaxError(msg string, loc SourceLocation, hint string) *SyntaxError {
	return &SyntaxError{Msg: msg, Loc: loc, Hint: hint}
}

// NewValidationError creates a validation error for an option
func NewValidationError(param, expected, actual string, loc SourceLocation, hint string) *ValidationError {
	return &ValidationError{Parameter: param, Expected: expected, Actual: actual, Loc: loc, Hint: hint}
}

// NewSchemaError creates a schema error at the given location
func NewSchemaError(msg string, loc SourceLocation, hint string) *SchemaError {
	return &SchemaError{Msg: msg, Loc: loc, Hint: hint}
}
