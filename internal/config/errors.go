package config

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed configuration file.
type ParseError struct {
	// Line and Column locate the problem when known (1-indexed, 0
	// when unknown).
	Line   int
	Column int

	// Message describes the problem.
	Message string

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return "parse error: " + e.Message
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Path is the dot-separated path to the invalid value.
	Path string

	// Message describes what's wrong.
	Message string

	// Value is the invalid value (may be nil).
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add adds a validation error.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message})
}

// AddWithValue adds a validation error carrying the invalid value.
func (e *ValidationErrors) AddWithValue(path, message string, value any) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message, Value: value})
}

// ErrOrNil returns the collection as an error, or nil when empty.
func (e *ValidationErrors) ErrOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
