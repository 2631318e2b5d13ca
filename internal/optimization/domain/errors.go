package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSessionNotFound     = errors.New("dashboard session not found")
	ErrUnknownModule       = errors.New("unknown module")
	ErrSelfLoop            = errors.New("self-loop edges are not allowed")
	ErrDuplicateEdge       = errors.New("edge already exists")
	ErrEmptyNode           = errors.New("node identifier is empty")
	ErrInvalidNumber       = errors.New("value is not a number")
	ErrEdgeIndexOutOfRange = errors.New("edge index out of range")
	ErrSolveInProgress     = errors.New("solve already in progress")
	ErrStaleResult         = errors.New("solver result no longer matches the current input")
	ErrMissingObjective    = errors.New("solver response has no objective value")
)

// FieldError is a single rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports bad user input. It is never sent to the solver.
type ValidationError struct {
	Fields []FieldError
	cause  error
}

// NewValidationError builds a ValidationError for one field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// WrapValidation builds a ValidationError for one field that matches cause with errors.Is
func WrapValidation(field string, cause error) *ValidationError {
	return &ValidationError{
		Fields: []FieldError{{Field: field, Message: cause.Error()}},
		cause:  cause,
	}
}

// Add appends a field error
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field was rejected
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// TransportError wraps a failure to reach the solver or read its reply
type TransportError struct {
	Module ModuleID
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s solver unavailable: %v", e.Module, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SolverStatusError is returned when the solver answered but reported a failure status
type SolverStatusError struct {
	Module  ModuleID
	Status  Status
	Message string
}

func (e *SolverStatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error: %s", e.Status)
}
