package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("employee not found")
	ErrEmptyUpdate     = errors.New("no fields to update")
	ErrUniqueViolation = errors.New("unique constraint violation")
	ErrDuplicateEmail  = errors.New("an employee with this email already exists")
	ErrInvalidPage     = errors.New("limit and offset must not be negative")
)

// UniqueViolationError reports which column a rejected write collided on.
// Column is empty when the driver did not say.
type UniqueViolationError struct {
	Column string
	Err    error
}

func (e *UniqueViolationError) Error() string {
	if e.Column == "" {
		return ErrUniqueViolation.Error()
	}
	return ErrUniqueViolation.Error() + " on " + e.Column
}

func (e *UniqueViolationError) Unwrap() []error { return []error{ErrUniqueViolation, e.Err} }

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
