package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation                 = errors.New("validation error")
	ErrNotFound                   = errors.New("error not found")
	ErrInsufficientHoldings       = errors.New("insufficient holdings")
	ErrDerivedRecordInconsistency = errors.New("derived record inconsistency")
	ErrPersistence                = errors.New("persistence error")
	ErrComputation                = errors.New("computation error")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// OrNil returns nil when no field was rejected.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
