package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrInvalid        = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrConflict       = errors.New("conflict")
	ErrPartialFailure = errors.New("partial failure")
)

// FlowError is a user-facing message plus the kind and the original cause.
type FlowError struct {
	Kind    error
	Message string
	Err     error
}

func (e *FlowError) Error() string { return e.Message }

func (e *FlowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newFlowError(kind error, cause error, format string, args ...any) *FlowError {
	return &FlowError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// asFlowFailure keeps a FlowError raised inside a flow step and turns
// anything else into a PartialFailure with a generic message.
func asFlowFailure(err error, message string) error {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe
	}
	return &FlowError{Kind: ErrPartialFailure, Message: message, Err: err}
}
