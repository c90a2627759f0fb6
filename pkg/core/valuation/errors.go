package valuation

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification. They match any *Error of the
// same kind through errors.Is.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDivisionByZero = errors.New("division by zero")
	ErrSerialization  = errors.New("serialization error")
)

// ErrorKind is a coarse-grained categorization for domain errors.
type ErrorKind string

const (
	KindInvalidInput   ErrorKind = "invalid_input"
	KindDivisionByZero ErrorKind = "division_by_zero"
	KindSerialization  ErrorKind = "serialization_error"
)

// Error wraps an underlying error with operation context, a kind and the
// offending field when there is one.
type Error struct {
	Op    string
	Kind  ErrorKind
	Field string // Optional: parameter or metric key
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrDivisionByZero) and friends work on any *Error.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrDivisionByZero:
		return e.Kind == KindDivisionByZero
	case ErrSerialization:
		return e.Kind == KindSerialization
	}
	return false
}

// IsKind helps callers classify errors without a type assertion.
func IsKind(err error, kind ErrorKind) bool {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in the chain, or "".
func KindOf(err error) ErrorKind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

func invalidInput(op, field, format string, args ...any) error {
	return &Error{Op: op, Kind: KindInvalidInput, Field: field, Err: fmt.Errorf(format, args...)}
}

// SerializationError builds a serialization-kind error for export code.
func SerializationError(op, field string, err error) error {
	return &Error{Op: op, Kind: KindSerialization, Field: field, Err: err}
}
