package entity

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the use cases wraps exactly one of them,
// so callers can map an error to an outcome with errors.Is.
var (
	// ErrValidation is the kind of errors caused by malformed input.
	ErrValidation = errors.New("validation error")
	// ErrConflict is the kind of errors caused by a code collision or a concurrent modification.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is the kind of errors returned when a code has no record.
	ErrNotFound = errors.New("not found")
	// ErrExpired is the kind of errors returned when a record exists but is past its expiry.
	ErrExpired = errors.New("expired")
	// ErrInfrastructure is the kind of errors caused by an unavailable or failing durable store.
	ErrInfrastructure = errors.New("infrastructure error")
)

// Error is a domain error carrying its kind and a human-readable detail.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

// NewError returns an Error of the given kind. err is the underlying cause and may be nil.
func NewError(kind error, detail string, err error) *Error {
	return &Error{
		Kind:   kind,
		Detail: detail,
		Err:    err,
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// DetailOf returns the detail of the outermost Error in err's chain,
// or an empty string if there is none.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}
