// Package errs holds the error taxonomy shared by services and the REST layer.
package errs

import (
	"errors"
)

var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Error pairs a taxonomy sentinel with a stable, user-visible message and the
// underlying cause, if any. errors.Is matches the sentinel; errors.Unwrap
// yields the cause.
type Error struct {
	Sentinel error
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return e.Sentinel == target }
func (e *Error) Unwrap() error        { return e.Cause }

func Validation(msg string) error { return &Error{Sentinel: ErrValidation, Message: msg} }
func Auth(msg string) error       { return &Error{Sentinel: ErrAuth, Message: msg} }
func NotFound(msg string) error   { return &Error{Sentinel: ErrNotFound, Message: msg} }
func Conflict(msg string) error   { return &Error{Sentinel: ErrConflict, Message: msg} }

func Internal(msg string, cause error) error {
	return &Error{Sentinel: ErrInternal, Message: msg, Cause: cause}
}

// Message returns the stable message of a taxonomy error, or fallback for
// anything else so driver details never reach a client.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
