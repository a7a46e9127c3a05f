// Package apperr defines the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error carries a kind used for HTTP mapping and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values by kind and message so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a sentinel without mutating it.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

var (
	ErrForbidden         = New(KindForbidden, "forbidden")
	ErrNotFound          = New(KindNotFound, "not found")
	ErrEmptyCart         = New(KindValidation, "cart is empty")
	ErrInvalidAmount     = New(KindValidation, "order amount must be at least 1")
	ErrInsufficientStock = New(KindConflict, "insufficient stock")
	ErrItemNotFound      = New(KindNotFound, "order item not found")
	ErrOverRefund        = New(KindValidation, "cannot refund more items than purchased")
	ErrSignatureMismatch = New(KindValidation, "signature mismatch")
)

// Status maps an error to its HTTP status. Unclassified errors are 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text. Internal errors never leak their cause.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "internal server error"
	}
	return e.Message
}
