// Package apperror defines the error taxonomy shared by services, middleware and handlers.
//
// Services return *Error values; the HTTP layer maps Kind to a status code and a stable
// machine-readable code exactly once, at the response boundary.
package apperror

import (
	"errors"
	"net/http"
)

// Kind is a stable, machine-readable error code sent to clients.
type Kind string

const (
	KindInvalidInput    Kind = "INVALID_INPUT"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindInvalidToken    Kind = "INVALID_TOKEN"
	KindTokenExpired    Kind = "TOKEN_EXPIRED"
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidState    Kind = "INVALID_STATE"
	KindTooLarge        Kind = "PAYLOAD_TOO_LARGE"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindInternal        Kind = "INTERNAL"
)

var statusByKind = map[Kind]int{
	KindInvalidInput:    http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindInvalidToken:    http.StatusForbidden,
	KindTokenExpired:    http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindInvalidState:    http.StatusNotFound,
	KindTooLarge:        http.StatusRequestEntityTooLarge,
	KindRateLimited:     http.StatusTooManyRequests,
	KindInternal:        http.StatusInternalServerError,
}

// Status returns the HTTP status code for the kind; unknown kinds are 500.
func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a tagged application error.
//
// Message is safe to show to clients. Details carries optional structured data
// (e.g. per-field validation messages). Cause is the underlying error and is only
// surfaced to clients outside production.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error of the same Kind, so callers can write
// errors.Is(err, apperror.NotFound("")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Status is a shortcut for e.Kind.Status().
func (e *Error) Status() int { return e.Kind.Status() }

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func InvalidInput(message string, details any) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Details: details}
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func InvalidState(message string) *Error    { return New(KindInvalidState, message) }

// Internal wraps an unexpected failure; message is what clients see.
func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, message, cause)
}

// From converts any error into an *Error. Untagged errors become KindInternal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("internal server error", err)
}

// KindOf reports the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}
