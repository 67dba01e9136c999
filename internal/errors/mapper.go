// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// StatusClientClosedRequest is the non-standard status used when the caller
// went away before we finished.
const StatusClientClosedRequest = 499

// Error is a service error carrying the HTTP status it maps to.
// Message is safe to show to clients; Err is kept for logs only.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, msg string) error {
	return &Error{Status: status, Message: msg}
}

// Map converts repo/infra errors into service errors.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var se *Error
	switch {
	case errors.As(err, &se):
		return se

	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Status: http.StatusNotFound, Message: "record not found", Err: err}

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: http.StatusGatewayTimeout, Message: "request timed out", Err: err}

	case errors.Is(err, context.Canceled):
		return &Error{Status: StatusClientClosedRequest, Message: "request was canceled", Err: err}

	default:
		// never leak store details to the client
		return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
	}
}

// StatusOf returns the HTTP status err maps to.
func StatusOf(err error) int {
	var se *Error
	if errors.As(Map(err), &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}

// InvalidArgument is returned for malformed or missing input.
func InvalidArgument(msg string) error {
	return newError(http.StatusBadRequest, msg)
}

// Unauthenticated is returned when the session is missing or invalid.
func Unauthenticated(msg string) error {
	return newError(http.StatusUnauthorized, msg)
}

// PermissionDenied is returned when the caller is not a party to the resource.
func PermissionDenied(msg string) error {
	return newError(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return newError(http.StatusNotFound, msg)
}

func AlreadyExists(msg string) error {
	return newError(http.StatusConflict, msg)
}

func TooManyRequests(msg string) error {
	return newError(http.StatusTooManyRequests, msg)
}
