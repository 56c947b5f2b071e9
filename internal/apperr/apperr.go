package apperr

import (
	"errors"
	"net/http"
	"time"
)

// Error is the domain error carried from services up to the HTTP boundary.
// Code is a stable machine-readable identifier, Status the HTTP status the
// boundary handler should map it to.
type Error struct {
	Code    string
	Message string
	Status  int
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "INVALID_CREDENTIALS", message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "FORBIDDEN", message)
}

// Validation carries the per-field error list produced by the validation layer.
func Validation(details any) *Error {
	return &Error{
		Code:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

// Locked signals a temporarily locked account; Details exposes the unlock time.
func Locked(until time.Time) *Error {
	return &Error{
		Code:    "ACCOUNT_LOCKED",
		Message: "Account is temporarily locked due to too many failed login attempts",
		Status:  http.StatusLocked,
		Details: map[string]any{"lockUntil": until},
	}
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func Database() *Error {
	return New(http.StatusServiceUnavailable, "DATABASE_ERROR", "Database connection error")
}

// From extracts an *Error from err, or nil when err is not a domain error.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
