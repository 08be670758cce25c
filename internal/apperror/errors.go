// Package apperror defines the typed domain errors the services return.
// Each error carries an HTTP status code, a machine-readable kind, and a
// message safe to show to clients. Storage and infrastructure errors must
// never reach a client raw; wrap them with Internal instead.
package apperror

import (
	"fmt"
	"net/http"
)

// Error is the base type for all domain errors.
type Error struct {
	// Code is the HTTP status code the transport layer should use.
	Code int `json:"-"`

	// Kind is a machine-readable classifier (e.g. "not_found").
	Kind string `json:"error"`

	// Message is safe to serialize to the client.
	Message string `json:"message"`

	// Internal holds the underlying cause for server-side logging only.
	Internal error `json:"-"`
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Internal }

// Unauthenticated means no usable credential was presented, or the
// credential's subject no longer exists. Maps to 401.
func Unauthenticated(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Kind: "unauthenticated", Message: message}
}

// InvalidToken means a presented token failed verification. The message is
// deliberately uniform regardless of whether the signature, expiry, or
// payload shape was at fault. Maps to 403.
func InvalidToken() *Error {
	return &Error{Code: http.StatusForbidden, Kind: "invalid_token", Message: "invalid token"}
}

// InvalidCredentials covers both unknown email and wrong password on login,
// so the response does not reveal which accounts exist. Maps to 401.
func InvalidCredentials() *Error {
	return &Error{Code: http.StatusUnauthorized, Kind: "invalid_credentials", Message: "invalid credentials"}
}

// DuplicateAccount means the registration email is already taken. Maps to 409.
func DuplicateAccount() *Error {
	return &Error{Code: http.StatusConflict, Kind: "duplicate_account", Message: "email already registered"}
}

// NotFound covers both a missing row and a row owned by someone else, so
// the response does not reveal other users' data. Maps to 404.
func NotFound(message string) *Error {
	return &Error{Code: http.StatusNotFound, Kind: "not_found", Message: message}
}

// Validation reports a request body that failed shape checks. Maps to 400.
func Validation(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Kind: "validation_failed", Message: message}
}

// Internal wraps an unexpected error. The cause is kept for logging; the
// client only ever sees the generic message. Maps to 500.
func Internal(err error) *Error {
	return &Error{
		Code:     http.StatusInternalServerError,
		Kind:     "internal_error",
		Message:  "internal server error",
		Internal: err,
	}
}

// StatusCode returns the HTTP status for err, or 500 for anything that is
// not an *Error.
func StatusCode(err error) int {
	if appErr, ok := err.(*Error); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// SafeMessage returns the client-safe message for err. Unknown error types
// collapse to a generic message so internals never leak.
func SafeMessage(err error) string {
	if appErr, ok := err.(*Error); ok {
		return appErr.Message
	}
	return "internal server error"
}

// SafeKind returns the machine-readable kind for err, or "internal_error".
func SafeKind(err error) string {
	if appErr, ok := err.(*Error); ok {
		return appErr.Kind
	}
	return "internal_error"
}
