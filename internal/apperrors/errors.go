// Package apperrors provides the structured error type returned to API callers.
package apperrors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation         Code = "VALIDATION_FAILED"
	CodeEmailTaken         Code = "EMAIL_TAKEN"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenRevoked       Code = "TOKEN_REVOKED"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeNotFound           Code = "NOT_FOUND"
	CodePayloadTooLarge    Code = "PAYLOAD_TOO_LARGE"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Conflict on a unique field is reported as a bad request, matching the
	// register contract the mobile client expects.
	case CodeValidation, CodeEmailTaken:
		return http.StatusBadRequest
	case CodeUnauthenticated,
		CodeTokenExpired,
		CodeTokenInvalid,
		CodeTokenRevoked,
		CodeUserNotFound,
		CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is the API error type with a code and a caller-facing message.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Caller-facing message
	Cause   error  // Wrapped underlying error, never sent to the caller
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation is shorthand for a VALIDATION_FAILED error.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// NotFound is shorthand for a NOT_FOUND error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Internal wraps cause as an INTERNAL error with a generic message.
func Internal(cause error) *Error {
	return Wrap(CodeInternal, "internal server error", cause)
}
