// Package domainerrors provides coded errors for the service layer.
// Stores return infrastructure sentinels (pkg/platform/sentinel); services
// translate them into coded errors; the HTTP layer maps codes to statuses.
// The code, not the message, decides how a failure is handled.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeUnauthorized: no resolved identity on a capability-gated operation.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden: identity resolved but lacks the required capability.
	CodeForbidden Code = "forbidden"
	// CodeValidation: request body failed schema validation.
	CodeValidation Code = "validation_failed"
	// CodeInvalidInput: a path or query parameter is malformed.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest: request is structurally unparseable.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound: the addressed record does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict: the operation collides with existing state. Idempotent
	// creates (likes, memberships) absorb this and return the existing
	// record instead of surfacing it.
	CodeConflict Code = "conflict"
	// CodePartialUpdate: the primary record was written but a derived
	// update (points, badge counts) failed afterwards. Distinct from
	// CodeInternal so callers can tell "post created, points lost" from
	// "nothing happened".
	CodePartialUpdate Code = "partial_update"
	// CodeInternal: upstream store/auth failure or unexpected condition.
	CodeInternal Code = "internal"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// Is is shorthand for HasCode, matching the call sites that read better
// as a predicate.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code carried by err, or CodeInternal when
// err carries none. Unknown failures default to internal on purpose:
// anything uncoded reaching the boundary is a bug, not client error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the fixed status table every route follows.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to place in a response body.
// Internal and partial-update failures are reduced to a generic message;
// the detailed cause stays in the logs.
func PublicMessage(err error) string {
	code := CodeOf(err)
	switch code {
	case CodeInternal:
		return "internal error"
	case CodePartialUpdate:
		return "partial_update"
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
