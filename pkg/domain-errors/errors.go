// Package domainerrors defines coded errors shared by all fundbook services.
// Services attach a Code so transport layers can translate failures without
// inspecting error strings; stores stay on sentinel errors and plain wrapping.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of domain failure.
type Code string

const (
	// Business-rule rejections surfaced to callers as-is.
	CodeLimitExceeded  Code = "LIMIT_EXCEEDED"
	CodeOverAllocated  Code = "OVER_ALLOCATED"
	CodeNoActiveWindow Code = "NO_ACTIVE_WINDOW"
	CodeWindowExpired  Code = "WINDOW_EXPIRED"
	CodeInvalidAmount  Code = "INVALID_AMOUNT"
	CodeNotFound       Code = "NOT_FOUND"

	// Transport-generic codes.
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeLockedOut    Code = "LOCKED_OUT"
	CodeInternal     Code = "INTERNAL"
)

// Error is a domain error carrying a machine-readable code.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Is makes errors.Is match any error carrying the same code, regardless of
// message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New builds a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, wrapped: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a shorthand for HasCode used at transport boundaries.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for plain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message, or a generic one for plain errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// HTTPStatus maps a code to the HTTP status the transport layer should write.
func HTTPStatus(code Code) int {
	switch code {
	case CodeLimitExceeded, CodeNoActiveWindow, CodeWindowExpired:
		return http.StatusForbidden
	case CodeOverAllocated, CodeInvalidAmount, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeLockedOut:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
