// Package apperr defines the error contract of the backend core. Every
// operation returns either nil or an *Error carrying one of the closed set
// of codes below; handlers translate codes to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound        Code = "NOT_FOUND"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeCycleDetected   Code = "CYCLE_DETECTED"
	CodeConflict        Code = "CONFLICT"
	CodeUnavailable     Code = "UNAVAILABLE"
)

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

// Is makes errors.Is match on the code, so callers can compare against a
// bare constructor result without caring about the message.
func (e *Error) Is(target error) bool {
	var ae *Error
	if errors.As(target, &ae) {
		return e.Code == ae.Code
	}
	return false
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func CycleDetected(format string, args ...any) *Error {
	return &Error{Code: CodeCycleDetected, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a transient failure (storage down, lookup timeout) after
// retries are exhausted.
func Unavailable(cause error, format string, args ...any) *Error {
	return &Error{Code: CodeUnavailable, Message: fmt.Sprintf(format, args...), cause: cause}
}

func CodeOf(err error) (Code, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code, true
	}
	return "", false
}

func IsNotFound(err error) bool        { return hasCode(err, CodeNotFound) }
func IsForbidden(err error) bool       { return hasCode(err, CodeForbidden) }
func IsInvalidArgument(err error) bool { return hasCode(err, CodeInvalidArgument) }
func IsCycleDetected(err error) bool   { return hasCode(err, CodeCycleDetected) }
func IsConflict(err error) bool        { return hasCode(err, CodeConflict) }
func IsUnavailable(err error) bool     { return hasCode(err, CodeUnavailable) }

func hasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// Retryable reports whether the error may succeed on retry. Structural
// violations and authorization failures never do.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if c, ok := CodeOf(err); ok {
		return c == CodeUnavailable
	}
	// Unclassified errors are treated as transient storage faults.
	return true
}

// HTTPStatus maps a core error onto the status the API layer should return.
func HTTPStatus(err error) int {
	c, ok := CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidArgument, CodeCycleDetected:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
