// Package apperr defines the closed error taxonomy shared by every service
// boundary, together with its wire representation and HTTP status mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class. The set is closed: handlers and clients
// switch on these values and no other code ever crosses a boundary.
type Code string

const (
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeSecurity         Code = "SECURITY_VIOLATION"
	CodeAIUnavailable    Code = "AI_TEMPORARILY_UNAVAILABLE"
	CodeMessagingFailed  Code = "MESSAGING_FAILED"
	CodeStorage          Code = "STORAGE_UNAVAILABLE"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Error is the tagged error type carried across boundaries. Message is safe to
// return to callers; Details holds provider descriptions or other diagnostic
// text that is safe to expose but not required reading. The wrapped cause, if
// any, stays server-side.
type Error struct {
	ErrCode Code   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	cause error
}

// New creates an Error with the given code and caller-safe message.
func New(code Code, message string) *Error {
	return &Error{ErrCode: code, Message: message}
}

// Newf creates an Error with a formatted caller-safe message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{ErrCode: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that records cause for server-side inspection without
// exposing it in the wire representation.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{ErrCode: code, Message: message, cause: cause}
}

// WithDetails returns a copy of e carrying the given diagnostic detail.
func (e *Error) WithDetails(details string) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrCode, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

func (e *Error) Code() Code {
	return e.ErrCode
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the taxonomy to response status codes. Validation failures
// are the caller's fault (4xx); dependency failures are retryable (5xx).
func (e *Error) HTTPStatus() int {
	switch e.ErrCode {
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeSecurity:
		return http.StatusForbidden
	case CodeAIUnavailable, CodeStorage:
		return http.StatusServiceUnavailable
	case CodeMessagingFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// From extracts an *Error from err, normalizing anything unclassified into
// CodeInternal with a generic message so implementation detail never leaks.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(CodeInternal, "an unexpected error occurred", err)
}

// CodeOf returns the taxonomy code for err, or CodeInternal when err carries
// no *Error in its chain.
func CodeOf(err error) Code {
	return From(err).ErrCode
}
