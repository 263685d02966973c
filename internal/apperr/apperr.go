// Package apperr defines the error kinds returned by services and their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service error
type Kind string

// Error kinds
const (
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindBusinessRuleViolation Kind = "business_rule_violation"
	KindAccessDenied          Kind = "access_denied"
	KindInvalidToken          Kind = "invalid_token"
	KindInvalidCredentials    Kind = "invalid_credentials"
	KindValidation            Kind = "validation_error"
	KindUnexpected            Kind = "internal_error"
)

// Sentinels for errors.Is comparisons by kind
var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrConflict              = &Error{Kind: KindConflict}
	ErrBusinessRuleViolation = &Error{Kind: KindBusinessRuleViolation}
	ErrAccessDenied          = &Error{Kind: KindAccessDenied}
	ErrInvalidToken          = &Error{Kind: KindInvalidToken}
	ErrInvalidCredentials    = &Error{Kind: KindInvalidCredentials}
	ErrValidation            = &Error{Kind: KindValidation}
	ErrUnexpected            = &Error{Kind: KindUnexpected}
)

// Error is a classified service error with a client-safe message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind carrying a cause
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// NotFound reports a missing resource, e.g. NotFound("Genre", "id", id)
func NotFound(resource, field string, value interface{}) *Error {
	return New(KindNotFound, "%s not found with %s: '%v'", resource, field, value)
}

// Conflict reports a duplicate resource, e.g. Conflict("Genre", "name", name)
func Conflict(resource, field string, value interface{}) *Error {
	return New(KindConflict, "%s already exists with %s: '%v'", resource, field, value)
}

// AccessDenied reports an authorization failure
func AccessDenied(reason string) *Error {
	return New(KindAccessDenied, "%s", reason)
}

// Unexpected wraps an unclassified failure; the cause is not exposed to clients
func Unexpected(err error) *Error {
	return Wrap(KindUnexpected, err, "an unexpected error occurred")
}

// KindOf returns the kind of err, or KindUnexpected for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// MessageOf returns the client-safe message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnexpected {
		if e.Message == "" {
			return string(e.Kind)
		}
		return e.Message
	}
	return "an unexpected error occurred"
}

// HTTPStatus maps an error kind to its response status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBusinessRuleViolation:
		return http.StatusUnprocessableEntity
	case KindAccessDenied:
		return http.StatusForbidden
	case KindInvalidToken, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
