// Package apperr defines the closed set of domain error kinds the handlers
// may return, plus the single translation point that maps them onto HTTP
// responses. Handlers never format HTTP error bodies themselves: they return
// an *Error (or a wrapped one) and the echo error handler does the rest.
// Every error body carries the request-correlation id so a failure can be
// traced end-to-end without exposing internals.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error kind. Codes are stable strings suitable for
// logging and client-side branching.
type Code string

const (
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeEmailExists        Code = "EMAIL_ALREADY_REGISTERED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAccountInactive    Code = "ACCOUNT_INACTIVE"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeForbidden          Code = "FORBIDDEN"
	CodePlanNotFound       Code = "PLAN_NOT_FOUND"
	CodeOAuthStateInvalid  Code = "OAUTH_STATE_INVALID"
	CodeOAuthFailed        Code = "OAUTH_FAILED"
	CodeRoleConfiguration  Code = "ROLE_CONFIGURATION_ERROR"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Error is the application error carried from handlers to the HTTP
// translation layer. Message is safe to show verbatim to clients; Err holds
// the internal cause and is logged, never serialized.
type Error struct {
	Code     Code
	Message  string
	HTTPCode int
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on the error code so sentinel comparisons work through
// WithErr copies.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New constructs an error kind. Used for the predeclared set below and for
// one-off messages that still need taxonomy placement.
func New(code Code, message string, httpCode int) *Error {
	return &Error{Code: code, Message: message, HTTPCode: httpCode}
}

// WithErr returns a copy carrying an internal cause for logging.
func (e *Error) WithErr(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// WithMessage returns a copy with a different client-facing message but the
// same code and status. Authorization failures use this to name the missing
// requirement (safe once identity is established).
func (e *Error) WithMessage(message string) *Error {
	c := *e
	c.Message = message
	return &c
}

// Predeclared domain errors. Authentication failures deliberately share one
// generic message so responses never distinguish "no such user" from "wrong
// password".
var (
	ErrValidationFailed   = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
	ErrEmailExists        = New(CodeEmailExists, "Email already registered", http.StatusBadRequest)
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized)
	ErrAccountInactive    = New(CodeAccountInactive, "Account is inactive", http.StatusUnauthorized)
	ErrUnauthenticated    = New(CodeUnauthenticated, "Could not validate credentials", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrPlanNotFound       = New(CodePlanNotFound, "Subscription plan not found", http.StatusNotFound)
	ErrMissingPlanID      = New(CodeValidationFailed, "Plan ID is required", http.StatusBadRequest)
	ErrOAuthStateInvalid  = New(CodeOAuthStateInvalid, "Invalid state parameter", http.StatusBadRequest)
	ErrOAuthFailed        = New(CodeOAuthFailed, "Failed to complete OAuth sign-in", http.StatusBadRequest)
	ErrRoleConfiguration  = New(CodeRoleConfiguration, "Role configuration error", http.StatusInternalServerError)
	ErrInternal           = New(CodeInternal, "An unexpected error occurred", http.StatusInternalServerError)
)

// Validation wraps field-level detail in the validation kind.
func Validation(message string) *Error {
	return ErrValidationFailed.WithMessage(message)
}

// Internal wraps an unexpected internal cause.
func Internal(err error) *Error {
	return ErrInternal.WithErr(err)
}
