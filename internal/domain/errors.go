package domain

import (
	"fmt"
	"net/http"
)

// Error is a structured, self-describing domain error shared by all modules.
// It carries RFC 7807-friendly metadata so the shared formatter can convert
// any domain error into a problem response without enumerating error types.
type Error struct {
	// Code is a stable, machine-readable business code (e.g. "ErrInvalidOTP").
	Code string

	// HTTPStatus is the HTTP status suggested for this error.
	HTTPStatus int

	// Title is a short human summary; empty defaults to StatusText(HTTPStatus).
	Title string

	// Message is a human-readable message primarily for logs. When Detail is
	// empty, this is used as the public detail.
	Message string

	// Detail is a user-friendly, safe explanation for clients.
	Detail string

	// TypeURI is an RFC 7807 type URI, e.g. "urn:problem:user/err-invalid-otp".
	TypeURI string

	// Context is an optional extension payload for clients.
	Context any

	cause error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Message
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on the stable Code rather than pointer identity, so copies
// created via WithCause still match their sentinel counterpart.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error wrapping the provided cause.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	cp := *e
	cp.cause = err
	return &cp
}

// WithDetail sets a public-friendly detail message for clients.
func (e *Error) WithDetail(detail string) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithContext attaches an extension payload for clients.
func (e *Error) WithContext(ctx any) *Error {
	cp := *e
	cp.Context = ctx
	return &cp
}

// --- RFC 7807 mapping accessors ---

func (e *Error) ProblemCode() string { return e.Code }
func (e *Error) ProblemStatus() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}
func (e *Error) ProblemTitle() string { return e.Title }
func (e *Error) ProblemDetail() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}
func (e *Error) ProblemTypeURI() string { return e.TypeURI }
func (e *Error) ProblemContext() any    { return e.Context }
