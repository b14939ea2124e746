// Package apperr defines the error kinds shared by the StagePlot services.
//
// Three kinds cover everything the core can fail with: NotFound (absent, or
// owned by somebody else - the two are deliberately indistinguishable),
// Validation (bad input, unresolvable reference, category cycle) and Storage
// (backend failure, cause kept for logs only).
package apperr

import (
	"errors"
)

// Kind identifies the class of an Error.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindStorage
)

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the canonical error type returned by the service layer.
//
// Message is safe to show to a caller. Cause is for server-side logging only
// and must never be serialized into a response.
type Error struct {
	Kind    Kind         `json:"-"`
	Message string       `json:"error"`
	Fields  []FieldError `json:"details,omitempty"`
	Cause   error        `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap allows errors.Is and errors.As to traverse the cause chain.
func (e *Error) Unwrap() error { return e.Cause }

// NotFound reports a missing resource. Ownership mismatches use the same
// constructor so a caller cannot distinguish "absent" from "not yours".
func NotFound(resource string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// Validation reports invalid input, optionally with per-field details.
func Validation(msg string, fields ...FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: msg,
		Fields:  fields,
	}
}

// Storage wraps a backend failure. The cause is retained for logging; the
// message shown to callers is generic.
func Storage(cause error) *Error {
	return &Error{
		Kind:    KindStorage,
		Message: "storage failure",
		Cause:   cause,
	}
}

// IsNotFound reports whether err is (or wraps) a NotFound error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsValidation reports whether err is (or wraps) a Validation error.
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsStorage reports whether err is (or wraps) a Storage error.
func IsStorage(err error) bool { return is(err, KindStorage) }

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
