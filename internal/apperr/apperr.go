// Package apperr defines the error kinds surfaced by the API and the
// field-level validation result carried by ValidationFailed errors.
package apperr

import (
	"errors"
	"strings"
)

// Kinds. Compare with errors.Is.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUpstream          = errors.New("upstream service failure")
)

// Error is an API error of a given kind with a client-facing message.
type Error struct {
	Kind    error
	Message string
	Fields  FieldErrors
	Err     error
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause that is logged but never shown to the client.
func Wrap(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func InvalidIdentifier(message string) *Error { return New(ErrInvalidIdentifier, message) }
func NotFound(message string) *Error          { return New(ErrNotFound, message) }
func Forbidden(message string) *Error         { return New(ErrForbidden, message) }
func Conflict(message string) *Error          { return New(ErrConflict, message) }
func Unauthorized(message string) *Error      { return New(ErrUnauthorized, message) }

// FieldError describes one failed constraint on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the result of validating a request body. An empty value
// means the body is valid.
type FieldErrors []FieldError

func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// Err returns nil when there are no field errors.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(fe))
	for _, f := range fe {
		msgs = append(msgs, f.Message)
	}
	return &Error{Kind: ErrValidation, Message: strings.Join(msgs, "; "), Fields: fe}
}
