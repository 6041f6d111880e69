package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("This book is currently unavailable")
	ErrUnauthorized       = errors.New("Unauthenticated.")
	ErrForbidden          = errors.New("Unauthorized")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrEmailTaken         = errors.New("The email has already been taken.")
	ErrInUse              = errors.New("resource is still referenced")
	ErrOverpayment        = errors.New("The amount may not be greater than the outstanding balance.")
	ErrNotReturned        = errors.New("Fines can only be paid on returned loans.")
)

// NotFound keeps ErrNotFound matchable while carrying a caller-facing message.
type NotFound struct {
	Message string
}

func (e *NotFound) Error() string { return e.Message }

func (e *NotFound) Is(target error) bool { return target == ErrNotFound }

func NewNotFound(msg string) error {
	return &NotFound{Message: msg}
}

// ValidationError is rendered as 422 {"message": ..., "errors": {field: [...]}}.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k]...)
	}
	return strings.Join(msgs, " ")
}

func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
