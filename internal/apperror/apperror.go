// Package apperror defines the error kinds shared by every layer of the API.
//
// Each kind is a sentinel error. Constructors return an *AppError that wraps
// the sentinel, so callers branch with errors.Is and read the human-readable
// message (and, for validation, the per-field messages) off the AppError:
//
//	if errors.Is(err, apperror.ErrNotFound) { ... }
//
// The transport layer turns a kind into a machine-readable code with CodeOf.
package apperror

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found or forbidden")
	ErrInternal           = errors.New("internal error")
)

// Code is the machine-readable error code exposed to clients.
type Code string

const (
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeDuplicateEmail      Code = "DUPLICATE_EMAIL"
	CodeInvalidCredentials  Code = "INVALID_CREDENTIALS"
	CodeUnauthenticated     Code = "UNAUTHENTICATED"
	CodeNotFoundOrForbidden Code = "NOT_FOUND_OR_FORBIDDEN"
	CodeInternal            Code = "INTERNAL_ERROR"
)

// FieldError is one failed check on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Err     error        // sentinel kind
	Message string       // Human-readable error message
	Fields  []FieldError // Optional: per-field messages for validation failures
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation aggregates field errors into a single ValidationError. The
// message is every field message joined with ", ".
func Validation(fields ...FieldError) *AppError {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return &AppError{
		Err:     ErrValidation,
		Message: strings.Join(msgs, ", "),
		Fields:  fields,
	}
}

// ValidationFailed is shorthand for a validation error on a single field.
func ValidationFailed(field, message string) *AppError {
	return Validation(FieldError{Field: field, Message: message})
}

func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "User with this email already exists",
	}
}

// InvalidCredentials never says which half of the credentials was wrong.
func InvalidCredentials(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: message,
	}
}

func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "Not authenticated. Please log in first.",
	}
}

// NotFound covers both "missing" and "owned by someone else".
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// Internal is the client-facing stand-in for an unexpected failure. The
// cause is logged where it happened and never attached here.
func Internal(message string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: message,
	}
}

// CodeOf maps any error to its client-facing code. Errors that are not
// AppErrors are internal by definition.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrNotFound):
		return CodeNotFoundOrForbidden
	default:
		return CodeInternal
	}
}
