package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its message
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindBadRequest
)

func (k Kind) String() string {
	names := [...]string{"INTERNAL", "VALIDATION", "CONFLICT", "NOT_FOUND", "FORBIDDEN", "UNAUTHORIZED", "BAD_REQUEST"}
	if int(k) < 0 || int(k) >= len(names) {
		return "INTERNAL"
	}
	return names[k]
}

// StatusCode maps a kind to its HTTP status
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches any AppError of the same kind, so errors.Is(err, ErrConflict)
// holds for every conflict regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Common errors
var (
	ErrNotFound       = newKind(KindNotFound, "Resource not found")
	ErrUnauthorized   = newKind(KindUnauthorized, "Unauthorized")
	ErrForbidden      = newKind(KindForbidden, "Forbidden")
	ErrBadRequest     = newKind(KindBadRequest, "Bad request")
	ErrInternalServer = newKind(KindInternal, "Internal server error")
	ErrConflict       = newKind(KindConflict, "Resource already exists")
	ErrValidation     = newKind(KindValidation, "Validation failed")
	ErrTokenExpired   = newKind(KindUnauthorized, "Token has expired")
	ErrInvalidToken   = newKind(KindUnauthorized, "Invalid token")
)

func newKind(kind Kind, message string) *AppError {
	return &AppError{
		Code:    kind.StatusCode(),
		Kind:    kind,
		Message: message,
	}
}

// NewAppError creates a new application error from an HTTP status code
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindFromStatus(code),
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	err := newKind(KindValidation, "Validation failed")
	err.Errors = fieldErrors
	return err
}

// NewInvalidError creates a validation error carrying a single message
func NewInvalidError(message string) *AppError {
	return newKind(KindValidation, message)
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return newKind(KindNotFound, resource+" not found")
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return newKind(KindConflict, message)
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) *AppError {
	return newKind(KindForbidden, message)
}

// NewUnauthorizedError creates an unauthorized error with a custom message
func NewUnauthorizedError(message string) *AppError {
	return newKind(KindUnauthorized, message)
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return newKind(KindBadRequest, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf returns the kind of err, KindInternal when it is not an AppError
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}

func kindFromStatus(code int) Kind {
	switch code {
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusBadRequest:
		return KindBadRequest
	default:
		return KindInternal
	}
}
