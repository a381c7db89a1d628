package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("operation is not allowed for this user")
	ErrListingNotFound = errors.New("property listing not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrUnknownFlag     = errors.New("unknown flag")
)

// ValidationError - ошибка валидации конкретного поля формы
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
