package models

import "errors"

// Common errors used throughout the application
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrMovieNotFound  = errors.New("movie not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrStateTooLarge  = errors.New("visitor state is too large")
)

// ValidationError carries a user-facing message and matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
