package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrBudgetExceeded indicates that a jar create/update would push the sum of
// active jar percentages for a user above 100.
var ErrBudgetExceeded = errors.New("jar percentages exceed monthly budget")

// ErrAlreadyFinalized indicates an attempt to mutate or regenerate a monthly
// report that has been locked.
var ErrAlreadyFinalized = errors.New("monthly report already finalized")

// ErrConflict indicates the operation conflicts with the current state of the
// resource (e.g. deleting a jar that still has transactions).
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrForbidden indicates the authenticated user may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
