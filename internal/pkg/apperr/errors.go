package apperr

import (
	"errors"
	"net/http"
)

// NotFoundError is returned when a lookup by id or slug yields no row.
type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Unwrap() error { return e.Err }

// ConflictError is returned when a write violates a unique constraint.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return e.Err }

// ValidationError is returned when an input struct fails validation.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// DatabaseError wraps any other persistence failure.
type DatabaseError struct {
	Message string
	Err     error
}

func (e *DatabaseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}
func (e *DatabaseError) Unwrap() error { return e.Err }

// Constructors
func NotFound(msg string, cause error) error {
	return &NotFoundError{Message: msg, Err: cause}
}

func Conflict(msg string, cause error) error {
	return &ConflictError{Message: msg, Err: cause}
}

func Validation(msg string, cause error) error {
	return &ValidationError{Message: msg, Err: cause}
}

func Database(msg string, cause error) error {
	return &DatabaseError{Message: msg, Err: cause}
}

// Type checks
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsDatabase(err error) bool {
	var e *DatabaseError
	return errors.As(err, &e)
}

// HTTPStatus maps an error to the status code a web layer should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
