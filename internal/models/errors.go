package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a promotion id does not exist.
var ErrNotFound = errors.New("promotion not found")

// ValidationError reports a client-input defect detected before any
// storage mutation is attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DatabaseError wraps a failure reported by the storage layer. The cause
// is logged server-side and never exposed to clients.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}
