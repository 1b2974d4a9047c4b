// Package apperrors defines the typed error taxonomy of the core services.
// Handlers map these to HTTP statuses; the services themselves never build
// transport-shaped responses.
package apperrors

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func NewForbidden(message string) error {
	return &ForbiddenError{Message: message}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflict(message string) error {
	return &ConflictError{Message: message}
}

// UnprocessableError marks a request that is well-formed but cannot be
// applied, e.g. a withdrawal exceeding the balance.
type UnprocessableError struct {
	Message string
}

func (e *UnprocessableError) Error() string { return e.Message }

func NewUnprocessable(format string, args ...any) error {
	return &UnprocessableError{Message: fmt.Sprintf(format, args...)}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsUnprocessable(err error) bool {
	var target *UnprocessableError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
