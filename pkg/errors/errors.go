package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal

	// Booking rejections. These are returned to the caller as typed
	// results, never treated as fatal.
	ErrMissingFields
	ErrInvalidInterval
	ErrDoubleBooked
	ErrTimeBlocked

	// ErrStore marks a transport or query failure against the backing
	// store, distinct from business-rule rejections.
	ErrStore
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func MissingFields(fields ...string) *AppError {
	return &AppError{
		Code:    ErrMissingFields,
		Message: fmt.Sprintf("missing required fields: %v", fields),
	}
}

func InvalidInterval(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidInterval,
		Message: message,
	}
}

func DoubleBooked() *AppError {
	return &AppError{
		Code:    ErrDoubleBooked,
		Message: "the doctor already has an appointment in the selected time range",
	}
}

func TimeBlocked() *AppError {
	return &AppError{
		Code:    ErrTimeBlocked,
		Message: "the selected time range is blocked by the doctor",
	}
}

func Store(op string, err error) *AppError {
	return &AppError{
		Code:    ErrStore,
		Message: fmt.Sprintf("store operation failed: %s", op),
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns ErrInternal for non-application errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsRejection reports whether err is a business-rule rejection the
// caller can recover from by picking another slot or fixing input.
func IsRejection(err error) bool {
	switch CodeOf(err) {
	case ErrMissingFields, ErrInvalidInterval, ErrDoubleBooked, ErrTimeBlocked:
		return true
	}
	return false
}
