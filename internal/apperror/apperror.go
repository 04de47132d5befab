// Package apperror defines the error taxonomy every workflow operation reports
// through. The HTTP layer turns an AppError into a status code and envelope.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	TypeBadRequest = "Bad Request"
	TypeInternal   = "Internal Server Error"
)

type AppError struct {
	StatusCode int
	Message    string
	ErrorType  string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(statusCode int, message, errorType string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		ErrorType:  errorType,
	}
}

// Validation reports malformed or disallowed input, or an illegal transition.
func Validation(format string, args ...any) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...), TypeBadRequest)
}

// NotFound reports a missing or soft-deleted entity, or an empty listing.
// It is tagged "Bad Request" like every other client-side failure.
func NotFound(format string, args ...any) *AppError {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...), TypeBadRequest)
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.StatusCode == http.StatusBadRequest
}

func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.StatusCode == http.StatusNotFound
}
