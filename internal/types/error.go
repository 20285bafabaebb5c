package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types rendered in the "type" field of error responses
const (
	TypeDuplicate    = "data.duplicate"
	TypeNotFound     = "data.notfound"
	TypeValidation   = "data.validation.input"
	TypeUnauthorized = "auth.unauthorized"
	TypeForbidden    = "auth.forbidden"
	TypeInternal     = "internal"
)

// InternalMessage is the only detail an internal failure exposes
const InternalMessage = "Unexpected error occurred, check server logs"

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Is matches on Type so errors.Is(err, &CustomError{Type: TypeNotFound}) works
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Sentinels for errors.Is checks
var (
	ErrDuplicate    = &CustomError{Type: TypeDuplicate}
	ErrNotFound     = &CustomError{Type: TypeNotFound}
	ErrValidation   = &CustomError{Type: TypeValidation}
	ErrUnauthorized = &CustomError{Type: TypeUnauthorized}
	ErrForbidden    = &CustomError{Type: TypeForbidden}
	ErrInternal     = &CustomError{Type: TypeInternal}
)

func NewDuplicate(detail string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: detail, Type: TypeDuplicate}
}

func NewNotFound(format string, args ...interface{}) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...), Type: TypeNotFound}
}

func NewValidation(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeValidation}
}

func NewUnauthorized(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: TypeUnauthorized}
}

func NewForbidden(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeForbidden}
}

// NewInternal hides the cause, callers log it before returning
func NewInternal() *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: InternalMessage, Type: TypeInternal}
}

// AsCustomError extracts a CustomError from err, anything else becomes an internal error
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return NewInternal()
}
