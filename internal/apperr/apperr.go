// Package apperr defines the application error taxonomy shared by services
// and handlers. Every error carries an HTTP status so handlers can map
// service failures to responses without inspecting message strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Type string

const (
	TypeValidation   Type = "validation_error"
	TypeUnauthorized Type = "unauthorized"
	TypeForbidden    Type = "forbidden"
	TypeNotFound     Type = "not_found"
	TypeConflict     Type = "conflict"
	TypeInternal     Type = "internal_error"
)

type Error struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func Validation(format string, args ...any) *Error {
	return &Error{Type: TypeValidation, Message: fmt.Sprintf(format, args...), Code: http.StatusBadRequest}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Type: TypeUnauthorized, Message: fmt.Sprintf(format, args...), Code: http.StatusUnauthorized}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Type: TypeForbidden, Message: fmt.Sprintf(format, args...), Code: http.StatusForbidden}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Type: TypeNotFound, Message: fmt.Sprintf(format, args...), Code: http.StatusNotFound}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Type: TypeConflict, Message: fmt.Sprintf(format, args...), Code: http.StatusConflict}
}

func Internal(format string, args ...any) *Error {
	return &Error{Type: TypeInternal, Message: fmt.Sprintf(format, args...), Code: http.StatusInternalServerError}
}

// From normalizes any error into an *Error. Unknown errors become a generic
// internal error so storage details never leak to clients.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Type: TypeInternal, Message: "internal error", Code: http.StatusInternalServerError}
}
