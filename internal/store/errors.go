package store

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a store failure that carries an HTTP-equivalent status
// code, so callers can classify not-found versus server errors.
type StatusError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store error: status %d", e.Code)
	}
	return fmt.Sprintf("store error: status %d: %s", e.Code, e.Message)
}

// NewStatusError creates a StatusError for the given code.
func NewStatusError(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}

// IsNotFound reports whether err is a 404-equivalent store failure.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// IsServerError reports whether err is a 5xx-equivalent store failure.
func IsServerError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= http.StatusInternalServerError
}
