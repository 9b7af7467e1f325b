package handler

import (
	"errors"
	"net/http"
)

// HTTPError is an error with a status code and a client-facing message.
type HTTPError struct {
	Code int
	Key  string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "Bad request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Key: "Unauthorized"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "Not found"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "Internal server error"}
)

// ErrNilResponse is reported when a handler returns no response.
var ErrNilResponse = errors.New("handler returned nil response")

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}
