package handler

import (
	"net/http"

	"github.com/mcoot/shadowsprint/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeInvalidLevel     = apierr.CodeInvalidLevel
	CodeInvalidTime      = apierr.CodeInvalidTime
	CodeInvalidLanguage  = apierr.CodeInvalidLanguage
	CodeInvalidInput     = apierr.CodeInvalidInput
	CodeNotFound         = apierr.CodeNotFound
	CodeMethodNotAllowed = apierr.CodeMethodNotAllowed
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NotFound writes the JSON 404 used for unknown routes
func NotFound(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

// MethodNotAllowed writes a JSON 405
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
