package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/shadowsprint/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidLevel     = "INVALID_LEVEL"
	CodeInvalidTime      = "INVALID_TIME"
	CodeInvalidLanguage  = "INVALID_LANGUAGE"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Validation errors keep their wrapped detail in the message
	switch {
	case errors.Is(err, model.ErrMissingPlayerID):
		return badRequest(CodeInvalidRequest, err)
	case errors.Is(err, model.ErrInvalidLevel):
		return badRequest(CodeInvalidLevel, err)
	case errors.Is(err, model.ErrInvalidTime):
		return badRequest(CodeInvalidTime, err)
	case errors.Is(err, model.ErrInvalidLanguage):
		return badRequest(CodeInvalidLanguage, err)
	case errors.Is(err, model.ErrInvalidInputKind), errors.Is(err, model.ErrInvalidSegment):
		return badRequest(CodeInvalidInput, err)
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

func badRequest(code string, err error) *httpError {
	return &httpError{http.StatusBadRequest, APIError{code, err.Error()}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a not found error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewMethodNotAllowedError creates an error for a known route hit with the wrong method
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
