package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// decodeBody decodes a JSON request body. An empty body is an error unless
// allowEmpty is set, in which case dst is left untouched.
func decodeBody(r *http.Request, dst any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	default:
		return NewInvalidRequestError("Invalid request body")
	}
}
