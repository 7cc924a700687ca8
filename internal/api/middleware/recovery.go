// Package middleware holds the API-specific HTTP middleware.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/shadowsprint/internal/api/apierr"
	"github.com/mcoot/shadowsprint/internal/middleware"
)

// Recovery answers panics with the JSON INTERNAL_ERROR envelope
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ error) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
