package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/shadowsprint/internal/api/response"
	"github.com/mcoot/shadowsprint/internal/storage"
)

const (
	serviceName = "Shadow Sprint API"
	pingTimeout = 2 * time.Second
)

// HealthHandler handles the root and health endpoints
type HealthHandler struct {
	store  storage.Handle
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store storage.Handle, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Root{Name: serviceName, Status: "ok"})
}

// Health handles GET /api/health. The process is healthy even when the store
// is not, since every endpoint degrades to defaults.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	database := response.DatabaseConnected
	if err := h.store.Ping(ctx); err != nil {
		database = response.DatabaseUnavailable
		h.logger.Debug("store ping failed", slog.String("error", err.Error()))
	}

	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Database: database})
}
