package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/shadowsprint/internal/api/request"
	"github.com/mcoot/shadowsprint/internal/api/response"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/services/settings"
)

// SettingsHandler handles player settings endpoints
type SettingsHandler struct {
	settings *settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

// Get handles GET /api/settings/{player_id}
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	result, err := h.settings.Get(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FromSettings(result.Value))
}

// Update handles POST /api/settings/{player_id}
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	var req request.UpdateSettingsRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.settings.Update(r.Context(), playerID, req.Patch())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FromSettings(result.Value))
}
