package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/shadowsprint/internal/api/response"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/services/classification"
)

// ClassificationHandler handles the tier endpoint
type ClassificationHandler struct {
	classification *classification.Service
}

// NewClassificationHandler creates a new classification handler
func NewClassificationHandler(classificationService *classification.Service) *ClassificationHandler {
	return &ClassificationHandler{classification: classificationService}
}

// Get handles GET /api/classification/{player_id}
func (h *ClassificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	summary, err := h.classification.Summary(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FromSummary(summary))
}
