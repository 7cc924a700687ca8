package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/shadowsprint/internal/api/request"
	"github.com/mcoot/shadowsprint/internal/api/response"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/services/progress"
)

// ProgressHandler handles level and unlock endpoints
type ProgressHandler struct {
	progress *progress.Service
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *progress.Service) *ProgressHandler {
	return &ProgressHandler{progress: progressService}
}

// Levels handles GET /api/levels
func (h *ProgressHandler) Levels(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Levels{Levels: h.progress.Levels()})
}

// Get handles GET /api/progress/{player_id}
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	result, err := h.progress.Get(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FromProgress(result.Value))
}

// Unlock handles POST /api/progress/unlock
func (h *ProgressHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req request.UnlockRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.WonLevel == nil {
		WriteError(w, NewInvalidRequestError("won_level is required"))
		return
	}

	if _, err := h.progress.ReportWin(r.Context(), model.PlayerID(req.PlayerID), *req.WonLevel); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}
