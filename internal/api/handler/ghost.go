package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/shadowsprint/internal/api/request"
	"github.com/mcoot/shadowsprint/internal/api/response"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/services/ghost"
)

// GhostHandler handles ghost replay endpoints
type GhostHandler struct {
	ghosts *ghost.Service
}

// NewGhostHandler creates a new ghost handler
func NewGhostHandler(ghostService *ghost.Service) *GhostHandler {
	return &GhostHandler{ghosts: ghostService}
}

// Get handles GET /api/ghost/{player_id}/{level}
func (h *GhostHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := model.PlayerID(vars["player_id"])

	level, err := strconv.Atoi(vars["level"])
	if err != nil {
		WriteError(w, fmt.Errorf("%w: %q is not a level number", model.ErrInvalidLevel, vars["level"]))
		return
	}

	result, err := h.ghosts.Get(r.Context(), playerID, level)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FromGhost(result.Value))
}

// Submit handles POST /api/ghost. Slower or tied runs are acknowledged the same
// as accepted ones.
func (h *GhostHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitGhostRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Level == nil || req.TimeMs == nil {
		WriteError(w, NewInvalidRequestError("level and time_ms are required"))
		return
	}

	if _, err := h.ghosts.Submit(r.Context(), req.Ghost()); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}
