package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
)

// DashboardHandler serves the portfolio overview.
type DashboardHandler struct {
	workspaces Workspaces
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(ws Workspaces) *DashboardHandler {
	return &DashboardHandler{workspaces: ws}
}

// RegisterRoutes mounts GET /dashboard.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Get)
}

// Get returns the metrics computed from the session's live state.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ws.Dashboard()})
}
