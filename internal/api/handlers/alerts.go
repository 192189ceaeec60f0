package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
	"cropcura/internal/state"
	"cropcura/internal/types"
)

// AlertHandler serves the risk alert feed.
type AlertHandler struct {
	workspaces Workspaces
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(ws Workspaces) *AlertHandler {
	return &AlertHandler{workspaces: ws}
}

// RegisterRoutes mounts the /alerts routes.
func (h *AlertHandler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/{id}/resolve", h.Resolve)
	})
}

// List handles GET /alerts?type=&showResolved=.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	showResolved, err := queryBool(r, "showResolved")
	if err != nil {
		core.Error(w, r, err)
		return
	}
	alerts, err := state.FilterAlerts(ws.Store().Snapshot().Alerts, state.AlertFilter{
		Type:         r.URL.Query().Get("type"),
		ShowResolved: showResolved,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, types.NewListResponse(alerts))
}

// Resolve handles POST /alerts/{id}/resolve. Resolving twice is a no-op.
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	alert, err := ws.ResolveAlert(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: alert})
}
