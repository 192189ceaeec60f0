package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
	"cropcura/internal/state"
)

// SettingsHandler serves the decision thresholds and notification toggles.
type SettingsHandler struct {
	workspaces Workspaces
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(ws Workspaces) *SettingsHandler {
	return &SettingsHandler{workspaces: ws}
}

// RegisterRoutes mounts the /settings routes.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Post("/reset", h.Reset)
	})
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ws.Store().Snapshot().Settings})
}

// Update handles PATCH /settings. Threshold rules are enforced on the merged
// result, so a rejected patch leaves the settings unchanged.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	var patch state.SettingsPatch
	if err := core.DecodeJSON(w, r, &patch); err != nil {
		core.Error(w, r, err)
		return
	}
	settings, err := ws.UpdateSettings(r.Context(), patch)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: settings})
}

// Reset handles POST /settings/reset, restoring the session's seeded
// settings, loans and alerts.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	st, err := ws.Reset(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: st})
}
