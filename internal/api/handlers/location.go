package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
	"cropcura/internal/external"
)

// LocationHandler serves the best-effort "my location" lookup.
type LocationHandler struct {
	service *external.LocationService
}

// NewLocationHandler creates a LocationHandler.
func NewLocationHandler(service *external.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// RegisterRoutes mounts POST /location.
func (h *LocationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/location", h.Locate)
}

// Locate handles POST /location. Every outcome, including failure, is a 200
// carrying a notification.
func (h *LocationHandler) Locate(w http.ResponseWriter, r *http.Request) {
	res := h.service.Locate(r.Context(), core.ClientIP(r))
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: res})
}
