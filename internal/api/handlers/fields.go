package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
	"cropcura/internal/fields"
	"cropcura/internal/types"
)

// FieldListResponse is the body of GET /fields.
type FieldListResponse struct {
	Fields  []types.Field  `json:"fields"`
	Summary fields.Summary `json:"summary"`
}

// AddFieldResponse is the body of a successful POST /fields.
type AddFieldResponse struct {
	Field   types.Field `json:"field"`
	Message string      `json:"message"`
}

// HoverRequest is the body of PUT /fields/hover. An empty FieldID clears the
// hover.
type HoverRequest struct {
	FieldID string `json:"fieldId"`
}

// PolygonRequest is the body of PUT /fields/drawing/polygon.
type PolygonRequest struct {
	Coordinates []types.FieldCoordinate `json:"coordinates" validate:"required,min=1"`
}

// PolygonResponse echoes the outline now held by the map.
type PolygonResponse struct {
	Coordinates []types.FieldCoordinate `json:"coordinates"`
}

// FieldHandler serves the field map, card list and add-field flow.
type FieldHandler struct {
	workspaces Workspaces
	validator  *core.Validator
}

// NewFieldHandler creates a FieldHandler.
func NewFieldHandler(ws Workspaces, v *core.Validator) *FieldHandler {
	return &FieldHandler{workspaces: ws, validator: v}
}

// RegisterRoutes mounts the /fields routes.
func (h *FieldHandler) RegisterRoutes(r chi.Router) {
	r.Route("/fields", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Get("/map", h.Map)
		r.Get("/cards", h.Cards)
		r.Post("/cards/{id}/select", h.SelectCard)
		r.Put("/hover", h.Hover)
		r.Delete("/selection", h.ClearSelection)

		r.Post("/drawing", h.StartDrawing)
		r.Delete("/drawing", h.StopDrawing)
		r.Put("/drawing/polygon", h.CommitPolygon)
		r.Delete("/drawing/polygon", h.ClearPolygon)

		r.Get("/{id}", h.Get)
		r.Get("/{id}/scans", h.Scans)
		r.Post("/{id}/select", h.Select)
	})
}

// List handles GET /fields.
func (h *FieldHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	list := ws.Fields()
	if list == nil {
		list = []types.Field{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: FieldListResponse{Fields: list, Summary: ws.FieldSummary()}})
}

// Add handles POST /fields. Without coordinates in the body the outline drawn
// on the map is used.
func (h *FieldHandler) Add(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	var in fields.AddFieldInput
	if err := core.DecodeJSON(w, r, &in); err != nil {
		core.Error(w, r, err)
		return
	}
	res, err := ws.AddField(r.Context(), in)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	resp := core.APIResponse{Data: AddFieldResponse{Field: res.Field, Message: res.Message}}
	if len(res.Warnings) > 0 {
		resp.Meta = &types.ResponseMeta{Warnings: res.Warnings}
	}
	core.JSON(w, r, http.StatusCreated, resp)
}

// Get handles GET /fields/{id}.
func (h *FieldHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	f, err := ws.Field(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: f})
}

// Scans handles GET /fields/{id}/scans.
func (h *FieldHandler) Scans(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	p, err := ws.FieldScans(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: p})
}

// Map handles GET /fields/map.
func (h *FieldHandler) Map(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ws.MapFrame()})
}

// Cards handles GET /fields/cards.
func (h *FieldHandler) Cards(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ws.Cards()})
}

// Hover handles PUT /fields/hover.
func (h *FieldHandler) Hover(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	var req HoverRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	ws.Hover(req.FieldID)
	w.WriteHeader(http.StatusNoContent)
}

// Select handles POST /fields/{id}/select.
func (h *FieldHandler) Select(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	popup, err := ws.Select(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: popup})
}

// SelectCard handles POST /fields/cards/{id}/select.
func (h *FieldHandler) SelectCard(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	cards, err := ws.SelectCard(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: cards})
}

// ClearSelection handles DELETE /fields/selection.
func (h *FieldHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	ws.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// StartDrawing handles POST /fields/drawing.
func (h *FieldHandler) StartDrawing(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	if err := ws.EnableDrawing(); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ws.MapFrame()})
}

// StopDrawing handles DELETE /fields/drawing.
func (h *FieldHandler) StopDrawing(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	if err := ws.DisableDrawing(); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ws.MapFrame()})
}

// CommitPolygon handles PUT /fields/drawing/polygon. A later commit replaces
// the earlier outline.
func (h *FieldHandler) CommitPolygon(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	var req PolygonRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}
	drawn, err := ws.CommitPolygon(req.Coordinates)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: PolygonResponse{Coordinates: drawn}})
}

// ClearPolygon handles DELETE /fields/drawing/polygon.
func (h *FieldHandler) ClearPolygon(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	if err := ws.ClearPolygon(); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
