package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
	"cropcura/internal/export"
	"cropcura/internal/fields"
	"cropcura/internal/state"
	"cropcura/internal/types"
	"cropcura/internal/workspace"
)

// FarmerDetail is a farmer with their applications and alerts.
type FarmerDetail struct {
	Farmer       types.Farmer            `json:"farmer"`
	Applications []types.LoanApplication `json:"applications"`
	Alerts       []types.RiskAlert       `json:"alerts"`
}

// FarmerFieldsResponse is the body of GET /farmers/{id}/fields.
type FarmerFieldsResponse struct {
	Fields  []types.Field  `json:"fields"`
	Summary fields.Summary `json:"summary"`
}

// FarmerHandler serves the borrower directory.
type FarmerHandler struct {
	workspaces Workspaces
	logger     *slog.Logger
}

// NewFarmerHandler creates a FarmerHandler.
func NewFarmerHandler(ws Workspaces, l *slog.Logger) *FarmerHandler {
	if l == nil {
		l = slog.Default()
	}
	return &FarmerHandler{workspaces: ws, logger: l}
}

// RegisterRoutes mounts the /farmers routes.
func (h *FarmerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/farmers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/export", h.Export)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/fields", h.Fields)
		r.Get("/{id}/scans", h.Scans)
	})
}

func filterFarmers(r *http.Request, ws *workspace.Workspace) ([]types.Farmer, error) {
	q := r.URL.Query()
	return state.FilterFarmers(ws.Store().Farmers(), state.FarmerFilter{
		Search: q.Get("search"),
		Risk:   q.Get("risk"),
		SortBy: q.Get("sort"),
	})
}

// List handles GET /farmers?search=&risk=&sort=.
func (h *FarmerHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	farmers, err := filterFarmers(r, ws)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, types.NewListResponse(farmers))
}

// Get handles GET /farmers/{id}.
func (h *FarmerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	farmer, err := ws.Store().Farmer(id)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	detail := FarmerDetail{
		Farmer:       farmer,
		Applications: []types.LoanApplication{},
		Alerts:       []types.RiskAlert{},
	}
	snap := ws.Store().Snapshot()
	for _, loan := range snap.Loans {
		if loan.FarmerID == id {
			detail.Applications = append(detail.Applications, loan)
		}
	}
	for _, a := range snap.Alerts {
		if a.FarmerID == id {
			detail.Alerts = append(detail.Alerts, a)
		}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: detail})
}

// Fields handles GET /farmers/{id}/fields.
func (h *FarmerHandler) Fields(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	list, summary, err := ws.FarmerFields(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	if list == nil {
		list = []types.Field{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: FarmerFieldsResponse{Fields: list, Summary: summary}})
}

// Scans handles GET /farmers/{id}/scans.
func (h *FarmerHandler) Scans(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	p, err := ws.FarmerScans(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: p})
}

// Export handles GET /farmers/export, honouring the list filters.
func (h *FarmerHandler) Export(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	farmers, err := filterFarmers(r, ws)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Farmers(&buf, farmers); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to export farmers", "error", err)
		core.Error(w, r, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build export", err))
		return
	}
	writeWorkbook(w, "farmers.xlsx", buf.Bytes())
}
