package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
	"cropcura/internal/export"
	"cropcura/internal/state"
	"cropcura/internal/types"
	"cropcura/internal/workspace"
)

// DecisionRequest is the body of POST /applications/{id}/decision.
type DecisionRequest struct {
	Status string `json:"status" validate:"required,loan_decision"`
}

// ApplicationDetail is a loan with its borrower and the current recommendation.
type ApplicationDetail struct {
	Application    types.LoanApplication `json:"application"`
	Farmer         *types.Farmer         `json:"farmer,omitempty"`
	Recommendation state.Recommendation  `json:"recommendation"`
}

// ApplicationHandler serves the loan application list, detail, decisions and
// export.
type ApplicationHandler struct {
	workspaces Workspaces
	validator  *core.Validator
	logger     *slog.Logger
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(ws Workspaces, v *core.Validator, l *slog.Logger) *ApplicationHandler {
	if l == nil {
		l = slog.Default()
	}
	return &ApplicationHandler{workspaces: ws, validator: v, logger: l}
}

// RegisterRoutes mounts the /applications routes.
func (h *ApplicationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/export", h.Export)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/decision", h.Decide)
	})
}

func filterApplications(r *http.Request, ws *workspace.Workspace) ([]types.LoanApplication, state.State, error) {
	snap := ws.Store().Snapshot()
	q := r.URL.Query()
	loans, err := state.FilterLoans(snap.Loans, state.LoanFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	})
	return loans, snap, err
}

// List handles GET /applications?search=&status=.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	loans, _, err := filterApplications(r, ws)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, types.NewListResponse(loans))
}

// Get handles GET /applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	loan, err := ws.Store().Loan(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	detail := ApplicationDetail{
		Application:    loan,
		Recommendation: state.Recommend(loan.CropCuraScore, ws.Store().Snapshot().Settings),
	}
	if farmer, err := ws.Store().Farmer(loan.FarmerID); err == nil {
		detail.Farmer = &farmer
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: detail})
}

// Decide handles POST /applications/{id}/decision with approved or declined.
func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	loan, err := ws.DecideLoan(r.Context(), chi.URLParam(r, "id"), types.LoanStatus(req.Status))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: loan})
}

// Export handles GET /applications/export, honouring the list filters.
func (h *ApplicationHandler) Export(w http.ResponseWriter, r *http.Request) {
	ws, ok := sessionWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	loans, snap, err := filterApplications(r, ws)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Applications(&buf, loans, snap.Settings); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to export applications", "error", err)
		core.Error(w, r, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build export", err))
		return
	}
	writeWorkbook(w, "applications.xlsx", buf.Bytes())
}

func writeWorkbook(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
