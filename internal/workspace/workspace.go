// Package workspace assembles the per-session state: the lending store, the
// field registry, the shared map/list selection, the drawing view and the
// scan catalog.
package workspace

import (
	"context"
	"log/slog"

	"cropcura/internal/events"
	"cropcura/internal/fieldmap"
	"cropcura/internal/fields"
	"cropcura/internal/scans"
	"cropcura/internal/state"
	"cropcura/internal/types"
)

// Workspace is everything one signed-in session reads and mutates.
type Workspace struct {
	SessionID string

	store     *state.Store
	fields    *fields.Service
	selection *fieldmap.Selection
	view      *fieldmap.View
	list      *fieldmap.ListView
	scans     *scans.Catalog

	publisher events.Publisher
	clock     types.Clock
	logger    *slog.Logger
}

// Store returns the lending store.
func (w *Workspace) Store() *state.Store { return w.store }

// Selection returns the selection shared by the map and the card list.
func (w *Workspace) Selection() *fieldmap.Selection { return w.selection }

// View returns the map view.
func (w *Workspace) View() *fieldmap.View { return w.view }

// Fields returns the officer's own fields in insertion order.
func (w *Workspace) Fields() []types.Field {
	return w.fields.List(fields.OwnerSelf)
}

// Field returns one of the officer's fields.
func (w *Workspace) Field(id string) (types.Field, error) {
	return w.fields.Get(fields.OwnerSelf, id)
}

// FieldSummary counts the officer's fields per health status.
func (w *Workspace) FieldSummary() fields.Summary {
	return fields.HealthSummary(w.Fields())
}

// FarmerFields returns a farmer's registered fields and their health counts.
// A farmer with no fields yields an empty list.
func (w *Workspace) FarmerFields(farmerID string) ([]types.Field, fields.Summary, error) {
	if _, err := w.store.Farmer(farmerID); err != nil {
		return nil, fields.Summary{}, err
	}
	list := w.fields.List(farmerID)
	return list, fields.HealthSummary(list), nil
}

// FarmerScans presents every scan of a farmer's fields.
func (w *Workspace) FarmerScans(farmerID string) (scans.Presentation, error) {
	if _, err := w.store.Farmer(farmerID); err != nil {
		return scans.Presentation{}, err
	}
	return scans.Present(w.scans.ForFarmer(farmerID)), nil
}

// FieldScans presents the scans recorded for a field of any owner. A known
// field without scans yields the empty state.
func (w *Workspace) FieldScans(fieldID string) (scans.Presentation, error) {
	if _, _, ok := w.fields.Registry().Find(fieldID); !ok {
		return scans.Presentation{}, types.NewAppError(types.ErrCodeNotFoundField, "field "+fieldID+" not found", nil)
	}
	return scans.Present(w.scans.ForField(fieldID)), nil
}

// MapFrame renders the map for the officer's fields.
func (w *Workspace) MapFrame() fieldmap.Frame {
	return w.view.Render(w.Fields())
}

// Cards renders the field list.
func (w *Workspace) Cards() fieldmap.CardList {
	return w.list.Render(w.Fields())
}

// Hover marks a field as hovered from either the map or the list. An empty id
// clears the hover.
func (w *Workspace) Hover(fieldID string) {
	if fieldID == "" {
		w.selection.ClearHover()
		return
	}
	w.list.HoverCard(fieldID)
}

// Select selects a field and returns its popup.
func (w *Workspace) Select(fieldID string) (fieldmap.Popup, error) {
	popup, ok := w.view.Click(w.Fields(), fieldID)
	if !ok {
		return fieldmap.Popup{}, types.NewAppError(types.ErrCodeNotFoundField, "field "+fieldID+" not found", nil)
	}
	return popup, nil
}

// SelectCard selects a field from the card list and returns the re-rendered
// cards. The map shows the same selection and popup.
func (w *Workspace) SelectCard(fieldID string) (fieldmap.CardList, error) {
	list := w.Fields()
	if !w.list.ClickCard(list, fieldID) {
		return fieldmap.CardList{}, types.NewAppError(types.ErrCodeNotFoundField, "field "+fieldID+" not found", nil)
	}
	return w.list.Render(list), nil
}

// ClearSelection closes the popup.
func (w *Workspace) ClearSelection() {
	w.selection.ClearSelection()
}

// EnableDrawing switches the map into drawing mode.
func (w *Workspace) EnableDrawing() error {
	if err := w.view.EnableDrawing(); err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to start drawing tool", err)
	}
	return nil
}

// DisableDrawing leaves drawing mode and drops any uncommitted outline.
func (w *Workspace) DisableDrawing() error {
	if err := w.view.DisableDrawing(); err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to stop drawing tool", err)
	}
	return nil
}

// remoteTool is implemented by drawing tools driven over the API.
type remoteTool interface {
	Commit(coords []types.FieldCoordinate) error
	Clear() error
}

func (w *Workspace) activeTool() (remoteTool, error) {
	tool, ok := w.view.Tool()
	if !ok {
		return nil, types.NewAppError(types.ErrCodeConflictDrawingInactive, "drawing mode is not enabled", nil)
	}
	rt, ok := tool.(remoteTool)
	if !ok {
		return nil, types.NewAppError(types.ErrCodeConflictDrawingInactive, "drawing tool does not accept remote input", nil)
	}
	return rt, nil
}

// CommitPolygon feeds a finished outline through the drawing tool.
func (w *Workspace) CommitPolygon(coords []types.FieldCoordinate) ([]types.FieldCoordinate, error) {
	tool, err := w.activeTool()
	if err != nil {
		return nil, err
	}
	if err := tool.Commit(coords); err != nil {
		return nil, types.NewAppError(types.ErrCodeConflictDrawingInactive, "drawing mode is not enabled", err)
	}
	return w.view.Drawn(), nil
}

// ClearPolygon removes the in-progress outline.
func (w *Workspace) ClearPolygon() error {
	tool, err := w.activeTool()
	if err != nil {
		return err
	}
	if err := tool.Clear(); err != nil {
		return types.NewAppError(types.ErrCodeConflictDrawingInactive, "drawing mode is not enabled", err)
	}
	return nil
}

// AddField saves a new field. When the form carries no coordinates, the
// outline drawn on the map is used; a successful save leaves drawing mode.
func (w *Workspace) AddField(ctx context.Context, in fields.AddFieldInput) (fields.AddFieldResult, error) {
	fromMap := len(in.Coordinates) == 0
	if fromMap {
		in.Coordinates = w.view.Drawn()
	}
	res, err := w.fields.AddField(ctx, fields.OwnerSelf, in)
	if err != nil {
		return fields.AddFieldResult{}, err
	}
	if fromMap {
		if err := w.view.DisableDrawing(); err != nil {
			w.logger.WarnContext(ctx, "failed to close drawing tool after save", "error", err)
		}
	}
	return res, nil
}

// Dashboard computes the dashboard metrics from live state.
func (w *Workspace) Dashboard() state.DashboardMetrics {
	return state.ComputeMetrics(w.store.Farmers(), w.store.Snapshot(), w.store.ScoreTrends())
}

// DecideLoan approves or declines a loan application.
func (w *Workspace) DecideLoan(ctx context.Context, loanID string, status types.LoanStatus) (types.LoanApplication, error) {
	next, err := w.store.Dispatch(state.UpdateLoanStatus{LoanID: loanID, Status: status})
	if err != nil {
		return types.LoanApplication{}, err
	}
	var loan types.LoanApplication
	for _, l := range next.Loans {
		if l.ID == loanID {
			loan = l
			break
		}
	}
	w.logger.InfoContext(ctx, "loan decided", "loan_id", loanID, "status", string(status))
	w.emit(ctx, events.KindLoanDecided, loanID, map[string]any{
		"status":   string(status),
		"farmerId": loan.FarmerID,
		"amount":   loan.LoanAmount,
	})
	return loan, nil
}

// ResolveAlert marks one alert resolved.
func (w *Workspace) ResolveAlert(ctx context.Context, alertID string) (types.RiskAlert, error) {
	next, err := w.store.Dispatch(state.ResolveAlert{AlertID: alertID})
	if err != nil {
		return types.RiskAlert{}, err
	}
	var alert types.RiskAlert
	for _, a := range next.Alerts {
		if a.ID == alertID {
			alert = a
			break
		}
	}
	w.logger.InfoContext(ctx, "alert resolved", "alert_id", alertID)
	w.emit(ctx, events.KindAlertResolved, alertID, map[string]any{"type": string(alert.Type)})
	return alert, nil
}

// UpdateSettings merges a partial settings change.
func (w *Workspace) UpdateSettings(ctx context.Context, patch state.SettingsPatch) (types.Settings, error) {
	next, err := w.store.Dispatch(state.UpdateSettings{Patch: patch})
	if err != nil {
		return types.Settings{}, err
	}
	w.emit(ctx, events.KindSettingsUpdated, w.SessionID, map[string]any{
		"autoApproveThreshold": next.Settings.AutoApproveThreshold,
		"reviewThreshold":      next.Settings.ReviewThreshold,
		"autoDeclineThreshold": next.Settings.AutoDeclineThreshold,
	})
	return next.Settings, nil
}

// Reset restores settings, loans and alerts to their seeded values.
func (w *Workspace) Reset(ctx context.Context) (state.State, error) {
	next, err := w.store.Reset()
	if err != nil {
		return state.State{}, err
	}
	w.logger.InfoContext(ctx, "demo reset", "session_id", w.SessionID)
	w.emit(ctx, events.KindDemoReset, w.SessionID, nil)
	return next, nil
}

func (w *Workspace) emit(ctx context.Context, kind events.Kind, resourceID string, data map[string]any) {
	events.Emit(ctx, w.publisher, w.logger, events.New(kind, w.SessionID, resourceID, w.clock.Now(), data))
}
