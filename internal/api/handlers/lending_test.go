package handlers

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cropcura/internal/core"
	"cropcura/internal/export"
	"cropcura/internal/seed"
	"cropcura/internal/state"
	"cropcura/internal/types"
	"cropcura/internal/workspace"
)

func lendingRouter(t *testing.T) (http.Handler, *workspace.Manager) {
	t.Helper()
	ws := newWorkspaces(t)
	v := core.NewValidator(testLogger())
	return newRouter(func(r chi.Router) {
		NewDashboardHandler(ws).RegisterRoutes(r)
		NewApplicationHandler(ws, v, testLogger()).RegisterRoutes(r)
		NewFarmerHandler(ws, testLogger()).RegisterRoutes(r)
		NewAlertHandler(ws).RegisterRoutes(r)
		NewSettingsHandler(ws).RegisterRoutes(r)
	}), ws
}

// pendingLoans counts pending loans in the test session's current state.
func pendingLoans(m *workspace.Manager) int {
	n := 0
	for _, l := range m.Open(testSessionID).Store().Snapshot().Loans {
		if l.Status == types.LoanPending {
			n++
		}
	}
	return n
}

func TestDashboard(t *testing.T) {
	h, ws := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	m := decodeData[state.DashboardMetrics](t, rec)
	assert.Equal(t, seed.FarmerCount, m.TotalFarmers)
	assert.Equal(t, pendingLoans(ws), m.PendingApplications)
	assert.Equal(t, seed.FarmerCount, m.RiskDistribution.Low+m.RiskDistribution.Medium+m.RiskDistribution.High)
	assert.LessOrEqual(t, len(m.RecentAlerts), state.RecentAlertCount)
}

func TestApplications_ListFilters(t *testing.T) {
	h, _ := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/applications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeList[types.LoanApplication](t, rec)
	assert.Equal(t, seed.LoanCount, all.Total)

	rec = serve(t, h, http.MethodGet, "/applications?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decodeList[types.LoanApplication](t, rec)
	assert.GreaterOrEqual(t, pending.Total, seed.PendingLoanCount)
	for _, l := range pending.Data {
		assert.Equal(t, types.LoanPending, l.Status)
	}

	rec = serve(t, h, http.MethodGet, "/applications?search=LN-2001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	one := decodeList[types.LoanApplication](t, rec)
	require.Len(t, one.Data, 1)
	assert.Equal(t, "LN-2001", one.Data[0].ID)

	rec = serve(t, h, http.MethodGet, "/applications?search=no-such-thing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	rec = serve(t, h, http.MethodGet, "/applications?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(types.ErrCodeValidationInvalidFilter), errorCode(t, rec))
}

func TestApplications_Get(t *testing.T) {
	h, _ := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/applications/LN-2001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeData[ApplicationDetail](t, rec)
	assert.Equal(t, "LN-2001", detail.Application.ID)
	require.NotNil(t, detail.Farmer)
	assert.Equal(t, detail.Application.FarmerID, detail.Farmer.ID)
	assert.Equal(t, state.Recommend(detail.Application.CropCuraScore, types.DefaultSettings()), detail.Recommendation)

	rec = serve(t, h, http.MethodGet, "/applications/LN-9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(types.ErrCodeNotFoundLoan), errorCode(t, rec))
}

func TestApplications_Decide(t *testing.T) {
	h, ws := lendingRouter(t)
	before := pendingLoans(ws)

	rec := serve(t, h, http.MethodPost, "/applications/LN-2001/decision", DecisionRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loan := decodeData[types.LoanApplication](t, rec)
	assert.Equal(t, types.LoanApproved, loan.Status)

	rec = serve(t, h, http.MethodGet, "/dashboard", nil)
	m := decodeData[state.DashboardMetrics](t, rec)
	assert.Equal(t, before-1, m.PendingApplications)

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantErr  types.ErrorCode
	}{
		{"missing status", "/applications/LN-2002/decision", map[string]string{}, http.StatusBadRequest, types.ErrCodeValidationMissingField},
		{"not a decision", "/applications/LN-2002/decision", DecisionRequest{Status: "pending"}, http.StatusBadRequest, types.ErrCodeValidationInvalidParameter},
		{"unknown loan", "/applications/LN-9999/decision", DecisionRequest{Status: "declined"}, http.StatusNotFound, types.ErrCodeNotFoundLoan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, string(tt.wantErr), errorCode(t, rec))
		})
	}
}

func readSheet(t *testing.T, body []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestApplications_Export(t *testing.T) {
	h, _ := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/applications/export?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "applications.xlsx")

	list := decodeList[types.LoanApplication](t, serve(t, h, http.MethodGet, "/applications?status=pending", nil))
	rows := readSheet(t, rec.Body.Bytes(), "Applications")
	assert.Len(t, rows, list.Total+1)
}

func TestFarmers_List(t *testing.T) {
	h, _ := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/farmers?risk=high&sort=score", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList[types.Farmer](t, rec)
	for i, f := range list.Data {
		assert.Equal(t, types.RiskHigh, f.RiskLevel)
		if i > 0 {
			assert.GreaterOrEqual(t, list.Data[i-1].CropCuraScore, f.CropCuraScore)
		}
	}

	rec = serve(t, h, http.MethodGet, "/farmers?sort=age", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(types.ErrCodeValidationInvalidFilter), errorCode(t, rec))
}

func TestFarmers_DetailFieldsAndScans(t *testing.T) {
	h, _ := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/farmers/FRM-1001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeData[FarmerDetail](t, rec)
	assert.Equal(t, "FRM-1001", detail.Farmer.ID)
	for _, l := range detail.Applications {
		assert.Equal(t, "FRM-1001", l.FarmerID)
	}

	rec = serve(t, h, http.MethodGet, "/farmers/FRM-1001/fields", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ff := decodeData[FarmerFieldsResponse](t, rec)
	assert.Len(t, ff.Fields, 2)
	assert.Equal(t, 2, ff.Summary.Total)
	assert.Equal(t, 1, ff.Summary.Healthy)
	assert.Equal(t, 1, ff.Summary.Moderate)

	rec = serve(t, h, http.MethodGet, "/farmers/FRM-1001/scans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeData[map[string]any](t, rec)["scans"])

	for _, path := range []string{"/farmers/FRM-0000", "/farmers/FRM-0000/fields", "/farmers/FRM-0000/scans"} {
		rec = serve(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, string(types.ErrCodeNotFoundFarmer), errorCode(t, rec), path)
	}
}

func TestFarmers_Export(t *testing.T) {
	h, _ := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/farmers/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := readSheet(t, rec.Body.Bytes(), "Farmers")
	assert.Len(t, rows, seed.FarmerCount+1)
}

func TestAlerts_ListAndResolve(t *testing.T) {
	h, _ := lendingRouter(t)

	open := decodeList[types.RiskAlert](t, serve(t, h, http.MethodGet, "/alerts", nil))
	all := decodeList[types.RiskAlert](t, serve(t, h, http.MethodGet, "/alerts?showResolved=true", nil))
	assert.Less(t, open.Total, all.Total)
	for _, a := range open.Data {
		assert.False(t, a.IsResolved)
	}

	critical := decodeList[types.RiskAlert](t, serve(t, h, http.MethodGet, "/alerts?type=critical", nil))
	require.NotEmpty(t, critical.Data)
	for _, a := range critical.Data {
		assert.Equal(t, types.AlertCritical, a.Type)
	}

	target := open.Data[0].ID
	rec := serve(t, h, http.MethodPost, "/alerts/"+target+"/resolve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[types.RiskAlert](t, rec).IsResolved)

	rec = serve(t, h, http.MethodPost, "/alerts/"+target+"/resolve", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "resolving twice is a no-op")

	after := decodeList[types.RiskAlert](t, serve(t, h, http.MethodGet, "/alerts", nil))
	assert.Equal(t, open.Total-1, after.Total)

	rec = serve(t, h, http.MethodPost, "/alerts/ALT-999/resolve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(types.ErrCodeNotFoundAlert), errorCode(t, rec))

	rec = serve(t, h, http.MethodGet, "/alerts?showResolved=sometimes", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(types.ErrCodeValidationInvalidParameter), errorCode(t, rec))

	rec = serve(t, h, http.MethodGet, "/alerts?type=urgent", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings_UpdateAndReset(t *testing.T) {
	h, _ := lendingRouter(t)

	rec := serve(t, h, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.DefaultSettings(), decodeData[types.Settings](t, rec))

	rec = serve(t, h, http.MethodPatch, "/settings", map[string]any{
		"autoApproveThreshold": 720,
		"notifications":        map[string]any{"dailyDigest": false},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeData[types.Settings](t, rec)
	assert.Equal(t, 720, got.AutoApproveThreshold)
	assert.False(t, got.Notifications.DailyDigest)
	assert.True(t, got.Notifications.EmailAlerts)

	rec = serve(t, h, http.MethodPatch, "/settings", map[string]any{"autoApproveThreshold": 550})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(types.ErrCodeValidationThresholdOrder), errorCode(t, rec))

	rec = serve(t, h, http.MethodPatch, "/settings", map[string]any{"surprise": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h, http.MethodGet, "/settings", nil)
	assert.Equal(t, 720, decodeData[types.Settings](t, rec).AutoApproveThreshold, "rejected patch leaves settings unchanged")

	serve(t, h, http.MethodPost, "/applications/LN-2001/decision", DecisionRequest{Status: "declined"})

	rec = serve(t, h, http.MethodPost, "/settings/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeData[state.State](t, rec)
	assert.Equal(t, types.DefaultSettings(), st.Settings)
	for _, l := range st.Loans {
		if l.ID == "LN-2001" {
			assert.Equal(t, types.LoanPending, l.Status)
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ws := newWorkspaces(t)
	v := core.NewValidator(testLogger())
	register := func(r chi.Router) {
		NewApplicationHandler(ws, v, testLogger()).RegisterRoutes(r)
	}
	h := newRouter(register)

	rec := serve(t, h, http.MethodPost, "/applications/LN-2001/decision", DecisionRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	other, err := ws.Open("sess_other").Store().Loan("LN-2001")
	require.NoError(t, err)
	assert.Equal(t, types.LoanPending, other.Status)
}
