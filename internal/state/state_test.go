package state

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcura/internal/seed"
	"cropcura/internal/types"
)

func newTestStore(t *testing.T) (*Store, seed.Dataset) {
	t.Helper()
	ds := seed.Generate(seed.Options{
		Seed:  17,
		Clock: types.FixedClock{T: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)},
	})
	store := NewStore(StoreConfig{
		Initial: State{
			Settings: types.DefaultSettings(),
			Loans:    ds.Loans,
			Alerts:   ds.Alerts,
		},
		Farmers:     ds.Farmers,
		ScoreTrends: ds.ScoreTrends,
	})
	return store, ds
}

func ptr[T any](v T) *T { return &v }

func TestReduce_UpdateLoanStatus(t *testing.T) {
	store, _ := newTestStore(t)
	before := store.Snapshot()

	next, err := Reduce(before, UpdateLoanStatus{LoanID: "LN-2001", Status: types.LoanApproved})
	require.NoError(t, err)

	assert.Equal(t, types.LoanApproved, next.Loans[0].Status)
	assert.Equal(t, types.LoanPending, before.Loans[0].Status, "input state must not change")
	for i := 1; i < len(next.Loans); i++ {
		assert.Equal(t, before.Loans[i], next.Loans[i])
	}
}

func TestReduce_UpdateLoanStatus_Errors(t *testing.T) {
	store, _ := newTestStore(t)
	s := store.Snapshot()

	tests := []struct {
		name   string
		action UpdateLoanStatus
		code   types.ErrorCode
	}{
		{"pending is not a decision", UpdateLoanStatus{LoanID: "LN-2001", Status: types.LoanPending}, types.ErrCodeValidationInvalidStatus},
		{"under review is not a decision", UpdateLoanStatus{LoanID: "LN-2001", Status: types.LoanUnderReview}, types.ErrCodeValidationInvalidStatus},
		{"unknown loan", UpdateLoanStatus{LoanID: "LN-9999", Status: types.LoanDeclined}, types.ErrCodeNotFoundLoan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reduce(s, tt.action)
			require.Error(t, err)
			assert.True(t, types.IsCode(err, tt.code), err.Error())
		})
	}
}

func TestReduce_ResolveAlertIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	before := store.Snapshot()

	next, err := Reduce(before, ResolveAlert{AlertID: "ALT-003"})
	require.NoError(t, err)

	for i, a := range next.Alerts {
		if a.ID == "ALT-003" {
			assert.True(t, a.IsResolved)
			continue
		}
		assert.Equal(t, before.Alerts[i], a, a.ID)
	}
	assert.Equal(t, before.Loans, next.Loans)
	assert.Equal(t, before.Settings, next.Settings)
}

func TestReduce_ResolveAlert_Unknown(t *testing.T) {
	_, err := Reduce(State{}, ResolveAlert{AlertID: "ALT-404"})
	assert.True(t, types.IsCode(err, types.ErrCodeNotFoundAlert))
}

func TestReduce_UpdateSettings(t *testing.T) {
	s := State{Settings: types.DefaultSettings()}

	next, err := Reduce(s, UpdateSettings{Patch: SettingsPatch{
		AutoApproveThreshold: ptr(750),
		Notifications:        &NotificationSettingsPatch{CriticalOnly: ptr(true)},
	}})
	require.NoError(t, err)

	assert.Equal(t, 750, next.Settings.AutoApproveThreshold)
	assert.Equal(t, 600, next.Settings.ReviewThreshold)
	assert.Equal(t, 500, next.Settings.AutoDeclineThreshold)
	assert.True(t, next.Settings.Notifications.CriticalOnly)
	assert.True(t, next.Settings.Notifications.EmailAlerts)
	assert.True(t, next.Settings.Notifications.DailyDigest)
}

func TestReduce_UpdateSettings_Invalid(t *testing.T) {
	s := State{Settings: types.DefaultSettings()}

	tests := []struct {
		name  string
		patch SettingsPatch
		code  types.ErrorCode
	}{
		{"review above approve", SettingsPatch{ReviewThreshold: ptr(710)}, types.ErrCodeValidationThresholdOrder},
		{"decline equals review", SettingsPatch{AutoDeclineThreshold: ptr(600)}, types.ErrCodeValidationThresholdOrder},
		{"approve above max", SettingsPatch{AutoApproveThreshold: ptr(900)}, types.ErrCodeValidationThresholdRange},
		{"decline below min", SettingsPatch{AutoDeclineThreshold: ptr(200)}, types.ErrCodeValidationThresholdRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reduce(s, UpdateSettings{Patch: tt.patch})
			require.Error(t, err)
			assert.True(t, types.IsCode(err, tt.code), err.Error())
		})
	}
}

func TestReduce_NilAction(t *testing.T) {
	_, err := Reduce(State{}, nil)
	assert.Error(t, err)
}

func TestStore_ResetRestoresSeedExactly(t *testing.T) {
	store, _ := newTestStore(t)
	seeded := store.Snapshot()

	_, err := store.Dispatch(UpdateLoanStatus{LoanID: "LN-2002", Status: types.LoanDeclined})
	require.NoError(t, err)
	_, err = store.Dispatch(ResolveAlert{AlertID: "ALT-001"})
	require.NoError(t, err)
	_, err = store.Dispatch(UpdateSettings{Patch: SettingsPatch{ReviewThreshold: ptr(650)}})
	require.NoError(t, err)
	require.NotEqual(t, seeded, store.Snapshot())

	reset, err := store.Reset()
	require.NoError(t, err)

	if diff := cmp.Diff(seeded, reset); diff != "" {
		t.Fatalf("reset state differs from seed (-seed +reset):\n%s", diff)
	}
	if diff := cmp.Diff(seeded, store.Snapshot()); diff != "" {
		t.Fatalf("snapshot after reset differs from seed (-seed +got):\n%s", diff)
	}
}

func TestStore_FailedDispatchLeavesState(t *testing.T) {
	store, _ := newTestStore(t)
	before := store.Snapshot()

	_, err := store.Dispatch(UpdateSettings{Patch: SettingsPatch{ReviewThreshold: ptr(100)}})
	require.Error(t, err)

	assert.Empty(t, cmp.Diff(before, store.Snapshot()))
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	store, _ := newTestStore(t)

	snap := store.Snapshot()
	snap.Loans[0].Status = types.LoanDeclined
	*snap.Alerts[0].ScoreChange = 0

	fresh := store.Snapshot()
	assert.Equal(t, types.LoanPending, fresh.Loans[0].Status)
	assert.Equal(t, -85, *fresh.Alerts[0].ScoreChange)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < seed.PendingLoanCount; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := store.Dispatch(UpdateLoanStatus{LoanID: id, Status: types.LoanApproved})
			assert.NoError(t, err)
		}(store.Snapshot().Loans[i].ID)
	}
	wg.Wait()

	snap := store.Snapshot()
	for i := 0; i < seed.PendingLoanCount; i++ {
		assert.Equal(t, types.LoanApproved, snap.Loans[i].Status)
	}
}

func TestStore_Lookups(t *testing.T) {
	store, ds := newTestStore(t)

	f, err := store.Farmer("FRM-1001")
	require.NoError(t, err)
	assert.Equal(t, ds.Farmers[0], f)

	_, err = store.Farmer("FRM-0000")
	assert.True(t, types.IsCode(err, types.ErrCodeNotFoundFarmer))

	l, err := store.Loan("LN-2001")
	require.NoError(t, err)
	assert.Equal(t, "LN-2001", l.ID)

	_, err = store.Loan("LN-0000")
	assert.True(t, types.IsCode(err, types.ErrCodeNotFoundLoan))
}

func TestFilterFarmers(t *testing.T) {
	farmers := []types.Farmer{
		{ID: "FRM-1001", Name: "Amara Okonkwo", Location: "Kano", CropCuraScore: 720, RiskLevel: types.RiskLow},
		{ID: "FRM-1002", Name: "Kwame Mensah", Location: "Kaduna", CropCuraScore: 450, RiskLevel: types.RiskHigh},
		{ID: "FRM-1003", Name: "Fatima Ibrahim", Location: "Kumasi", CropCuraScore: 640, RiskLevel: types.RiskMedium},
	}

	got, err := FilterFarmers(farmers, FarmerFilter{Search: "KA"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = FilterFarmers(farmers, FarmerFilter{Search: "frm-1003"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fatima Ibrahim", got[0].Name)

	got, err = FilterFarmers(farmers, FarmerFilter{Risk: "high"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "FRM-1002", got[0].ID)

	got, err = FilterFarmers(farmers, FarmerFilter{Risk: types.FilterAll, SortBy: SortScore})
	require.NoError(t, err)
	assert.Equal(t, []int{720, 640, 450}, []int{got[0].CropCuraScore, got[1].CropCuraScore, got[2].CropCuraScore})

	got, err = FilterFarmers(farmers, FarmerFilter{SortBy: SortName})
	require.NoError(t, err)
	assert.Equal(t, "Amara Okonkwo", got[0].Name)
	assert.Equal(t, "Kwame Mensah", got[2].Name)
	assert.Equal(t, "FRM-1001", farmers[0].ID, "input must keep its order")

	_, err = FilterFarmers(farmers, FarmerFilter{Risk: "extreme"})
	assert.True(t, types.IsCode(err, types.ErrCodeValidationInvalidFilter))
	_, err = FilterFarmers(farmers, FarmerFilter{SortBy: "age"})
	assert.True(t, types.IsCode(err, types.ErrCodeValidationInvalidFilter))
}

func TestFilterLoans(t *testing.T) {
	loans := []types.LoanApplication{
		{ID: "LN-2001", FarmerName: "Amara Okonkwo", Status: types.LoanPending},
		{ID: "LN-2002", FarmerName: "Kwame Mensah", Status: types.LoanApproved},
		{ID: "LN-2003", FarmerName: "Amara Okonkwo", Status: types.LoanApproved},
	}

	got, err := FilterLoans(loans, LoanFilter{Search: "amara", Status: "approved"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LN-2003", got[0].ID)

	got, err = FilterLoans(loans, LoanFilter{Search: "ln-200"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = FilterLoans(loans, LoanFilter{Status: "funded"})
	assert.True(t, types.IsCode(err, types.ErrCodeValidationInvalidFilter))
}

func TestFilterAlerts(t *testing.T) {
	alerts := []types.RiskAlert{
		{ID: "ALT-001", Type: types.AlertCritical},
		{ID: "ALT-002", Type: types.AlertWarning},
		{ID: "ALT-003", Type: types.AlertCritical, IsResolved: true},
	}

	got, err := FilterAlerts(alerts, AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = FilterAlerts(alerts, AlertFilter{Type: "critical", ShowResolved: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = FilterAlerts(alerts, AlertFilter{Type: "critical"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ALT-001", got[0].ID)

	_, err = FilterAlerts(alerts, AlertFilter{Type: "urgent"})
	assert.True(t, types.IsCode(err, types.ErrCodeValidationInvalidFilter))
}

func TestRecommend(t *testing.T) {
	s := types.DefaultSettings()
	assert.Equal(t, "Recommended for Approval", Recommend(700, s).Text)
	assert.Equal(t, "Manual Review Required", Recommend(699, s).Text)
	assert.Equal(t, "Manual Review Required", Recommend(600, s).Text)
	assert.Equal(t, "High Risk - Review Carefully", Recommend(599, s).Text)
}

func TestComputeMetrics(t *testing.T) {
	farmers := []types.Farmer{
		{CropCuraScore: 720, RiskLevel: types.RiskLow},
		{CropCuraScore: 650, RiskLevel: types.RiskMedium},
		{CropCuraScore: 401, RiskLevel: types.RiskHigh},
	}
	s := State{
		Loans: []types.LoanApplication{
			{Status: types.LoanPending}, {Status: types.LoanApproved}, {Status: types.LoanPending},
		},
		Alerts: []types.RiskAlert{
			{ID: "1", Type: types.AlertCritical},
			{ID: "2", Type: types.AlertCritical, IsResolved: true},
			{ID: "3", Type: types.AlertWarning},
			{ID: "4", Type: types.AlertInfo},
			{ID: "5", Type: types.AlertInfo},
			{ID: "6", Type: types.AlertCritical},
		},
	}

	m := ComputeMetrics(farmers, s, seed.ScoreTrends())

	assert.Equal(t, 3, m.TotalFarmers)
	assert.Equal(t, 2, m.PendingApplications)
	assert.Equal(t, 590, m.AverageScore)
	assert.Equal(t, 1, m.HighRiskFarmers)
	assert.Equal(t, 2, m.UnresolvedCriticalAlerts)
	assert.Equal(t, 5, m.UnresolvedAlerts)
	assert.Equal(t, RiskDistribution{Low: 1, Medium: 1, High: 1}, m.RiskDistribution)
	assert.Len(t, m.RecentAlerts, RecentAlertCount)
	assert.Equal(t, "1", m.RecentAlerts[0].ID)
	assert.Len(t, m.ScoreTrends, 6)
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil, State{}, nil)
	assert.Zero(t, m.AverageScore)
	assert.NotNil(t, m.RecentAlerts)
	assert.NotNil(t, m.ScoreTrends)
}
