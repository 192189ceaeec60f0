// Package state holds the mutable lending state of a session (settings, loan
// applications, risk alerts) and the pure reducers that transition it.
package state

import (
	"fmt"

	"cropcura/internal/types"
)

// State is the mutable portion of a session's lending data.
type State struct {
	Settings types.Settings          `json:"settings"`
	Loans    []types.LoanApplication `json:"loans"`
	Alerts   []types.RiskAlert       `json:"alerts"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Settings: s.Settings,
		Loans:    make([]types.LoanApplication, len(s.Loans)),
		Alerts:   make([]types.RiskAlert, len(s.Alerts)),
	}
	copy(out.Loans, s.Loans)
	for i, a := range s.Alerts {
		a.ScoreChange = cloneInt(a.ScoreChange)
		a.PreviousScore = cloneInt(a.PreviousScore)
		a.CurrentScore = cloneInt(a.CurrentScore)
		out.Alerts[i] = a
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Action is a state transition understood by Reduce.
type Action interface {
	apply(State) (State, error)
}

// UpdateLoanStatus records an officer decision on a loan application.
type UpdateLoanStatus struct {
	LoanID string
	Status types.LoanStatus
}

// ResolveAlert marks a single alert resolved.
type ResolveAlert struct {
	AlertID string
}

// UpdateSettings merges a partial settings change.
type UpdateSettings struct {
	Patch SettingsPatch
}

// ResetDemo replaces the state with the seeded values.
type ResetDemo struct {
	Initial State
}

// SettingsPatch is a partial Settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	AutoApproveThreshold *int                       `json:"autoApproveThreshold,omitempty"`
	ReviewThreshold      *int                       `json:"reviewThreshold,omitempty"`
	AutoDeclineThreshold *int                       `json:"autoDeclineThreshold,omitempty"`
	Notifications        *NotificationSettingsPatch `json:"notifications,omitempty"`
}

// NotificationSettingsPatch is a partial NotificationSettings update.
type NotificationSettingsPatch struct {
	EmailAlerts  *bool `json:"emailAlerts,omitempty"`
	CriticalOnly *bool `json:"criticalOnly,omitempty"`
	DailyDigest  *bool `json:"dailyDigest,omitempty"`
}

// Reduce applies a to s and returns the next state. s is never modified; on
// error the returned state is the zero value and the caller keeps s.
func Reduce(s State, a Action) (State, error) {
	if a == nil {
		return State{}, types.NewAppError(types.ErrCodeInternalUnexpected, "nil action", nil)
	}
	return a.apply(s)
}

func (a UpdateLoanStatus) apply(s State) (State, error) {
	if !a.Status.IsDecision() {
		return State{}, types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidStatus,
			"status must be approved or declined",
			nil,
			map[string]any{"status": string(a.Status)},
		)
	}
	idx := -1
	for i, l := range s.Loans {
		if l.ID == a.LoanID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return State{}, types.NewAppError(types.ErrCodeNotFoundLoan, fmt.Sprintf("loan %s not found", a.LoanID), nil)
	}
	next := s.Clone()
	next.Loans[idx].Status = a.Status
	return next, nil
}

func (a ResolveAlert) apply(s State) (State, error) {
	idx := -1
	for i, al := range s.Alerts {
		if al.ID == a.AlertID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return State{}, types.NewAppError(types.ErrCodeNotFoundAlert, fmt.Sprintf("alert %s not found", a.AlertID), nil)
	}
	next := s.Clone()
	next.Alerts[idx].IsResolved = true
	return next, nil
}

func (a UpdateSettings) apply(s State) (State, error) {
	merged := a.Patch.Merge(s.Settings)
	if err := ValidateSettings(merged); err != nil {
		return State{}, err
	}
	next := s.Clone()
	next.Settings = merged
	return next, nil
}

func (a ResetDemo) apply(State) (State, error) {
	return a.Initial.Clone(), nil
}

// Merge overlays the non-nil patch fields onto base.
func (p SettingsPatch) Merge(base types.Settings) types.Settings {
	out := base
	if p.AutoApproveThreshold != nil {
		out.AutoApproveThreshold = *p.AutoApproveThreshold
	}
	if p.ReviewThreshold != nil {
		out.ReviewThreshold = *p.ReviewThreshold
	}
	if p.AutoDeclineThreshold != nil {
		out.AutoDeclineThreshold = *p.AutoDeclineThreshold
	}
	if n := p.Notifications; n != nil {
		if n.EmailAlerts != nil {
			out.Notifications.EmailAlerts = *n.EmailAlerts
		}
		if n.CriticalOnly != nil {
			out.Notifications.CriticalOnly = *n.CriticalOnly
		}
		if n.DailyDigest != nil {
			out.Notifications.DailyDigest = *n.DailyDigest
		}
	}
	return out
}

// ValidateSettings enforces MinScore <= decline < review < approve <= MaxScore.
func ValidateSettings(s types.Settings) error {
	details := map[string]any{
		"autoApproveThreshold": s.AutoApproveThreshold,
		"reviewThreshold":      s.ReviewThreshold,
		"autoDeclineThreshold": s.AutoDeclineThreshold,
	}
	if s.AutoDeclineThreshold < types.MinScore || s.AutoApproveThreshold > types.MaxScore {
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationThresholdRange,
			fmt.Sprintf("thresholds must be between %d and %d", types.MinScore, types.MaxScore),
			nil, details,
		)
	}
	if !(s.AutoDeclineThreshold < s.ReviewThreshold && s.ReviewThreshold < s.AutoApproveThreshold) {
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationThresholdOrder,
			"thresholds must satisfy auto-decline < review < auto-approve",
			nil, details,
		)
	}
	return nil
}
