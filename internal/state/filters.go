package state

import (
	"cmp"
	"slices"
	"strings"

	"cropcura/internal/types"
)

// Farmer sort orders.
const (
	SortDefault = ""
	SortScore   = "score"
	SortName    = "name"
)

// FarmerFilter narrows the farmer directory.
type FarmerFilter struct {
	Search string
	Risk   string
	SortBy string
}

// LoanFilter narrows the loan application list.
type LoanFilter struct {
	Search string
	Status string
}

// AlertFilter narrows the alert list.
type AlertFilter struct {
	Type         string
	ShowResolved bool
}

func invalidFilter(name, value string) error {
	return types.NewAppErrorWithDetails(
		types.ErrCodeValidationInvalidFilter,
		"invalid value for filter "+name,
		nil,
		map[string]any{"filter": name, "value": value},
	)
}

func matchesAny(search string, values ...string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// FilterFarmers applies f to farmers. The input is not modified.
func FilterFarmers(farmers []types.Farmer, f FarmerFilter) ([]types.Farmer, error) {
	if f.Risk != "" && f.Risk != types.FilterAll && !types.RiskLevel(f.Risk).Valid() {
		return nil, invalidFilter("risk", f.Risk)
	}
	out := make([]types.Farmer, 0, len(farmers))
	for _, farmer := range farmers {
		if !matchesAny(f.Search, farmer.Name, farmer.Location, farmer.ID) {
			continue
		}
		if f.Risk != "" && f.Risk != types.FilterAll && string(farmer.RiskLevel) != f.Risk {
			continue
		}
		out = append(out, farmer)
	}

	switch f.SortBy {
	case SortDefault:
	case SortScore:
		slices.SortStableFunc(out, func(a, b types.Farmer) int {
			return cmp.Compare(b.CropCuraScore, a.CropCuraScore)
		})
	case SortName:
		slices.SortStableFunc(out, func(a, b types.Farmer) int {
			return strings.Compare(a.Name, b.Name)
		})
	default:
		return nil, invalidFilter("sort", f.SortBy)
	}
	return out, nil
}

// FilterLoans applies f to loans.
func FilterLoans(loans []types.LoanApplication, f LoanFilter) ([]types.LoanApplication, error) {
	if f.Status != "" && f.Status != types.FilterAll && !types.LoanStatus(f.Status).Valid() {
		return nil, invalidFilter("status", f.Status)
	}
	out := make([]types.LoanApplication, 0, len(loans))
	for _, l := range loans {
		if !matchesAny(f.Search, l.FarmerName, l.ID) {
			continue
		}
		if f.Status != "" && f.Status != types.FilterAll && string(l.Status) != f.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// FilterAlerts applies f to alerts. Resolved alerts are hidden unless
// ShowResolved is set.
func FilterAlerts(alerts []types.RiskAlert, f AlertFilter) ([]types.RiskAlert, error) {
	if f.Type != "" && f.Type != types.FilterAll && !types.AlertType(f.Type).Valid() {
		return nil, invalidFilter("type", f.Type)
	}
	out := make([]types.RiskAlert, 0, len(alerts))
	for _, a := range alerts {
		if f.Type != "" && f.Type != types.FilterAll && string(a.Type) != f.Type {
			continue
		}
		if a.IsResolved && !f.ShowResolved {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Recommendation is the suggested action for a loan given the current
// thresholds.
type Recommendation struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// Recommend classifies a score against the settings thresholds.
func Recommend(score int, s types.Settings) Recommendation {
	switch {
	case score >= s.AutoApproveThreshold:
		return Recommendation{Text: "Recommended for Approval", Tone: "success"}
	case score >= s.ReviewThreshold:
		return Recommendation{Text: "Manual Review Required", Tone: "warning"}
	default:
		return Recommendation{Text: "High Risk - Review Carefully", Tone: "destructive"}
	}
}
