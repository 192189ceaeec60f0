package state

import (
	"math"

	"cropcura/internal/types"
)

// RecentAlertCount is the number of alerts shown in the dashboard feed.
const RecentAlertCount = 5

// RiskDistribution counts farmers per risk level.
type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// DashboardMetrics is the dashboard landing page payload.
type DashboardMetrics struct {
	TotalFarmers             int                `json:"totalFarmers"`
	PendingApplications      int                `json:"pendingApplications"`
	AverageScore             int                `json:"averageScore"`
	HighRiskFarmers          int                `json:"highRiskFarmers"`
	UnresolvedCriticalAlerts int                `json:"unresolvedCriticalAlerts"`
	UnresolvedAlerts         int                `json:"unresolvedAlerts"`
	RiskDistribution         RiskDistribution   `json:"riskDistribution"`
	RecentAlerts             []types.RiskAlert  `json:"recentAlerts"`
	ScoreTrends              []types.ScoreTrend `json:"scoreTrends"`
}

// ComputeMetrics derives dashboard metrics. Pending and alert counts are
// computed from the live state.
func ComputeMetrics(farmers []types.Farmer, s State, trends []types.ScoreTrend) DashboardMetrics {
	m := DashboardMetrics{
		TotalFarmers: len(farmers),
		ScoreTrends:  append([]types.ScoreTrend{}, trends...),
	}

	total := 0
	for _, f := range farmers {
		total += f.CropCuraScore
		switch f.RiskLevel {
		case types.RiskLow:
			m.RiskDistribution.Low++
		case types.RiskMedium:
			m.RiskDistribution.Medium++
		case types.RiskHigh:
			m.RiskDistribution.High++
		}
	}
	m.HighRiskFarmers = m.RiskDistribution.High
	if len(farmers) > 0 {
		m.AverageScore = int(math.Round(float64(total) / float64(len(farmers))))
	}

	for _, l := range s.Loans {
		if l.Status == types.LoanPending {
			m.PendingApplications++
		}
	}
	for _, a := range s.Alerts {
		if a.IsResolved {
			continue
		}
		m.UnresolvedAlerts++
		if a.Type == types.AlertCritical {
			m.UnresolvedCriticalAlerts++
		}
	}

	n := min(RecentAlertCount, len(s.Alerts))
	m.RecentAlerts = append([]types.RiskAlert{}, s.Alerts[:n]...)
	return m
}
