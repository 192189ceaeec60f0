package types

// HealthStatus is the crop-health classification of a field or scan.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthModerate  HealthStatus = "moderate"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthStatuses lists the statuses in display order.
var HealthStatuses = []HealthStatus{HealthHealthy, HealthModerate, HealthUnhealthy}

// Valid reports whether h is one of the known statuses.
func (h HealthStatus) Valid() bool {
	switch h {
	case HealthHealthy, HealthModerate, HealthUnhealthy:
		return true
	}
	return false
}

// MoistureLevel is the soil moisture bucket reported by a crop scan.
type MoistureLevel string

const (
	MoistureLow     MoistureLevel = "low"
	MoistureOptimal MoistureLevel = "optimal"
	MoistureHigh    MoistureLevel = "high"
)

// CropType identifies the primary crop grown by a farmer.
type CropType string

const (
	CropMaize    CropType = "maize"
	CropRice     CropType = "rice"
	CropCassava  CropType = "cassava"
	CropWheat    CropType = "wheat"
	CropSoybeans CropType = "soybeans"
)

// CropTypes lists every crop type the seed generator draws from.
var CropTypes = []CropType{CropMaize, CropRice, CropCassava, CropWheat, CropSoybeans}

// RiskLevel is derived from a farmer's CropCura score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Score bounds and risk cut-offs for CropCura scores.
const (
	MinScore           = 250
	MaxScore           = 850
	LowRiskMinScore    = 700
	MediumRiskMinScore = 600
)

// RiskForScore maps a CropCura score to its risk level.
func RiskForScore(score int) RiskLevel {
	switch {
	case score >= LowRiskMinScore:
		return RiskLow
	case score >= MediumRiskMinScore:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Valid reports whether r is one of the known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// LoanStatus is the lifecycle state of a loan application.
type LoanStatus string

const (
	LoanPending     LoanStatus = "pending"
	LoanApproved    LoanStatus = "approved"
	LoanDeclined    LoanStatus = "declined"
	LoanUnderReview LoanStatus = "under_review"
)

// Valid reports whether s is one of the known statuses.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanDeclined, LoanUnderReview:
		return true
	}
	return false
}

// IsDecision reports whether s is a terminal officer decision.
func (s LoanStatus) IsDecision() bool {
	return s == LoanApproved || s == LoanDeclined
}

// AlertType is the severity of a risk alert.
type AlertType string

const (
	AlertCritical AlertType = "critical"
	AlertWarning  AlertType = "warning"
	AlertInfo     AlertType = "info"
)

// Valid reports whether t is one of the known alert types.
func (t AlertType) Valid() bool {
	switch t {
	case AlertCritical, AlertWarning, AlertInfo:
		return true
	}
	return false
}

// FilterAll is the sentinel filter value that disables a categorical filter.
const FilterAll = "all"
