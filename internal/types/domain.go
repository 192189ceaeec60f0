package types

import "time"

// FieldCoordinate is one polygon vertex. No range validation is applied.
type FieldCoordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Field is a named farm plot outlined by a polygon.
type Field struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Coordinates  []FieldCoordinate `json:"coordinates"`
	HealthStatus HealthStatus      `json:"healthStatus"`
	Area         float64           `json:"area"` // hectares
	CropType     string            `json:"cropType,omitempty"`
	LastUpdated  string            `json:"lastUpdated"`
	Snapshot     string            `json:"snapshot,omitempty"`
}

// CropScan is a read-only point-in-time health observation for a field.
type CropScan struct {
	ID               string        `json:"id"`
	FieldID          string        `json:"fieldId"`
	FieldName        string        `json:"fieldName"`
	ScanDate         string        `json:"scanDate"`
	ImageURL         string        `json:"imageUrl"`
	HealthStatus     HealthStatus  `json:"healthStatus"`
	NDVIScore        float64       `json:"ndviScore"`
	MoistureLevel    MoistureLevel `json:"moistureLevel"`
	PestDetection    bool          `json:"pestDetection"`
	DiseaseDetection string        `json:"diseaseDetection,omitempty"`
	Recommendations  []string      `json:"recommendations"`
}

// Farmer is a borrower registered with the bank.
type Farmer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Region         string    `json:"region"`
	CropType       CropType  `json:"cropType"`
	CropCuraScore  int       `json:"cropCuraScore"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	FarmSize       float64   `json:"farmSize"`
	RegisteredDate string    `json:"registeredDate"`
	LastAssessment string    `json:"lastAssessment"`
	PhoneNumber    string    `json:"phoneNumber"`
	Email          string    `json:"email,omitempty"`
}

// LoanApplication is a farmer's request for credit.
type LoanApplication struct {
	ID              string     `json:"id"`
	FarmerID        string     `json:"farmerId"`
	FarmerName      string     `json:"farmerName"`
	LoanAmount      int        `json:"loanAmount"`
	CropType        CropType   `json:"cropType"`
	CropCuraScore   int        `json:"cropCuraScore"`
	Status          LoanStatus `json:"status"`
	ApplicationDate string     `json:"applicationDate"`
	Purpose         string     `json:"purpose"`
	Term            int        `json:"term"` // months
	InterestRate    float64    `json:"interestRate"`
	FarmSize        float64    `json:"farmSize"`
	Location        string     `json:"location"`
}

// RiskAlert flags a change in a farmer's risk profile.
type RiskAlert struct {
	ID            string    `json:"id"`
	FarmerID      string    `json:"farmerId"`
	FarmerName    string    `json:"farmerName"`
	Type          AlertType `json:"type"`
	Message       string    `json:"message"`
	Timestamp     string    `json:"timestamp"`
	IsResolved    bool      `json:"isResolved"`
	ScoreChange   *int      `json:"scoreChange,omitempty"`
	PreviousScore *int      `json:"previousScore,omitempty"`
	CurrentScore  *int      `json:"currentScore,omitempty"`
}

// NotificationSettings controls how the officer is alerted.
type NotificationSettings struct {
	EmailAlerts  bool `json:"emailAlerts"`
	CriticalOnly bool `json:"criticalOnly"`
	DailyDigest  bool `json:"dailyDigest"`
}

// Settings holds the lending decision thresholds and notification preferences.
type Settings struct {
	AutoApproveThreshold int                  `json:"autoApproveThreshold"`
	ReviewThreshold      int                  `json:"reviewThreshold"`
	AutoDeclineThreshold int                  `json:"autoDeclineThreshold"`
	Notifications        NotificationSettings `json:"notifications"`
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		AutoApproveThreshold: 700,
		ReviewThreshold:      600,
		AutoDeclineThreshold: 500,
		Notifications: NotificationSettings{
			EmailAlerts:  true,
			CriticalOnly: false,
			DailyDigest:  true,
		},
	}
}

// User is the signed-in loan officer profile.
type User struct {
	BankName    string `json:"bankName"`
	LoanOfficer string `json:"loanOfficer"`
	Role        string `json:"role"`
}

// Session is the persisted record of a signed-in user.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ScoreTrend is one month of the portfolio score history chart.
type ScoreTrend struct {
	Month        string `json:"month"`
	AverageScore int    `json:"averageScore"`
	HighRisk     int    `json:"highRisk"`
	LowRisk      int    `json:"lowRisk"`
}

// Notification is a user-facing message produced by a best-effort operation.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// NotificationLevel is the tone of a Notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)
