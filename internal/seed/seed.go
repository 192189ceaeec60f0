// Package seed generates the demo dataset a session starts from: farmers,
// loan applications, risk alerts, fields, and crop scans.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"cropcura/internal/types"
)

// Dataset sizes.
const (
	FarmerCount      = 55
	LoanCount        = 42
	PendingLoanCount = 20

	firstFarmerNumber = 1001
	firstLoanNumber   = 2001
)

// FarmerScan ties a scan to the farmer who owns the scanned field.
type FarmerScan struct {
	FarmerID string         `json:"farmerId" yaml:"farmerId"`
	Scan     types.CropScan `json:"scan" yaml:"scan"`
}

// Dataset is one generated demo world.
type Dataset struct {
	Farmers      []types.Farmer           `json:"farmers" yaml:"farmers"`
	Loans        []types.LoanApplication  `json:"loans" yaml:"loans"`
	Alerts       []types.RiskAlert        `json:"alerts" yaml:"alerts"`
	Fields       []types.Field            `json:"fields" yaml:"fields"`
	FarmerFields map[string][]types.Field `json:"farmerFields" yaml:"farmerFields"`
	Scans        []FarmerScan             `json:"scans" yaml:"scans"`
	ScoreTrends  []types.ScoreTrend       `json:"scoreTrends" yaml:"scoreTrends"`
}

// Options controls generation. Equal seeds and clocks produce equal datasets
// when the default scorer is used.
type Options struct {
	Seed   uint64
	Clock  types.Clock
	Scorer Scorer
}

// Generate builds a dataset.
func Generate(opts Options) Dataset {
	clock := opts.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = NewRandomScorer(opts.Seed)
	}
	g := &generator{
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed)),
		now:    clock.Now().UTC(),
		scorer: scorer,
	}

	farmers := g.farmers()
	ds := Dataset{
		Farmers:      farmers,
		Loans:        g.loans(farmers),
		Alerts:       g.alerts(farmers),
		Fields:       officerFields(),
		FarmerFields: farmerFields(),
		ScoreTrends:  ScoreTrends(),
	}
	ds.Scans = g.scans(ds.FarmerFields)
	return ds
}

type generator struct {
	rng    *rand.Rand
	now    time.Time
	scorer Scorer
}

// date returns the calendar date daysAgo days before now, as YYYY-MM-DD.
func (g *generator) date(daysAgo int) string {
	return g.now.AddDate(0, 0, -daysAgo).Format(time.DateOnly)
}

func (g *generator) farmers() []types.Farmer {
	out := make([]types.Farmer, 0, FarmerCount)
	for i := 0; i < FarmerCount; i++ {
		score := g.scorer.Score()
		loc := locations[g.rng.IntN(len(locations))]
		first := firstNames[i%len(firstNames)]
		f := types.Farmer{
			ID:             fmt.Sprintf("FRM-%04d", i+firstFarmerNumber),
			Name:           first + " " + lastNames[i%len(lastNames)],
			Location:       loc.name,
			Region:         loc.region,
			CropType:       types.CropTypes[g.rng.IntN(len(types.CropTypes))],
			CropCuraScore:  score,
			RiskLevel:      types.RiskForScore(score),
			FarmSize:       float64(g.rng.IntN(45) + 5),
			RegisteredDate: g.date(g.rng.IntN(365) + 30),
			LastAssessment: g.date(g.rng.IntN(30)),
			PhoneNumber:    fmt.Sprintf("+234%d", g.rng.Int64N(9_000_000_000)+1_000_000_000),
		}
		if g.rng.Float64() > 0.4 {
			f.Email = strings.ToLower(first) + "@email.com"
		}
		out = append(out, f)
	}
	return out
}

func (g *generator) loans(farmers []types.Farmer) []types.LoanApplication {
	statuses := []types.LoanStatus{types.LoanPending, types.LoanApproved, types.LoanDeclined, types.LoanUnderReview}
	out := make([]types.LoanApplication, 0, LoanCount)
	for i := 0; i < LoanCount; i++ {
		f := farmers[g.rng.IntN(len(farmers))]
		status := types.LoanPending
		if i >= PendingLoanCount {
			status = statuses[g.rng.IntN(len(statuses))]
		}
		out = append(out, types.LoanApplication{
			ID:              fmt.Sprintf("LN-%04d", i+firstLoanNumber),
			FarmerID:        f.ID,
			FarmerName:      f.Name,
			LoanAmount:      (g.rng.IntN(90) + 10) * 1000,
			CropType:        f.CropType,
			CropCuraScore:   f.CropCuraScore,
			Status:          status,
			ApplicationDate: g.date(g.rng.IntN(60)),
			Purpose:         loanPurposes[g.rng.IntN(len(loanPurposes))],
			Term:            loanTerms[g.rng.IntN(len(loanTerms))],
			InterestRate:    float64(g.rng.IntN(8) + 8),
			FarmSize:        f.FarmSize,
			Location:        f.Location,
		})
	}
	return out
}

func intp(v int) *int { return &v }

type alertSpec struct {
	farmerIndex int
	kind        types.AlertType
	message     string
	hoursAgo    int
	resolved    bool
	change      *int
	previous    *int
	current     *int
}

var alertSpecs = []alertSpec{
	{2, types.AlertCritical, "CropCura Score dropped below 500. Immediate review required.", 2, false, intp(-85), intp(582), intp(497)},
	{6, types.AlertCritical, "Crop failure detected via satellite imagery. High risk of default.", 4, false, nil, nil, nil},
	{11, types.AlertWarning, "Score trending downward for 3 consecutive assessments.", 8, false, intp(-45), intp(680), intp(635)},
	{17, types.AlertWarning, "Unusual weather patterns detected in farming region.", 12, false, nil, nil, nil},
	{24, types.AlertInfo, "New crop cycle started. Score reassessment scheduled.", 24, false, nil, nil, nil},
	{29, types.AlertInfo, "Farm size expansion detected. Positive growth indicator.", 36, true, nil, nil, nil},
	{7, types.AlertCritical, "Payment overdue by 30+ days. Collections review needed.", 1, false, nil, nil, nil},
	{41, types.AlertWarning, "Irrigation system malfunction reported. Monitoring impact.", 6, false, nil, nil, nil},
}

func (g *generator) alerts(farmers []types.Farmer) []types.RiskAlert {
	out := make([]types.RiskAlert, 0, len(alertSpecs))
	for i, spec := range alertSpecs {
		f := farmers[spec.farmerIndex]
		out = append(out, types.RiskAlert{
			ID:            fmt.Sprintf("ALT-%03d", i+1),
			FarmerID:      f.ID,
			FarmerName:    f.Name,
			Type:          spec.kind,
			Message:       spec.message,
			Timestamp:     g.now.Add(-time.Duration(spec.hoursAgo) * time.Hour).Format(time.RFC3339),
			IsResolved:    spec.resolved,
			ScoreChange:   spec.change,
			PreviousScore: spec.previous,
			CurrentScore:  spec.current,
		})
	}
	return out
}

// scans produces one recent scan per farmer field, consistent with the
// field's health status.
func (g *generator) scans(byFarmer map[string][]types.Field) []FarmerScan {
	var out []FarmerScan
	for i := 0; i < FarmerCount; i++ {
		farmerID := fmt.Sprintf("FRM-%04d", i+firstFarmerNumber)
		for _, f := range byFarmer[farmerID] {
			n := len(out) + 1
			out = append(out, FarmerScan{FarmerID: farmerID, Scan: g.scan(n, f)})
		}
	}
	return out
}

func (g *generator) scan(n int, f types.Field) types.CropScan {
	s := types.CropScan{
		ID:              fmt.Sprintf("SCN-%03d", n),
		FieldID:         f.ID,
		FieldName:       f.Name,
		ScanDate:        g.date(g.rng.IntN(14)),
		ImageURL:        fmt.Sprintf("https://images.cropcura.example/scans/SCN-%03d.jpg", n),
		HealthStatus:    f.HealthStatus,
		Recommendations: append([]string(nil), recommendationsByHealth[string(f.HealthStatus)]...),
	}
	switch f.HealthStatus {
	case types.HealthHealthy:
		s.NDVIScore = 0.70 + float64(g.rng.IntN(16))/100
		s.MoistureLevel = types.MoistureOptimal
	case types.HealthModerate:
		s.NDVIScore = 0.50 + float64(g.rng.IntN(20))/100
		s.MoistureLevel = types.MoistureLow
	default:
		s.NDVIScore = 0.30 + float64(g.rng.IntN(20))/100
		s.MoistureLevel = types.MoistureHigh
		s.PestDetection = true
		s.DiseaseDetection = "Leaf blight symptoms on roughly a fifth of the canopy"
	}
	return s
}
