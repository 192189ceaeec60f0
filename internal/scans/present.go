package scans

import (
	"fmt"
	"math"
	"strings"

	"cropcura/internal/fieldmap"
	"cropcura/internal/types"
)

// MaxRecommendations is how many recommendations a scan card lists before
// collapsing the rest into "+N more".
const MaxRecommendations = 3

// Empty-state copy.
const (
	EmptyTitle = "No Crop Scans Available"
	EmptyHint  = "Crop health scans will appear here once satellite imagery analysis is performed on the fields."
)

// Tone is a coarse colour hint for a metric.
type Tone string

const (
	ToneGood    Tone = "good"
	ToneFair    Tone = "fair"
	TonePoor    Tone = "poor"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
)

// NDVI tone thresholds.
const (
	ndviGood = 0.7
	ndviFair = 0.5
)

// ScanView is one formatted scan card.
type ScanView struct {
	ID                  string               `json:"id"`
	FieldID             string               `json:"fieldId"`
	FieldName           string               `json:"fieldName"`
	Scanned             string               `json:"scanned"`
	ImageURL            string               `json:"imageUrl"`
	ImageAlt            string               `json:"imageAlt"`
	Health              fieldmap.HealthBadge `json:"health"`
	NDVI                string               `json:"ndvi"`
	NDVITone            Tone                 `json:"ndviTone"`
	Moisture            string               `json:"moisture"`
	MoistureTone        Tone                 `json:"moistureTone"`
	PestBadge           string               `json:"pestBadge,omitempty"`
	Disease             string               `json:"disease,omitempty"`
	Recommendations     []string             `json:"recommendations"`
	MoreRecommendations string               `json:"moreRecommendations,omitempty"`
}

// Presentation is the formatted scan panel.
type Presentation struct {
	Summary string               `json:"summary,omitempty"`
	Scans   []ScanView           `json:"scans"`
	Empty   *fieldmap.EmptyState `json:"empty,omitempty"`
}

// NDVILabel formats an NDVI score as a whole percentage ("NDVI: 72%").
func NDVILabel(score float64) string {
	return fmt.Sprintf("NDVI: %d%%", int(math.Round(score*100)))
}

// NDVITone grades an NDVI score.
func NDVITone(score float64) Tone {
	switch {
	case score >= ndviGood:
		return ToneGood
	case score >= ndviFair:
		return ToneFair
	default:
		return TonePoor
	}
}

// MoistureLabel capitalises a moisture level ("optimal" -> "Optimal Moisture").
func MoistureLabel(level types.MoistureLevel) string {
	s := string(level)
	if s == "" {
		return "Unknown Moisture"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Moisture"
}

func moistureTone(level types.MoistureLevel) Tone {
	switch level {
	case types.MoistureOptimal:
		return ToneGood
	case types.MoistureLow:
		return ToneWarning
	default:
		return ToneInfo
	}
}

// Truncate keeps the first max recommendations and reports how many were cut.
func Truncate(recs []string, max int) ([]string, int) {
	if len(recs) <= max {
		return append([]string{}, recs...), 0
	}
	return append([]string{}, recs[:max]...), len(recs) - max
}

// Present formats scans for display.
func Present(scans []types.CropScan) Presentation {
	if len(scans) == 0 {
		return Presentation{
			Scans: []ScanView{},
			Empty: &fieldmap.EmptyState{Title: EmptyTitle, Hint: EmptyHint},
		}
	}

	views := make([]ScanView, 0, len(scans))
	for _, s := range scans {
		recs, more := Truncate(s.Recommendations, MaxRecommendations)
		v := ScanView{
			ID:              s.ID,
			FieldID:         s.FieldID,
			FieldName:       s.FieldName,
			Scanned:         "Scanned " + s.ScanDate,
			ImageURL:        s.ImageURL,
			ImageAlt:        "Scan of " + s.FieldName,
			Health:          fieldmap.BadgeFor(s.HealthStatus),
			NDVI:            NDVILabel(s.NDVIScore),
			NDVITone:        NDVITone(s.NDVIScore),
			Moisture:        MoistureLabel(s.MoistureLevel),
			MoistureTone:    moistureTone(s.MoistureLevel),
			Disease:         s.DiseaseDetection,
			Recommendations: recs,
		}
		if s.PestDetection {
			v.PestBadge = "Pests Detected"
		}
		if more > 0 {
			v.MoreRecommendations = fmt.Sprintf("+%d more", more)
		}
		views = append(views, v)
	}

	summary := fmt.Sprintf("%d scan from satellite imagery analysis", len(scans))
	if len(scans) != 1 {
		summary = fmt.Sprintf("%d scans from satellite imagery analysis", len(scans))
	}
	return Presentation{Summary: summary, Scans: views}
}
