// Package fieldmap produces everything a map client needs to paint the field
// screen: polygon styles, popups, viewport commands, list cards, and the
// drawing-mode state machine. Nothing here talks to a real map widget.
package fieldmap

import (
	"strings"

	"cropcura/internal/types"
)

// Palette for health status and map chrome.
const (
	ColorHealthy   = "#22c55e"
	ColorModerate  = "#eab308"
	ColorUnhealthy = "#ef4444"
	ColorUnknown   = "#6b7280"

	ColorHighlight = "#ffffff"
	ColorDrawing   = "#3b82f6"
)

// Stroke weights and fill opacities.
const (
	weightNormal      = 2
	weightHighlighted = 4

	fillNormal      = 0.5
	fillHighlighted = 0.7
	fillDrawing     = 0.3
)

// HealthColor maps a status to its display colour. Unknown values map to gray.
func HealthColor(status types.HealthStatus) string {
	switch status {
	case types.HealthHealthy:
		return ColorHealthy
	case types.HealthModerate:
		return ColorModerate
	case types.HealthUnhealthy:
		return ColorUnhealthy
	default:
		return ColorUnknown
	}
}

// HealthLabel capitalises a status for display ("moderate" -> "Moderate").
func HealthLabel(status types.HealthStatus) string {
	s := string(status)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HealthBadge is a coloured status label.
type HealthBadge struct {
	Status types.HealthStatus `json:"status"`
	Label  string             `json:"label"`
	Color  string             `json:"color"`
}

// BadgeFor builds the badge shown on cards and popups.
func BadgeFor(status types.HealthStatus) HealthBadge {
	return HealthBadge{Status: status, Label: HealthLabel(status), Color: HealthColor(status)}
}

// PolygonStyle is the stroke and fill of one rendered polygon.
type PolygonStyle struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      int     `json:"weight"`
}

// StyleFor returns the style for a field polygon. Fill always carries the
// status colour; highlight only changes stroke, weight and opacity.
func StyleFor(status types.HealthStatus, highlighted bool) PolygonStyle {
	color := HealthColor(status)
	if highlighted {
		return PolygonStyle{Color: ColorHighlight, FillColor: color, FillOpacity: fillHighlighted, Weight: weightHighlighted}
	}
	return PolygonStyle{Color: color, FillColor: color, FillOpacity: fillNormal, Weight: weightNormal}
}

// DrawingStyle is the style of the in-progress drawn shape.
func DrawingStyle() PolygonStyle {
	return PolygonStyle{Color: ColorDrawing, FillColor: ColorDrawing, FillOpacity: fillDrawing, Weight: weightNormal}
}

// LegendEntry is one row of the crop-health legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend returns the static crop-health legend.
func Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(types.HealthStatuses))
	for _, s := range types.HealthStatuses {
		out = append(out, LegendEntry{Label: HealthLabel(s), Color: HealthColor(s)})
	}
	return out
}
