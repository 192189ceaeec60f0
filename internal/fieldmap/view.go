package fieldmap

import (
	"fmt"
	"sync"

	"cropcura/internal/geo"
	"cropcura/internal/types"
)

// Mode is the map interaction mode.
type Mode string

const (
	ModeDisplay Mode = "display"
	ModeDrawing Mode = "drawing"
)

// FitBoundsPadding is the pixel padding applied when fitting all fields.
const FitBoundsPadding = 50

// ViewportKind names a viewport command.
type ViewportKind string

const (
	ViewportFitBounds ViewportKind = "fitBounds"
	ViewportPanTo     ViewportKind = "panTo"
)

// ViewportCommand tells the client how to move the map. PanTo never changes zoom.
type ViewportCommand struct {
	Kind      ViewportKind           `json:"kind"`
	Bounds    *geo.Bounds            `json:"bounds,omitempty"`
	PaddingPx int                    `json:"paddingPx,omitempty"`
	Center    *types.FieldCoordinate `json:"center,omitempty"`
}

// PolygonLayer is one rendered field polygon.
type PolygonLayer struct {
	FieldID     string                  `json:"fieldId"`
	Coordinates []types.FieldCoordinate `json:"coordinates"`
	Style       PolygonStyle            `json:"style"`
	Highlighted bool                    `json:"highlighted"`
}

// DrawnShape is the polygon the officer has drawn but not yet saved.
type DrawnShape struct {
	Coordinates []types.FieldCoordinate `json:"coordinates"`
	Style       PolygonStyle            `json:"style"`
}

// Popup is the info window opened for a clicked or selected field.
type Popup struct {
	FieldID string        `json:"fieldId"`
	Name    string        `json:"name"`
	Health  HealthBadge   `json:"health"`
	Area    string        `json:"area"`
	Crop    string        `json:"crop"`
	Updated string        `json:"updated"`
	Legend  []LegendEntry `json:"legend"`
}

// Frame is everything the client needs to paint the map once.
type Frame struct {
	Mode       Mode             `json:"mode"`
	Layers     []PolygonLayer   `json:"layers"`
	Viewport   *ViewportCommand `json:"viewport,omitempty"`
	Popup      *Popup           `json:"popup,omitempty"`
	Legend     []LegendEntry    `json:"legend,omitempty"`
	DrawnShape *DrawnShape      `json:"drawnShape,omitempty"`
	Tool       *ToolOptions     `json:"tool,omitempty"`
}

// PopupFor builds the popup for a field.
func PopupFor(f types.Field) Popup {
	crop := f.CropType
	if crop == "" {
		crop = "Mixed"
	}
	return Popup{
		FieldID: f.ID,
		Name:    f.Name,
		Health:  BadgeFor(f.HealthStatus),
		Area:    fmt.Sprintf("%.1f ha", f.Area),
		Crop:    crop,
		Updated: f.LastUpdated,
		Legend:  Legend(),
	}
}

// ViewportFor decides the viewport command for a field set and selection.
//
// Nothing hovered or selected fits every vertex. A hovered field that is not
// the selected one is panned to. Anything else leaves the viewport alone.
func ViewportFor(fields []types.Field, snap SelectionSnapshot) *ViewportCommand {
	if len(fields) == 0 {
		return nil
	}
	if snap.Idle() {
		outlines := make([][]types.FieldCoordinate, 0, len(fields))
		for _, f := range fields {
			outlines = append(outlines, f.Coordinates)
		}
		b, ok := geo.BoundsOfAll(outlines)
		if !ok {
			return nil
		}
		return &ViewportCommand{Kind: ViewportFitBounds, Bounds: &b, PaddingPx: FitBoundsPadding}
	}
	if snap.HoveredID != "" && snap.HoveredID != snap.SelectedID() {
		for _, f := range fields {
			if f.ID != snap.HoveredID {
				continue
			}
			b, ok := geo.BoundsOf(f.Coordinates)
			if !ok {
				return nil
			}
			center := b.Center()
			return &ViewportCommand{Kind: ViewportPanTo, Center: &center}
		}
	}
	return nil
}

// View is the field map. It owns the drawing tool lifecycle and reads the
// shared Selection for highlight state.
type View struct {
	mu sync.Mutex

	selection *Selection
	newTool   ToolFactory
	tool      DrawingTool
	drawn     []types.FieldCoordinate

	onPolygon func(coords []types.FieldCoordinate)
}

// NewView creates a map view in display mode. onPolygon receives every
// committed outline and an empty slice on clear; it may be nil.
func NewView(selection *Selection, factory ToolFactory, onPolygon func([]types.FieldCoordinate)) *View {
	if factory == nil {
		factory = NewRemoteTool
	}
	return &View{selection: selection, newTool: factory, onPolygon: onPolygon}
}

// Selection returns the shared selection the view reads.
func (v *View) Selection() *Selection {
	return v.selection
}

// Mode returns the current interaction mode.
func (v *View) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.tool != nil {
		return ModeDrawing
	}
	return ModeDisplay
}

// EnableDrawing creates the drawing tool. Calling it again while drawing is
// active does nothing.
func (v *View) EnableDrawing() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.tool != nil {
		return nil
	}
	tool, err := v.newTool(PolygonOnlyOptions())
	if err != nil {
		return fmt.Errorf("create drawing tool: %w", err)
	}
	tool.Attach(v)
	v.tool = tool
	return nil
}

// DisableDrawing tears the tool down and discards any uncommitted shape.
func (v *View) DisableDrawing() error {
	v.mu.Lock()
	tool := v.tool
	v.tool = nil
	v.drawn = nil
	v.mu.Unlock()

	if tool == nil {
		return nil
	}
	return tool.Close()
}

// Tool returns the active drawing tool.
func (v *View) Tool() (DrawingTool, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tool, v.tool != nil
}

// Drawn returns a copy of the in-progress polygon.
func (v *View) Drawn() []types.FieldCoordinate {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]types.FieldCoordinate(nil), v.drawn...)
}

// OnPolygonCommitted replaces any previous shape with the new one.
func (v *View) OnPolygonCommitted(coords []types.FieldCoordinate) {
	cp := append([]types.FieldCoordinate{}, coords...)
	v.mu.Lock()
	v.drawn = cp
	cb := v.onPolygon
	v.mu.Unlock()

	if cb != nil {
		cb(append([]types.FieldCoordinate{}, cp...))
	}
}

// OnPolygonCleared drops the shape and reports an empty outline.
func (v *View) OnPolygonCleared() {
	v.mu.Lock()
	v.drawn = nil
	cb := v.onPolygon
	v.mu.Unlock()

	if cb != nil {
		cb([]types.FieldCoordinate{})
	}
}

// Click selects a field and returns its popup.
func (v *View) Click(fields []types.Field, fieldID string) (Popup, bool) {
	for _, f := range fields {
		if f.ID == fieldID {
			v.selection.Select(f)
			return PopupFor(f), true
		}
	}
	return Popup{}, false
}

// Render paints the fields. Field polygons are drawn in both modes; viewport
// movement, popups and the legend only happen in display mode.
func (v *View) Render(fields []types.Field) Frame {
	snap := v.selection.Snapshot()

	v.mu.Lock()
	drawing := v.tool != nil
	var tool *ToolOptions
	if drawing {
		opts := v.tool.Options()
		tool = &opts
	}
	drawn := append([]types.FieldCoordinate(nil), v.drawn...)
	v.mu.Unlock()

	frame := Frame{Mode: ModeDisplay, Layers: make([]PolygonLayer, 0, len(fields))}
	for _, f := range fields {
		hl := snap.IsHighlighted(f.ID)
		frame.Layers = append(frame.Layers, PolygonLayer{
			FieldID:     f.ID,
			Coordinates: f.Coordinates,
			Style:       StyleFor(f.HealthStatus, hl),
			Highlighted: hl,
		})
	}

	if drawing {
		frame.Mode = ModeDrawing
		frame.Tool = tool
		if len(drawn) > 0 {
			frame.DrawnShape = &DrawnShape{Coordinates: drawn, Style: DrawingStyle()}
		}
		return frame
	}

	frame.Viewport = ViewportFor(fields, snap)
	if len(fields) > 0 {
		frame.Legend = Legend()
	}
	if snap.Selected != nil {
		for _, f := range fields {
			if f.ID == snap.Selected.ID {
				p := PopupFor(f)
				frame.Popup = &p
				break
			}
		}
	}
	return frame
}
