package fieldmap

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcura/internal/geo"
	"cropcura/internal/types"
)

func testFields() []types.Field {
	return []types.Field{
		{
			ID: "field-1", Name: "North Maize Plot", HealthStatus: types.HealthHealthy, Area: 12.5, CropType: "Maize",
			LastUpdated: "2024-01-15T10:30:00Z",
			Coordinates: []types.FieldCoordinate{
				{Lat: -1.2821, Lng: 36.8219}, {Lat: -1.2801, Lng: 36.8259},
				{Lat: -1.2841, Lng: 36.8279}, {Lat: -1.2861, Lng: 36.8239},
			},
		},
		{
			ID: "field-2", Name: "River Valley Rice", HealthStatus: types.HealthModerate, Area: 8.3, CropType: "Rice",
			LastUpdated: "2024-01-14T14:20:00Z",
			Coordinates: []types.FieldCoordinate{
				{Lat: -1.2751, Lng: 36.8319}, {Lat: -1.2731, Lng: 36.8359},
				{Lat: -1.2771, Lng: 36.8379}, {Lat: -1.2791, Lng: 36.8339},
			},
		},
		{
			ID: "field-3", Name: "Highland Wheat Field", HealthStatus: types.HealthUnhealthy, Area: 15.7,
			LastUpdated: "3 days ago",
			Coordinates: []types.FieldCoordinate{
				{Lat: -1.2891, Lng: 36.8119}, {Lat: -1.2871, Lng: 36.8159},
				{Lat: -1.2911, Lng: 36.8179}, {Lat: -1.2931, Lng: 36.8139},
			},
		},
	}
}

// fakeTool records lifecycle calls and lets tests emit events.
type fakeTool struct {
	opts     ToolOptions
	listener DrawingListener
	closed   bool
}

func (f *fakeTool) Attach(l DrawingListener) { f.listener = l }
func (f *fakeTool) Options() ToolOptions     { return f.opts }
func (f *fakeTool) Close() error             { f.closed = true; return nil }

type fakeFactory struct {
	created []*fakeTool
	err     error
}

func (ff *fakeFactory) New(opts ToolOptions) (DrawingTool, error) {
	if ff.err != nil {
		return nil, ff.err
	}
	t := &fakeTool{opts: opts}
	ff.created = append(ff.created, t)
	return t, nil
}

func TestHealthColor_Total(t *testing.T) {
	assert.Equal(t, "#22c55e", HealthColor(types.HealthHealthy))
	assert.Equal(t, "#eab308", HealthColor(types.HealthModerate))
	assert.Equal(t, "#ef4444", HealthColor(types.HealthUnhealthy))
	assert.Equal(t, "#6b7280", HealthColor(""))
	assert.Equal(t, "#6b7280", HealthColor("flooded"))

	// Pure: repeated calls agree.
	for i := 0; i < 3; i++ {
		assert.Equal(t, HealthColor(types.HealthModerate), HealthColor(types.HealthModerate))
	}
}

func TestStyleFor(t *testing.T) {
	normal := StyleFor(types.HealthHealthy, false)
	assert.Equal(t, PolygonStyle{Color: ColorHealthy, FillColor: ColorHealthy, FillOpacity: 0.5, Weight: 2}, normal)

	hl := StyleFor(types.HealthHealthy, true)
	assert.Equal(t, PolygonStyle{Color: ColorHighlight, FillColor: ColorHealthy, FillOpacity: 0.7, Weight: 4}, hl)
}

func TestLegend(t *testing.T) {
	assert.Equal(t, []LegendEntry{
		{Label: "Healthy", Color: ColorHealthy},
		{Label: "Moderate", Color: ColorModerate},
		{Label: "Unhealthy", Color: ColorUnhealthy},
	}, Legend())
}

func TestPopupFor(t *testing.T) {
	fields := testFields()

	p := PopupFor(fields[0])
	assert.Equal(t, "North Maize Plot", p.Name)
	assert.Equal(t, "12.5 ha", p.Area)
	assert.Equal(t, "Maize", p.Crop)
	assert.Equal(t, HealthBadge{Status: types.HealthHealthy, Label: "Healthy", Color: ColorHealthy}, p.Health)
	assert.Len(t, p.Legend, 3)

	assert.Equal(t, "Mixed", PopupFor(fields[2]).Crop)
}

func TestViewportFor_FitBoundsCoversAllVertices(t *testing.T) {
	fields := testFields()

	cmd := ViewportFor(fields, SelectionSnapshot{})
	require.NotNil(t, cmd)
	assert.Equal(t, ViewportFitBounds, cmd.Kind)
	assert.Equal(t, 50, cmd.PaddingPx)
	for _, f := range fields {
		for _, c := range f.Coordinates {
			assert.True(t, cmd.Bounds.Contains(c), "fit bounds must contain %v of %s", c, f.ID)
		}
	}
}

func TestViewportFor(t *testing.T) {
	fields := testFields()
	selected := fields[0]

	assert.Nil(t, ViewportFor(nil, SelectionSnapshot{}), "empty set: no command")

	pan := ViewportFor(fields, SelectionSnapshot{HoveredID: "field-2"})
	require.NotNil(t, pan)
	assert.Equal(t, ViewportPanTo, pan.Kind)
	b, _ := geo.BoundsOf(fields[1].Coordinates)
	assert.Equal(t, b.Center(), *pan.Center)

	assert.Nil(t, ViewportFor(fields, SelectionSnapshot{HoveredID: "field-1", Selected: &selected}),
		"hovering the selected field does not pan")
	assert.Nil(t, ViewportFor(fields, SelectionSnapshot{Selected: &selected}),
		"selection alone does not move the map")
}

func TestSelection_HoverIndependentOfSelect(t *testing.T) {
	sel := NewSelection()

	sel.Hover("field-2")
	sel.Select(testFields()[0])
	snap := sel.Snapshot()
	assert.Equal(t, "field-2", snap.HoveredID)
	assert.Equal(t, "field-1", snap.SelectedID())

	sel.ClearHover()
	snap = sel.Snapshot()
	assert.Equal(t, "", snap.HoveredID)
	assert.Equal(t, "field-1", snap.SelectedID())
	assert.False(t, snap.Idle())

	sel.ClearSelection()
	assert.True(t, sel.Snapshot().Idle())
}

func TestSelection_SnapshotIsCopy(t *testing.T) {
	sel := NewSelection()
	sel.Select(testFields()[0])

	snap := sel.Snapshot()
	snap.Selected.Name = "mutated"

	assert.Equal(t, "North Maize Plot", sel.Snapshot().Selected.Name)
}

func TestSelection_Concurrent(t *testing.T) {
	sel := NewSelection()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sel.Hover("field-1")
			_ = sel.Snapshot()
			sel.ClearHover()
		}()
	}
	wg.Wait()
	assert.True(t, sel.Snapshot().Idle())
}

// TestMapAndListHighlightAgree drives the shared selection from both views and
// checks the map layers and list cards always agree.
func TestMapAndListHighlightAgree(t *testing.T) {
	fields := testFields()
	sel := NewSelection()
	view := NewView(sel, nil, nil)
	list := NewListView(sel)

	check := func(step string) {
		frame := view.Render(fields)
		cards := list.Render(fields)
		require.Len(t, cards.Cards, len(frame.Layers))
		for i := range fields {
			assert.Equal(t, frame.Layers[i].Highlighted, cards.Cards[i].Highlighted, "%s: %s", step, fields[i].ID)
		}
	}

	check("idle")
	list.HoverCard("field-2")
	check("card hover")
	assert.True(t, view.Render(fields).Layers[1].Highlighted)

	_, ok := view.Click(fields, "field-3")
	require.True(t, ok)
	check("polygon click")

	require.True(t, list.ClickCard(fields, "field-1"))
	check("card click")
	assert.Equal(t, "field-1", sel.Snapshot().SelectedID(), "only one selected field")

	list.HoverCard("")
	check("hover end")
	assert.False(t, list.ClickCard(fields, "field-99"))
}

func TestView_Click(t *testing.T) {
	fields := testFields()
	sel := NewSelection()
	view := NewView(sel, nil, nil)

	popup, ok := view.Click(fields, "field-2")
	require.True(t, ok)
	assert.Equal(t, "River Valley Rice", popup.Name)
	assert.Equal(t, "field-2", sel.Snapshot().SelectedID())

	frame := view.Render(fields)
	require.NotNil(t, frame.Popup)
	assert.Equal(t, "field-2", frame.Popup.FieldID)

	_, ok = view.Click(fields, "missing")
	assert.False(t, ok)
}

func TestView_EnableDrawingIsIdempotent(t *testing.T) {
	ff := &fakeFactory{}
	view := NewView(NewSelection(), ff.New, nil)

	require.NoError(t, view.EnableDrawing())
	require.NoError(t, view.EnableDrawing())

	assert.Len(t, ff.created, 1, "second activation must not create a second tool")
	assert.Equal(t, ModeDrawing, view.Mode())

	opts := ff.created[0].opts
	assert.True(t, opts.Polygon)
	assert.False(t, opts.Polyline || opts.Rectangle || opts.Circle || opts.Marker)
	assert.True(t, opts.Edit)
	assert.True(t, opts.Remove)
}

func TestView_EnableDrawingFactoryError(t *testing.T) {
	ff := &fakeFactory{err: errors.New("no widget")}
	view := NewView(NewSelection(), ff.New, nil)

	assert.Error(t, view.EnableDrawing())
	assert.Equal(t, ModeDisplay, view.Mode())
}

func TestView_DrawingEvents(t *testing.T) {
	ff := &fakeFactory{}
	var reported [][]types.FieldCoordinate
	view := NewView(NewSelection(), ff.New, func(c []types.FieldCoordinate) { reported = append(reported, c) })
	require.NoError(t, view.EnableDrawing())
	tool := ff.created[0]

	first := testFields()[0].Coordinates
	second := testFields()[1].Coordinates
	tool.listener.OnPolygonCommitted(first)
	tool.listener.OnPolygonCommitted(second)

	assert.Equal(t, second, view.Drawn(), "a new polygon replaces the previous one")
	require.Len(t, reported, 2)
	assert.Equal(t, first, reported[0], "vertices reported in received order")

	tool.listener.OnPolygonCleared()
	require.Len(t, reported, 3)
	assert.NotNil(t, reported[2])
	assert.Empty(t, reported[2])
	assert.Empty(t, view.Drawn())
}

func TestView_DisableDrawingClearsShape(t *testing.T) {
	ff := &fakeFactory{}
	view := NewView(NewSelection(), ff.New, nil)
	require.NoError(t, view.EnableDrawing())
	ff.created[0].listener.OnPolygonCommitted(testFields()[0].Coordinates)

	require.NoError(t, view.DisableDrawing())

	assert.True(t, ff.created[0].closed)
	assert.Empty(t, view.Drawn())
	assert.Equal(t, ModeDisplay, view.Mode())
	assert.NoError(t, view.DisableDrawing(), "disabling twice is harmless")
}

// TestView_DrawingToggleLeavesLayersUnchanged verifies toggling drawing mode
// does not alter the fields or their rendered polygons.
func TestView_DrawingToggleLeavesLayersUnchanged(t *testing.T) {
	fields := testFields()
	view := NewView(NewSelection(), nil, nil)
	before := view.Render(fields)

	require.NoError(t, view.EnableDrawing())
	during := view.Render(fields)
	assert.Equal(t, ModeDrawing, during.Mode)
	assert.Equal(t, before.Layers, during.Layers)
	assert.Nil(t, during.Viewport, "no viewport moves while drawing")
	require.NotNil(t, during.Tool)

	require.NoError(t, view.DisableDrawing())
	after := view.Render(fields)

	assert.Equal(t, before, after)
	assert.Equal(t, testFields(), fields)
}

func TestRemoteTool(t *testing.T) {
	var reported [][]types.FieldCoordinate
	view := NewView(NewSelection(), NewRemoteTool, func(c []types.FieldCoordinate) { reported = append(reported, c) })
	require.NoError(t, view.EnableDrawing())

	tool, ok := view.Tool()
	require.True(t, ok)
	remote, ok := tool.(*RemoteTool)
	require.True(t, ok)

	coords := testFields()[0].Coordinates
	require.NoError(t, remote.Commit(coords))
	assert.Equal(t, coords, view.Drawn())
	require.NoError(t, remote.Clear())
	assert.Len(t, reported, 2)

	require.NoError(t, view.DisableDrawing())
	assert.ErrorIs(t, remote.Commit(coords), ErrDrawingInactive)
}

func TestCards(t *testing.T) {
	fields := testFields()

	list := Cards(fields, SelectionSnapshot{HoveredID: "field-2"})
	require.Len(t, list.Cards, 3)
	assert.Nil(t, list.Empty)
	assert.Equal(t, "12.5 hectares", list.Cards[0].Area)
	assert.Equal(t, "Jan 15, 2024", list.Cards[0].Updated)
	assert.Equal(t, "3 days ago", list.Cards[2].Updated)
	assert.Equal(t, "Moderate", list.Cards[1].Badge.Label)
	assert.True(t, list.Cards[1].Highlighted)
	assert.False(t, list.Cards[0].Highlighted)
}

func TestCards_EmptyState(t *testing.T) {
	list := Cards(nil, SelectionSnapshot{})
	assert.NotNil(t, list.Cards)
	assert.Empty(t, list.Cards)
	require.NotNil(t, list.Empty)
	assert.Equal(t, "No fields yet", list.Empty.Title)
}
