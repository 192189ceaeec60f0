package fieldmap

import (
	"errors"
	"sync"

	"cropcura/internal/types"
)

// ErrDrawingInactive is returned when a drawing operation arrives while the
// map is in display mode.
var ErrDrawingInactive = errors.New("drawing mode is not active")

// ToolOptions restricts what a drawing tool may create.
type ToolOptions struct {
	Polygon           bool         `json:"polygon"`
	Polyline          bool         `json:"polyline"`
	Rectangle         bool         `json:"rectangle"`
	Circle            bool         `json:"circle"`
	Marker            bool         `json:"marker"`
	AllowIntersection bool         `json:"allowIntersection"`
	ShowArea          bool         `json:"showArea"`
	Edit              bool         `json:"edit"`
	Remove            bool         `json:"remove"`
	Shape             PolygonStyle `json:"shape"`
}

// PolygonOnlyOptions allows polygons only, with edit and remove enabled.
func PolygonOnlyOptions() ToolOptions {
	return ToolOptions{
		Polygon:  true,
		ShowArea: true,
		Edit:     true,
		Remove:   true,
		Shape:    DrawingStyle(),
	}
}

// DrawingListener receives polygon events from a DrawingTool.
type DrawingListener interface {
	// OnPolygonCommitted delivers the vertices of a finished polygon in the
	// order they were drawn.
	OnPolygonCommitted(coords []types.FieldCoordinate)
	// OnPolygonCleared reports that the drawn polygon was removed.
	OnPolygonCleared()
}

// DrawingTool is a polygon drawing widget.
type DrawingTool interface {
	Attach(l DrawingListener)
	Options() ToolOptions
	Close() error
}

// ToolFactory creates a drawing tool.
type ToolFactory func(opts ToolOptions) (DrawingTool, error)

// RemoteTool is a DrawingTool driven by the API: the browser draws, then the
// finished vertices arrive as a request and are emitted through Commit.
type RemoteTool struct {
	mu       sync.Mutex
	opts     ToolOptions
	listener DrawingListener
	closed   bool
}

// NewRemoteTool is a ToolFactory for RemoteTool.
func NewRemoteTool(opts ToolOptions) (DrawingTool, error) {
	return &RemoteTool{opts: opts}, nil
}

// Attach sets the listener that receives events.
func (t *RemoteTool) Attach(l DrawingListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = l
}

// Options returns the restrictions the tool was created with.
func (t *RemoteTool) Options() ToolOptions {
	return t.opts
}

// Commit emits a finished polygon.
func (t *RemoteTool) Commit(coords []types.FieldCoordinate) error {
	l, err := t.active()
	if err != nil {
		return err
	}
	l.OnPolygonCommitted(coords)
	return nil
}

// Clear emits the removal of the drawn polygon.
func (t *RemoteTool) Clear() error {
	l, err := t.active()
	if err != nil {
		return err
	}
	l.OnPolygonCleared()
	return nil
}

func (t *RemoteTool) active() (DrawingListener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.listener == nil {
		return nil, ErrDrawingInactive
	}
	return t.listener, nil
}

// Close detaches the listener. Further events are rejected.
func (t *RemoteTool) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.listener = nil
	return nil
}
