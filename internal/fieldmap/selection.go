package fieldmap

import (
	"sync"

	"cropcura/internal/types"
)

// SelectionSnapshot is a point-in-time copy of the shared selection.
type SelectionSnapshot struct {
	HoveredID string       `json:"hoveredId,omitempty"`
	Selected  *types.Field `json:"selectedField,omitempty"`
}

// SelectedID returns the selected field's id, or "" when nothing is selected.
func (s SelectionSnapshot) SelectedID() string {
	if s.Selected == nil {
		return ""
	}
	return s.Selected.ID
}

// IsHighlighted reports whether a field is hovered or selected.
func (s SelectionSnapshot) IsHighlighted(fieldID string) bool {
	return fieldID != "" && (s.HoveredID == fieldID || s.SelectedID() == fieldID)
}

// Idle reports whether nothing is hovered or selected.
func (s SelectionSnapshot) Idle() bool {
	return s.HoveredID == "" && s.Selected == nil
}

// Selection is the single hover/select state read by both the map and the
// card list. Either view writes it.
type Selection struct {
	mu sync.RWMutex

	hoveredID string
	selected  *types.Field
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Hover marks a field as hovered. An empty id clears hover.
func (s *Selection) Hover(fieldID string) {
	s.update(func() { s.hoveredID = fieldID })
}

// ClearHover removes the hover mark.
func (s *Selection) ClearHover() {
	s.Hover("")
}

// Select makes field the single selected field.
func (s *Selection) Select(field types.Field) {
	f := field
	s.update(func() { s.selected = &f })
}

// ClearSelection deselects the selected field.
func (s *Selection) ClearSelection() {
	s.update(func() { s.selected = nil })
}

// Snapshot returns a copy of the current state.
func (s *Selection) Snapshot() SelectionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Selection) snapshotLocked() SelectionSnapshot {
	snap := SelectionSnapshot{HoveredID: s.hoveredID}
	if s.selected != nil {
		f := *s.selected
		snap.Selected = &f
	}
	return snap
}

func (s *Selection) update(mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate()
}
