package fieldmap

import (
	"fmt"
	"time"

	"cropcura/internal/types"
)

// Empty-state copy for the card list.
const (
	EmptyFieldsTitle = "No fields yet"
	EmptyFieldsHint  = `Click "Add Field" to map your first farm field`
)

// Card is one row in the field list.
type Card struct {
	FieldID     string      `json:"fieldId"`
	Name        string      `json:"name"`
	Area        string      `json:"area"`
	Badge       HealthBadge `json:"badge"`
	Snapshot    string      `json:"snapshot,omitempty"`
	Updated     string      `json:"updated"`
	Highlighted bool        `json:"highlighted"`
}

// EmptyState is shown instead of cards when there is nothing to list.
type EmptyState struct {
	Title string `json:"title"`
	Hint  string `json:"hint"`
}

// CardList is the rendered list panel.
type CardList struct {
	Cards []Card      `json:"cards"`
	Empty *EmptyState `json:"empty,omitempty"`
}

// FormatUpdated renders an RFC 3339 timestamp as "Jan 2, 2006". Values that
// are not timestamps ("2 days ago") are returned unchanged.
func FormatUpdated(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("Jan 2, 2006")
}

// Cards renders one card per field, highlighted from the same selection the
// map reads.
func Cards(fields []types.Field, snap SelectionSnapshot) CardList {
	if len(fields) == 0 {
		return CardList{
			Cards: []Card{},
			Empty: &EmptyState{Title: EmptyFieldsTitle, Hint: EmptyFieldsHint},
		}
	}
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		cards = append(cards, Card{
			FieldID:     f.ID,
			Name:        f.Name,
			Area:        fmt.Sprintf("%.1f hectares", f.Area),
			Badge:       BadgeFor(f.HealthStatus),
			Snapshot:    f.Snapshot,
			Updated:     FormatUpdated(f.LastUpdated),
			Highlighted: snap.IsHighlighted(f.ID),
		})
	}
	return CardList{Cards: cards}
}

// ListView is the card panel. Its interactions write the shared Selection.
type ListView struct {
	selection *Selection
}

// NewListView binds a list to a selection.
func NewListView(selection *Selection) *ListView {
	return &ListView{selection: selection}
}

// HoverCard marks a card's field as hovered. An empty id ends the hover.
func (l *ListView) HoverCard(fieldID string) {
	l.selection.Hover(fieldID)
}

// ClickCard selects the card's field, exactly as clicking its polygon would.
func (l *ListView) ClickCard(fields []types.Field, fieldID string) bool {
	for _, f := range fields {
		if f.ID == fieldID {
			l.selection.Select(f)
			return true
		}
	}
	return false
}

// Render builds the card list from the current selection.
func (l *ListView) Render(fields []types.Field) CardList {
	return Cards(fields, l.selection.Snapshot())
}
