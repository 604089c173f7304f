package editor

import (
	"fmt"

	"erd/diagram"
	"erd/store"
)

// Sidebar is the property inspector for the selected node.
type Sidebar struct {
	store *store.Store
	open  bool
	input *LabelEditor
}

// CardinalityRow is one connected entity in the cardinality picker.
type CardinalityRow struct {
	EntityID    string
	EntityLabel string
	Current     diagram.Cardinality
	Options     []diagram.Cardinality
}

func newSidebar(s *store.Store) *Sidebar {
	return &Sidebar{store: s}
}

// IsOpen reports whether the sidebar is shown. It needs a selection.
func (s *Sidebar) IsOpen() bool {
	_, selected := s.store.Selection()
	return s.open && selected
}

// Open shows the sidebar for the current selection.
func (s *Sidebar) Open() {
	s.open = true
}

// Close hides the sidebar and deselects.
func (s *Sidebar) Close() {
	s.hide()
	s.store.Deselect()
}

func (s *Sidebar) hide() {
	s.open = false
	s.input = nil
}

// Selection returns the node the sidebar edits.
func (s *Sidebar) Selection() (diagram.Selection, bool) {
	if !s.open {
		return diagram.Selection{}, false
	}
	return s.store.Selection()
}

// Title returns the heading, such as "Edit entity".
func (s *Sidebar) Title() string {
	sel, ok := s.Selection()
	if !ok {
		return ""
	}
	return "Edit " + sel.Kind.String()
}

// LabelValue returns the text shown in the label input. Default and new
// labels show as empty so they do not have to be cleared by hand.
func (s *Sidebar) LabelValue() string {
	if s.input != nil {
		return s.input.Text()
	}
	sel, ok := s.Selection()
	if !ok {
		return ""
	}
	label, isNew, ok := nodeLabel(s.store.Snapshot(), sel)
	if !ok || isNew || diagram.IsDefaultLabel(label) {
		return ""
	}
	return label
}

// SetLabel writes the label through to the store immediately.
func (s *Sidebar) SetLabel(label string) error {
	sel, ok := s.Selection()
	if !ok {
		return nil
	}
	return setLabel(s.store, sel.ID, sel.Kind, label)
}

// FocusInput moves keyboard focus to the label input.
func (s *Sidebar) FocusInput() {
	sel, ok := s.Selection()
	if !ok {
		return
	}
	s.input = NewLabelEditor(sel.ID, sel.Kind, s.LabelValue())
}

// Focused reports whether the label input has keyboard focus.
func (s *Sidebar) Focused() bool {
	return s.input != nil && s.IsOpen()
}

// Input returns the focused label input, or nil.
func (s *Sidebar) Input() *LabelEditor {
	if !s.Focused() {
		return nil
	}
	return s.input
}

// Blur leaves the label input.
func (s *Sidebar) Blur() {
	s.input = nil
}

// HandleKey edits the label input. Every edit is written through. Enter,
// Escape and Tab leave the input.
func (s *Sidebar) HandleKey(ev KeyEvent) error {
	if s.input == nil {
		return nil
	}
	switch ev.SpecialKey {
	case KeyEnter, KeyEscape, KeyTab:
		s.Blur()
		return nil
	}
	before := s.input.Text()
	s.input.HandleKey(ev)
	if s.input.Text() == before {
		return nil
	}
	return s.SetLabel(s.input.Text())
}

// CardinalityRows lists the connected entities of the selected relationship.
// Connections to missing entities are skipped.
func (s *Sidebar) CardinalityRows() []CardinalityRow {
	sel, ok := s.Selection()
	if !ok || sel.Kind != diagram.KindRelationship {
		return nil
	}
	doc := s.store.Snapshot()
	rel, ok := doc.Relationship(sel.ID)
	if !ok {
		return nil
	}

	var rows []CardinalityRow
	for _, entityID := range rel.ConnectedEntities {
		e, ok := doc.Entity(entityID)
		if !ok {
			continue
		}
		rows = append(rows, CardinalityRow{
			EntityID:    entityID,
			EntityLabel: e.Label,
			Current:     rel.CardinalityFor(entityID),
			Options:     diagram.Cardinalities(),
		})
	}
	return rows
}

// SetCardinality records the cardinality of one connection of the selected
// relationship.
func (s *Sidebar) SetCardinality(entityID string, c diagram.Cardinality) error {
	sel, ok := s.Selection()
	if !ok || sel.Kind != diagram.KindRelationship {
		return fmt.Errorf("no relationship selected")
	}
	return s.store.UpdateRelationshipCardinality(sel.ID, entityID, c)
}

// CycleCardinality advances the n-th row (0-based) to its next option.
// Disconnect removes the n-th connection (0-based) of the selected
// relationship together with its cardinality.
func (s *Sidebar) Disconnect(n int) error {
	rows := s.CardinalityRows()
	if n < 0 || n >= len(rows) {
		return fmt.Errorf("no connection %d", n+1)
	}
	sel, _ := s.Selection()
	return s.store.DisconnectRelationshipFromEntity(sel.ID, rows[n].EntityID)
}

func (s *Sidebar) CycleCardinality(n int) error {
	rows := s.CardinalityRows()
	if n < 0 || n >= len(rows) {
		return fmt.Errorf("no connection %d", n+1)
	}
	row := rows[n]
	next := row.Options[0]
	for i, opt := range row.Options {
		if opt == row.Current {
			next = row.Options[(i+1)%len(row.Options)]
			break
		}
	}
	return s.SetCardinality(row.EntityID, next)
}

func nodeLabel(d *diagram.Diagram, sel diagram.Selection) (label string, isNew bool, ok bool) {
	switch sel.Kind {
	case diagram.KindEntity:
		e, ok := d.Entity(sel.ID)
		return e.Label, e.IsNew, ok
	case diagram.KindAttribute:
		a, ok := d.Attribute(sel.ID)
		return a.Label, a.IsNew, ok
	case diagram.KindRelationship:
		r, ok := d.Relationship(sel.ID)
		return r.Label, r.IsNew, ok
	}
	return "", false, false
}
