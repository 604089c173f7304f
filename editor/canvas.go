// Package editor implements the interaction layer of the diagram editor:
// placement tools, selection, label editing, dragging, the sidebar and the
// toolbar. It has no terminal dependency; front ends feed it events in world
// coordinates.
package editor

import (
	"errors"
	"fmt"

	"erd/diagram"
	"erd/geometry"
	"erd/scene"
	"erd/store"

	"go.uber.org/zap"
)

// ErrNoEntities is returned when attribute placement starts on a diagram
// without entities.
var ErrNoEntities = errors.New("diagram has no entities")

// noEntitiesStatus is shown when ErrNoEntities rejects attribute placement.
const noEntitiesStatus = "Please add an entity first"

// Options configures a Canvas.
type Options struct {
	Logger *zap.Logger
	// InlineDoubleClick makes double-clicking a shape edit its label in place
	// instead of opening the sidebar.
	InlineDoubleClick bool
}

// Canvas is the interaction state machine sitting between a front end and
// the store. It is driven from a single goroutine.
type Canvas struct {
	store   *store.Store
	logger  *zap.Logger
	sidebar *Sidebar

	pending     PendingAction
	inline      *LabelEditor
	inlineEdits bool
	drag        *dragState
	status      string
}

type dragState struct {
	target  diagram.Selection
	start   geometry.Point
	current geometry.Point
}

// NewCanvas creates a canvas over s.
func NewCanvas(s *store.Store, opts Options) *Canvas {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Canvas{
		store:       s,
		logger:      opts.Logger,
		sidebar:     newSidebar(s),
		inlineEdits: opts.InlineDoubleClick,
	}
}

// Store returns the store the canvas mutates.
func (c *Canvas) Store() *store.Store { return c.store }

// Sidebar returns the property inspector.
func (c *Canvas) Sidebar() *Sidebar { return c.sidebar }

// Pending returns the placement the next click completes.
func (c *Canvas) Pending() PendingAction { return c.pending }

// Status returns the last message for the user.
func (c *Canvas) Status() string { return c.status }

// SetStatus replaces the message for the user.
func (c *Canvas) SetStatus(msg string) { c.status = msg }

// Focus returns which text input, if any, receives keys.
func (c *Canvas) Focus() Focus {
	switch {
	case c.inline != nil:
		return FocusInline
	case c.sidebar.Focused():
		return FocusSidebar
	default:
		return FocusCanvas
	}
}

// Editor returns the inline label editor, or nil.
func (c *Canvas) Editor() *LabelEditor { return c.inline }

// Begin arms a placement tool.
func (c *Canvas) Begin(action PendingAction) error {
	c.commitInline()
	if action == ActionPlaceAttribute && len(c.store.Snapshot().Entities) == 0 {
		c.pending = ActionNone
		c.status = noEntitiesStatus
		return ErrNoEntities
	}
	c.pending = action
	c.status = placementHint(action)
	return nil
}

// Cancel abandons the pending placement.
func (c *Canvas) Cancel() {
	c.pending = ActionNone
	c.status = ""
}

// Reset drops all transient state, after the document was replaced.
func (c *Canvas) Reset() {
	c.pending = ActionNone
	c.inline = nil
	c.drag = nil
	c.sidebar.hide()
}

func placementHint(action PendingAction) string {
	switch action {
	case ActionPlaceEntity:
		return "Click on the canvas to place the entity"
	case ActionPlaceAttribute:
		return "Click on or near an entity to place the attribute"
	case ActionPlaceRelationship:
		return "Click on the canvas to place the relationship"
	default:
		return ""
	}
}

// Click handles a single click at p in world coordinates.
func (c *Canvas) Click(p geometry.Point) {
	doc := c.store.Snapshot()
	hit, onShape := HitTest(doc, p)

	if c.inline != nil {
		if onShape && hit.ID == c.inline.ID() {
			return
		}
		c.commitInline()
		doc = c.store.Snapshot()
	}
	c.sidebar.Blur()

	if !onShape {
		c.clickEmpty(doc, p)
		return
	}
	c.clickShape(doc, hit)
}

func (c *Canvas) clickEmpty(doc *diagram.Diagram, p geometry.Point) {
	switch c.pending {
	case ActionPlaceEntity:
		id := c.store.AddEntity(p.X-geometry.DefaultEntityWidth/2, p.Y-geometry.DefaultEntityHeight/2)
		c.placed(id, diagram.KindEntity)

	case ActionPlaceRelationship:
		id := c.store.AddRelationship(p.X, p.Y)
		c.placed(id, diagram.KindRelationship)

	case ActionPlaceAttribute:
		e, dist, ok := NearestEntity(doc, p)
		if !ok || dist >= AttributeProximity {
			// Too far from every entity: keep waiting for a better click
			return
		}
		c.addAttribute(e.ID, p)

	default:
		c.store.Deselect()
		c.sidebar.hide()
	}
}

func (c *Canvas) clickShape(doc *diagram.Diagram, hit diagram.Selection) {
	sel, hasSel := c.store.Selection()

	switch {
	case c.pending == ActionPlaceAttribute && hit.Kind == diagram.KindEntity:
		e, _ := doc.Entity(hit.ID)
		c.addAttribute(e.ID, FreeAttributeSlot(doc, e))

	case c.pending == ActionNone && hasSel && sel.Kind == diagram.KindRelationship && hit.Kind == diagram.KindEntity:
		c.connect(doc, sel.ID, hit.ID)

	default:
		// Only a double click opens the detailed view
		c.store.SelectItem(hit.ID, hit.Kind)
		c.sidebar.hide()
	}
}

// connect joins the relationship to the entity. Clicking the only connected
// entity again puts it on both ends, making the relationship recursive.
func (c *Canvas) connect(doc *diagram.Diagram, relID, entityID string) {
	rel, ok := doc.Relationship(relID)
	if !ok {
		return
	}
	if len(rel.ConnectedEntities) == 1 && rel.ConnectedEntities[0] == entityID {
		if rel.Recursive {
			return
		}
		if err := c.store.UpdateRelationship(relID, store.RelationshipPatch{Recursive: store.Bool(true)}); err != nil {
			c.fail("connect relationship", err)
			return
		}
		label, _ := doc.Label(entityID, diagram.KindEntity)
		c.status = fmt.Sprintf("%s now relates %s to itself", rel.Label, label)
		return
	}
	if err := c.store.ConnectRelationshipToEntity(relID, entityID); err != nil {
		c.fail("connect relationship", err)
	}
}

func (c *Canvas) addAttribute(entityID string, at geometry.Point) {
	id, err := c.store.AddAttribute(entityID, at.X, at.Y)
	if err != nil {
		c.fail("add attribute", err)
		return
	}
	c.placed(id, diagram.KindAttribute)
}

// placed finishes a placement: the new node is selected, the sidebar opens
// and its label goes straight into inline editing.
func (c *Canvas) placed(id string, kind diagram.Kind) {
	c.pending = ActionNone
	c.status = ""
	c.store.SelectItem(id, kind)
	c.sidebar.Open()
	c.inline = NewLabelEditor(id, kind, "")
	c.logger.Debug("Placed node", zap.String("id", id), zap.String("kind", kind.String()))
}

// DoubleClick handles a double click at p in world coordinates.
func (c *Canvas) DoubleClick(p geometry.Point) {
	doc := c.store.Snapshot()
	hit, onShape := HitTest(doc, p)

	if c.inline != nil && !(onShape && hit.ID == c.inline.ID()) {
		c.commitInline()
		doc = c.store.Snapshot()
	}

	if !onShape {
		if c.pending == ActionNone {
			id := c.store.AddEntity(p.X-geometry.DefaultEntityWidth/2, p.Y-geometry.DefaultEntityHeight/2)
			c.store.SelectItem(id, diagram.KindEntity)
			c.inline = NewLabelEditor(id, diagram.KindEntity, "")
		}
		return
	}

	c.store.SelectItem(hit.ID, hit.Kind)
	if c.inlineEdits {
		label, _ := doc.Label(hit.ID, hit.Kind)
		c.inline = NewLabelEditor(hit.ID, hit.Kind, label)
		return
	}
	c.sidebar.Open()
	c.sidebar.FocusInput()
}

// Key handles a key press. It returns false when the key is not consumed
// and the front end may treat it as a command.
func (c *Canvas) Key(ev KeyEvent) bool {
	switch c.Focus() {
	case FocusInline:
		switch ev.SpecialKey {
		case KeyEnter:
			c.commitInline()
		case KeyEscape:
			c.revertInline()
		default:
			c.inline.HandleKey(ev)
		}
		return true

	case FocusSidebar:
		if err := c.sidebar.HandleKey(ev); err != nil {
			c.fail("update label", err)
		}
		return true
	}

	switch ev.SpecialKey {
	case KeyDelete, KeyBackspace:
		return c.DeleteSelection()
	case KeyEscape:
		switch {
		case c.pending != ActionNone:
			c.Cancel()
		case c.sidebar.IsOpen():
			c.sidebar.Close()
		default:
			c.store.Deselect()
		}
		return true
	case KeyTab:
		if c.sidebar.IsOpen() {
			c.sidebar.FocusInput()
			return true
		}
	}
	return false
}

// DeleteSelection deletes the selected node.
func (c *Canvas) DeleteSelection() bool {
	sel, ok := c.store.Selection()
	if !ok {
		return false
	}
	if err := c.store.Delete(sel.ID, sel.Kind); err != nil {
		c.fail("delete", err)
		return true
	}
	c.sidebar.hide()
	return true
}

// DragStart begins dragging the shape under p. It returns false when there
// is nothing to drag.
func (c *Canvas) DragStart(p geometry.Point) bool {
	hit, ok := HitTest(c.store.Snapshot(), p)
	if !ok {
		return false
	}
	if c.inline != nil && c.inline.ID() != hit.ID {
		c.commitInline()
	}
	c.drag = &dragState{target: hit, start: p, current: p}
	return true
}

// Dragging reports whether a drag is in progress.
func (c *Canvas) Dragging() bool { return c.drag != nil }

// DragMove updates the drag preview. Nothing is persisted.
func (c *Canvas) DragMove(p geometry.Point) {
	if c.drag != nil {
		c.drag.current = p
	}
}

// DragEnd commits the dragged shape's final position.
func (c *Canvas) DragEnd(p geometry.Point) {
	d := c.drag
	c.drag = nil
	if d == nil {
		return
	}
	dx, dy := p.X-d.start.X, p.Y-d.start.Y
	if geometry.Abs(dx) < geometry.Epsilon && geometry.Abs(dy) < geometry.Epsilon {
		return
	}

	doc := c.store.Snapshot()
	var err error
	switch d.target.Kind {
	case diagram.KindEntity:
		if e, ok := doc.Entity(d.target.ID); ok {
			err = c.store.MoveEntity(e.ID, e.X+dx, e.Y+dy)
		}
	case diagram.KindAttribute:
		if a, ok := doc.Attribute(d.target.ID); ok {
			err = c.store.UpdateAttribute(a.ID, store.AttributePatch{X: store.Float(a.X + dx), Y: store.Float(a.Y + dy)})
		}
	case diagram.KindRelationship:
		if r, ok := doc.Relationship(d.target.ID); ok {
			err = c.store.UpdateRelationship(r.ID, store.RelationshipPatch{X: store.Float(r.X + dx), Y: store.Float(r.Y + dy)})
		}
	}
	if err != nil {
		c.fail("move", err)
	}
}

// Document returns the document as it should be drawn, with any drag in
// progress applied.
func (c *Canvas) Document() *diagram.Diagram {
	doc := c.store.Snapshot()
	if c.drag == nil {
		return doc
	}
	dx, dy := c.drag.current.X-c.drag.start.X, c.drag.current.Y-c.drag.start.Y

	switch c.drag.target.Kind {
	case diagram.KindEntity:
		if i := doc.EntityIndex(c.drag.target.ID); i >= 0 {
			doc.Entities[i].X += dx
			doc.Entities[i].Y += dy
		}
		for i := range doc.Attributes {
			if doc.Attributes[i].EntityID == c.drag.target.ID {
				doc.Attributes[i].X += dx
				doc.Attributes[i].Y += dy
			}
		}
	case diagram.KindAttribute:
		if i := doc.AttributeIndex(c.drag.target.ID); i >= 0 {
			doc.Attributes[i].X += dx
			doc.Attributes[i].Y += dy
		}
	case diagram.KindRelationship:
		if i := doc.RelationshipIndex(c.drag.target.ID); i >= 0 {
			doc.Relationships[i].X += dx
			doc.Relationships[i].Y += dy
		}
	}
	return doc
}

// Scene builds the drawing primitives for the current state.
func (c *Canvas) Scene() scene.Scene {
	var view scene.View
	if sel, ok := c.store.Selection(); ok {
		view.Selection = &sel
	}
	if c.inline != nil {
		view.Editing = &scene.Editing{
			ID:     c.inline.ID(),
			Kind:   c.inline.Kind(),
			Text:   c.inline.Text(),
			Cursor: c.inline.Cursor(),
		}
	}
	return scene.Build(c.Document(), view)
}

// commitInline stores the inline editor's text. An empty label falls back
// to the kind's default.
func (c *Canvas) commitInline() {
	ed := c.inline
	if ed == nil {
		return
	}
	c.inline = nil
	if err := setLabel(c.store, ed.ID(), ed.Kind(), ed.CommitText()); err != nil && !errors.Is(err, store.ErrNotFound) {
		c.fail("update label", err)
	}
}

// revertInline leaves the stored label as it was.
func (c *Canvas) revertInline() {
	ed := c.inline
	c.inline = nil
	if ed == nil {
		return
	}
	if err := clearNew(c.store, ed.ID(), ed.Kind()); err != nil && !errors.Is(err, store.ErrNotFound) {
		c.fail("update label", err)
	}
}

func (c *Canvas) fail(op string, err error) {
	c.status = fmt.Sprintf("Failed to %s: %v", op, err)
	c.logger.Warn("Canvas operation failed", zap.String("op", op), zap.Error(err))
}

// setLabel writes a label and clears the new flag.
func setLabel(s *store.Store, id string, kind diagram.Kind, label string) error {
	switch kind {
	case diagram.KindEntity:
		return s.UpdateEntity(id, store.EntityPatch{Label: store.String(label), IsNew: store.Bool(false)})
	case diagram.KindAttribute:
		return s.UpdateAttribute(id, store.AttributePatch{Label: store.String(label), IsNew: store.Bool(false)})
	case diagram.KindRelationship:
		return s.UpdateRelationship(id, store.RelationshipPatch{Label: store.String(label), IsNew: store.Bool(false)})
	}
	return fmt.Errorf("unknown kind %q", kind)
}

// clearNew drops the new flag without touching the label.
func clearNew(s *store.Store, id string, kind diagram.Kind) error {
	doc := s.Snapshot()
	switch kind {
	case diagram.KindEntity:
		if e, ok := doc.Entity(id); ok && e.IsNew {
			return s.UpdateEntity(id, store.EntityPatch{IsNew: store.Bool(false)})
		}
	case diagram.KindAttribute:
		if a, ok := doc.Attribute(id); ok && a.IsNew {
			return s.UpdateAttribute(id, store.AttributePatch{IsNew: store.Bool(false)})
		}
	case diagram.KindRelationship:
		if r, ok := doc.Relationship(id); ok && r.IsNew {
			return s.UpdateRelationship(id, store.RelationshipPatch{IsNew: store.Bool(false)})
		}
	}
	return nil
}
