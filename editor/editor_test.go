package editor

import (
	"testing"

	"erd/diagram"
	"erd/geometry"
	"erd/scene"
	"erd/storage"
	"erd/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCanvas(t *testing.T, opts Options) (*Canvas, *store.Store) {
	t.Helper()
	s := store.New(storage.NewMemoryStorage(), store.Options{Logger: zap.NewNop()})
	opts.Logger = zap.NewNop()
	return NewCanvas(s, opts), s
}

func typeText(c *Canvas, text string) {
	for _, r := range text {
		c.Key(Rune(r))
	}
}

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func TestPlaceEntity_TypeLabel(t *testing.T) {
	c, s := newTestCanvas(t, Options{})

	require.NoError(t, c.Begin(ActionPlaceEntity))
	assert.Equal(t, ActionPlaceEntity, c.Pending())
	assert.NotEmpty(t, c.Status())

	c.Click(pt(200, 150))

	doc := s.Snapshot()
	require.Len(t, doc.Entities, 1)
	e := doc.Entities[0]
	assert.Equal(t, 140.0, e.X, "centered on the click")
	assert.Equal(t, 120.0, e.Y)
	assert.True(t, e.IsNew)

	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, e.ID, sel.ID)
	assert.Equal(t, ActionNone, c.Pending())
	assert.True(t, c.Sidebar().IsOpen())
	require.Equal(t, FocusInline, c.Focus())
	assert.Equal(t, "", c.Editor().Text())

	typeText(c, "Customer")
	assert.True(t, c.Key(Key(KeyEnter)))

	e, _ = s.Snapshot().Entity(e.ID)
	assert.Equal(t, "Customer", e.Label)
	assert.False(t, e.IsNew)
	assert.Equal(t, FocusCanvas, c.Focus())
}

func TestPlaceEntity_EmptyCommitKeepsDefault(t *testing.T) {
	c, s := newTestCanvas(t, Options{})

	require.NoError(t, c.Begin(ActionPlaceEntity))
	c.Click(pt(0, 0))
	c.Key(Key(KeyEnter))

	e := s.Snapshot().Entities[0]
	assert.Equal(t, "Entity", e.Label)
	assert.False(t, e.IsNew)
}

func TestInlineEdit_EscapeReverts(t *testing.T) {
	c, s := newTestCanvas(t, Options{})

	require.NoError(t, c.Begin(ActionPlaceRelationship))
	c.Click(pt(300, 300))
	typeText(c, "owns")
	c.Key(Key(KeyEscape))

	r := s.Snapshot().Relationships[0]
	assert.Equal(t, "Relationship", r.Label)
	assert.Equal(t, 300.0, r.X)
	assert.False(t, r.IsNew)
	assert.Nil(t, c.Editor())
}

func TestInlineEdit_ClickElsewhereCommits(t *testing.T) {
	c, s := newTestCanvas(t, Options{})

	require.NoError(t, c.Begin(ActionPlaceEntity))
	c.Click(pt(60, 30))
	id := s.Snapshot().Entities[0].ID
	typeText(c, "Orde")

	// Clicking inside the shape being edited keeps editing
	c.Click(pt(60, 30))
	require.NotNil(t, c.Editor())
	typeText(c, "r")

	c.Click(pt(900, 900))
	assert.Nil(t, c.Editor())
	e, _ := s.Snapshot().Entity(id)
	assert.Equal(t, "Order", e.Label)
	_, selected := s.Selection()
	assert.False(t, selected, "the click on empty canvas deselects")
}

func TestBeginAttribute_NoEntities(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	before := s.Revision()

	err := c.Begin(ActionPlaceAttribute)

	assert.ErrorIs(t, err, ErrNoEntities)
	assert.Equal(t, "diagram has no entities", err.Error())
	assert.Equal(t, "Please add an entity first", c.Status())
	assert.Equal(t, ActionNone, c.Pending())
	assert.Equal(t, before, s.Revision())
	assert.True(t, s.Snapshot().IsEmpty())
}

func TestPlaceAttribute_NearEntity(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(100, 100) // center (160, 130)

	require.NoError(t, c.Begin(ActionPlaceAttribute))
	c.Click(pt(900, 900))
	assert.Empty(t, s.Snapshot().Attributes, "too far from every entity")
	assert.Equal(t, ActionPlaceAttribute, c.Pending(), "still waiting for a click")

	c.Click(pt(160, 0))

	attrs := s.Snapshot().Attributes
	require.Len(t, attrs, 1)
	assert.Equal(t, entityID, attrs[0].EntityID)
	assert.Equal(t, pt(160, 0), attrs[0].Center())
	assert.Equal(t, FocusInline, c.Focus())
}

func TestPlaceAttribute_OnEntityUsesFreeSlot(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(100, 100)

	require.NoError(t, c.Begin(ActionPlaceAttribute))
	c.Click(pt(160, 130))
	c.Key(Key(KeyEnter))

	require.NoError(t, c.Begin(ActionPlaceAttribute))
	c.Click(pt(160, 130))
	c.Key(Key(KeyEnter))

	attrs := s.Snapshot().AttributesOf(entityID)
	require.Len(t, attrs, 2)
	assert.Equal(t, pt(160, 60), attrs[0].Center(), "top slot first")
	assert.Equal(t, pt(280, 130), attrs[1].Center(), "then the right slot")
	assert.Equal(t, "Attribute", attrs[1].Label)
}

func TestClickEntity_ConnectsSelectedRelationship(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(0, 0)
	relID := s.AddRelationship(300, 30)
	s.SelectItem(relID, diagram.KindRelationship)

	c.Click(pt(60, 30))

	r, _ := s.Snapshot().Relationship(relID)
	assert.Equal(t, []string{entityID}, r.ConnectedEntities)
	assert.Equal(t, diagram.CardinalityOne, r.CardinalityFor(entityID))

	assert.False(t, r.Recursive)

	sel, _ := s.Selection()
	assert.Equal(t, relID, sel.ID, "the relationship stays selected for more connections")

	layer := c.Scene().Layer(scene.LayerRelationshipConnectors)
	assert.Len(t, layer.Lines, 1, "one connection draws one connector")
	assert.Len(t, layer.Texts, 1)
}

func TestClickEntity_SecondClickMakesRelationshipRecursive(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(0, 0)
	relID := s.AddRelationship(300, 30)
	require.NoError(t, s.UpdateRelationship(relID, store.RelationshipPatch{Label: store.String("manages")}))
	s.SelectItem(relID, diagram.KindRelationship)

	c.Click(pt(60, 30))
	c.Click(pt(60, 30))

	r, _ := s.Snapshot().Relationship(relID)
	assert.Equal(t, []string{entityID}, r.ConnectedEntities)
	assert.True(t, r.Recursive)
	assert.Equal(t, "manages now relates Entity to itself", c.Status())
	assert.Len(t, c.Scene().Layer(scene.LayerRelationshipConnectors).Lines, 2)

	// Once recursive, clicking the entity again changes nothing
	rev := s.Revision()
	c.Click(pt(60, 30))
	assert.Equal(t, rev, s.Revision())

	// A second entity turns it back into a plain relationship
	other := s.AddEntity(0, 300)
	c.Click(pt(60, 330))
	r, _ = s.Snapshot().Relationship(relID)
	assert.Equal(t, []string{entityID, other}, r.ConnectedEntities)
	assert.False(t, r.Recursive)
}

func TestClickShape_ClosesDetailedView(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	a := s.AddEntity(0, 0)
	b := s.AddEntity(300, 0)

	c.DoubleClick(pt(60, 30))
	c.Key(Key(KeyEnter))
	require.True(t, c.Sidebar().IsOpen())
	sel, _ := s.Selection()
	require.Equal(t, a, sel.ID)

	c.Click(pt(360, 30))

	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, b, sel.ID)
	assert.False(t, c.Sidebar().IsOpen(), "a single click selects without the sidebar")
}

func TestClick_SelectAndDeselect(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(0, 0)

	c.Click(pt(10, 10))
	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, diagram.Selection{ID: entityID, Kind: diagram.KindEntity}, sel)

	c.Sidebar().Open()
	c.Click(pt(500, 500))

	_, ok = s.Selection()
	assert.False(t, ok)
	assert.False(t, c.Sidebar().IsOpen())
}

func TestHitTest_Precedence(t *testing.T) {
	d := &diagram.Diagram{
		Entities:      []diagram.Entity{{ID: "e1", X: 0, Y: 0, Width: 120, Height: 60}},
		Attributes:    []diagram.Attribute{{ID: "a1", EntityID: "e1", X: 100, Y: 30}},
		Relationships: []diagram.Relationship{{ID: "r1", X: 20, Y: 30}},
	}

	tests := []struct {
		name string
		p    geometry.Point
		want string
		ok   bool
	}{
		{"relationship over entity", pt(20, 30), "r1", true},
		{"attribute over entity", pt(110, 30), "a1", true},
		{"entity", pt(60, 5), "e1", true},
		{"diamond corner area outside", pt(55, 60), "e1", true},
		{"empty", pt(400, 400), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HitTest(d, tt.p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestDrag_PreviewThenCommit(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(0, 0)
	attrID, err := s.AddAttribute(entityID, 60, -40)
	require.NoError(t, err)
	rev := s.Revision()

	require.True(t, c.DragStart(pt(60, 30)))
	assert.True(t, c.Dragging())
	c.DragMove(pt(110, 50))

	preview := c.Document()
	assert.Equal(t, 50.0, preview.Entities[0].X)
	assert.Equal(t, 20.0, preview.Entities[0].Y)
	assert.Equal(t, pt(110, -20), preview.Attributes[0].Center())
	assert.Equal(t, rev, s.Revision(), "previews are not stored")
	assert.Equal(t, 0.0, s.Snapshot().Entities[0].X)

	c.DragEnd(pt(110, 50))

	assert.False(t, c.Dragging())
	doc := s.Snapshot()
	assert.Equal(t, 50.0, doc.Entities[0].X)
	a, _ := doc.Attribute(attrID)
	assert.Equal(t, pt(110, -20), a.Center())
	assert.Equal(t, rev+1, s.Revision(), "one revision for the entity and its attributes")
}

func TestDrag_ZeroDeltaIsNoop(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	relID := s.AddRelationship(100, 100)
	rev := s.Revision()

	require.True(t, c.DragStart(pt(100, 100)))
	c.DragEnd(pt(100, 100))

	assert.Equal(t, rev, s.Revision())
	assert.False(t, c.DragStart(pt(900, 900)), "nothing to drag")

	require.True(t, c.DragStart(pt(100, 100)))
	c.DragEnd(pt(130, 90))
	r, _ := s.Snapshot().Relationship(relID)
	assert.Equal(t, pt(130, 90), r.Center())
}

func TestKey_DeleteSelection(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(0, 0)
	_, err := s.AddAttribute(entityID, 60, -40)
	require.NoError(t, err)

	assert.False(t, c.Key(Key(KeyDelete)), "nothing selected")

	s.SelectItem(entityID, diagram.KindEntity)
	assert.True(t, c.Key(Key(KeyBackspace)))

	doc := s.Snapshot()
	assert.Empty(t, doc.Entities)
	assert.Empty(t, doc.Attributes)
	_, ok := s.Selection()
	assert.False(t, ok)
}

func TestKey_EscapeUnwindsState(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(0, 0)
	s.SelectItem(entityID, diagram.KindEntity)
	c.Sidebar().Open()
	require.NoError(t, c.Begin(ActionPlaceRelationship))

	c.Key(Key(KeyEscape))
	assert.Equal(t, ActionNone, c.Pending())
	assert.True(t, c.Sidebar().IsOpen())

	c.Key(Key(KeyEscape))
	assert.False(t, c.Sidebar().IsOpen())
	_, ok := s.Selection()
	assert.False(t, ok)
}

func TestKey_CommandsPassThrough(t *testing.T) {
	c, _ := newTestCanvas(t, Options{})

	assert.False(t, c.Key(Rune('e')))
	assert.Equal(t, CmdAddEntity, CommandForKey(Rune('e')))
	assert.Equal(t, CmdQuit, CommandForKey(Rune(3)))
	assert.Equal(t, CmdNone, CommandForKey(Key(KeyEnter)))
}

func TestDoubleClick_EmptyAddsEntity(t *testing.T) {
	c, s := newTestCanvas(t, Options{})

	c.DoubleClick(pt(200, 150))

	doc := s.Snapshot()
	require.Len(t, doc.Entities, 1)
	assert.Equal(t, pt(200, 150), doc.Entities[0].Center())
	require.Equal(t, FocusInline, c.Focus())

	typeText(c, "Product")
	c.Key(Key(KeyEnter))
	assert.Equal(t, "Product", s.Snapshot().Entities[0].Label)
}

func TestDoubleClick_ShapeFocusesSidebar(t *testing.T) {
	c, s := newTestCanvas(t, Options{})
	entityID := s.AddEntity(0, 0)

	c.DoubleClick(pt(60, 30))

	require.Equal(t, FocusSidebar, c.Focus())
	assert.Equal(t, "Edit entity", c.Sidebar().Title())
	assert.Equal(t, "", c.Sidebar().LabelValue(), "new entities show an empty input")

	typeText(c, "User")
	e, _ := s.Snapshot().Entity(entityID)
	assert.Equal(t, "User", e.Label, "every key writes through")
	assert.False(t, e.IsNew)

	c.Key(Key(KeyTab))
	assert.Equal(t, FocusCanvas, c.Focus())
	assert.Equal(t, "User", c.Sidebar().LabelValue())
}

func TestDoubleClick_InlineOption(t *testing.T) {
	c, s := newTestCanvas(t, Options{InlineDoubleClick: true})
	entityID := s.AddEntity(0, 0)
	require.NoError(t, s.UpdateEntity(entityID, store.EntityPatch{Label: store.String("Item")}))

	c.DoubleClick(pt(60, 30))

	require.Equal(t, FocusInline, c.Focus())
	assert.Equal(t, "Item", c.Editor().Text())

	c.Key(Key(KeyCtrlU))
	typeText(c, "Line")
	c.Key(Key(KeyEnter))

	e, _ := s.Snapshot().Entity(entityID)
	assert.Equal(t, "Line", e.Label)
}

func TestScene_ReflectsEditing(t *testing.T) {
	c, _ := newTestCanvas(t, Options{})

	require.NoError(t, c.Begin(ActionPlaceEntity))
	c.Click(pt(60, 30))
	typeText(c, "Ab")

	shapes := c.Scene().Layers[2].Shapes
	require.Len(t, shapes, 1)
	assert.True(t, shapes[0].Editing)
	assert.True(t, shapes[0].Selected)
	assert.Equal(t, "Ab", shapes[0].Label)
	assert.Equal(t, 2, shapes[0].Cursor)
}

func TestLabelEditor(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		keys       []KeyEvent
		wantText   string
		wantCursor int
	}{
		{"insert at end", "ab", []KeyEvent{Rune('c')}, "abc", 3},
		{"insert in middle", "ac", []KeyEvent{Key(KeyArrowLeft), Rune('b')}, "abc", 2},
		{"backspace", "abc", []KeyEvent{Key(KeyBackspace)}, "ab", 2},
		{"delete at home", "abc", []KeyEvent{Key(KeyHome), Key(KeyDelete)}, "bc", 0},
		{"delete word", "first second", []KeyEvent{Key(KeyCtrlW)}, "first ", 6},
		{"delete to start", "abcd", []KeyEvent{Key(KeyArrowLeft), Key(KeyCtrlU)}, "d", 0},
		{"delete to end", "abcd", []KeyEvent{Key(KeyHome), Key(KeyArrowRight), Key(KeyCtrlK)}, "a", 1},
		{"ignores control runes", "a", []KeyEvent{Rune('\x07')}, "a", 1},
		{"unicode", "caf", []KeyEvent{Rune('é')}, "café", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := NewLabelEditor("id", diagram.KindEntity, tt.initial)
			for _, k := range tt.keys {
				assert.True(t, ed.HandleKey(k))
			}
			assert.Equal(t, tt.wantText, ed.Text())
			assert.Equal(t, tt.wantCursor, ed.Cursor())
		})
	}

	ed := NewLabelEditor("id", diagram.KindAttribute, "")
	assert.False(t, ed.HandleKey(Key(KeyEnter)))
	assert.Equal(t, "Attribute", ed.CommitText())
}

func TestFreeAttributeSlot(t *testing.T) {
	e := diagram.Entity{ID: "e1", X: 100, Y: 100, Width: 120, Height: 60}
	d := &diagram.Diagram{Entities: []diagram.Entity{e}}

	slots := AttributeSlots(e)
	assert.Equal(t, slots[0], FreeAttributeSlot(d, e))

	for i := 0; i < 4; i++ {
		d.Attributes = append(d.Attributes, diagram.Attribute{ID: string(rune('a' + i)), EntityID: "e1", X: slots[i].X, Y: slots[i].Y})
		if i < 3 {
			assert.Equal(t, slots[i+1], FreeAttributeSlot(d, e))
		}
	}
	assert.Equal(t, slots[0], FreeAttributeSlot(d, e), "falls back to the top slot")
}

func TestNearestEntity(t *testing.T) {
	d := &diagram.Diagram{Entities: []diagram.Entity{
		{ID: "left", X: 0, Y: 0, Width: 120, Height: 60},
		{ID: "right", X: 400, Y: 0, Width: 120, Height: 60},
	}}

	e, dist, ok := NearestEntity(d, pt(300, 30))
	require.True(t, ok)
	assert.Equal(t, "right", e.ID)
	assert.InDelta(t, 160, dist, 1e-9)

	_, _, ok = NearestEntity(diagram.New(), pt(0, 0))
	assert.False(t, ok)
}
