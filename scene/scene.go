// Package scene reduces a diagram to ordered drawing primitives.
package scene

import (
	"erd/diagram"
	"erd/geometry"
)

// CardinalityLabelOffset is how far back from the entity end of a
// relationship connector its cardinality label is drawn.
const CardinalityLabelOffset = 15.0

// LayerKind identifies one layer of a scene. Layers are drawn in the order
// the constants are declared, later layers on top.
type LayerKind int

const (
	LayerAttributeConnectors LayerKind = iota
	LayerRelationshipConnectors
	LayerEntities
	LayerAttributes
	LayerRelationships
)

// String returns the layer name.
func (l LayerKind) String() string {
	switch l {
	case LayerAttributeConnectors:
		return "attribute-connectors"
	case LayerRelationshipConnectors:
		return "relationship-connectors"
	case LayerEntities:
		return "entities"
	case LayerAttributes:
		return "attributes"
	case LayerRelationships:
		return "relationships"
	default:
		return "unknown"
	}
}

// Line is a dashed connector between two shapes.
type Line struct {
	From, To geometry.Point
	OwnerID  string // attribute or relationship the connector belongs to
	EntityID string
}

// Text is a free-standing label centered on At.
type Text struct {
	At   geometry.Point
	Text string
}

// Shape is one node ready to draw.
type Shape struct {
	ID       string
	Kind     diagram.Kind
	Bounds   geometry.Rect
	Label    string
	Selected bool
	Editing  bool
	Cursor   int // rune offset of the cursor in Label while Editing
}

// Layer groups the primitives drawn in one pass.
type Layer struct {
	Kind   LayerKind
	Lines  []Line
	Texts  []Text
	Shapes []Shape
}

// Scene is a diagram reduced to drawing primitives, bottom layer first.
type Scene struct {
	Layers []Layer
}

// Layer returns the layer of the given kind.
func (s Scene) Layer(kind LayerKind) Layer {
	for _, l := range s.Layers {
		if l.Kind == kind {
			return l
		}
	}
	return Layer{Kind: kind}
}

// View carries the UI state that changes how the document is drawn.
type View struct {
	Selection *diagram.Selection
	Editing   *Editing
}

// Editing describes a label being typed into a shape.
type Editing struct {
	ID     string
	Kind   diagram.Kind
	Text   string
	Cursor int
}

func (v View) selected(id string, kind diagram.Kind) bool {
	return v.Selection != nil && v.Selection.ID == id && v.Selection.Kind == kind
}

func (v View) shape(id string, kind diagram.Kind, bounds geometry.Rect, label string) Shape {
	s := Shape{
		ID:       id,
		Kind:     kind,
		Bounds:   bounds,
		Label:    label,
		Selected: v.selected(id, kind),
	}
	if v.Editing != nil && v.Editing.ID == id && v.Editing.Kind == kind {
		s.Editing = true
		s.Label = v.Editing.Text
		s.Cursor = v.Editing.Cursor
	}
	return s
}

// Build computes every connector and shape of the document in draw order.
func Build(d *diagram.Diagram, view View) Scene {
	entities := make(map[string]diagram.Entity, len(d.Entities))
	for _, e := range d.Entities {
		entities[e.ID] = e
	}

	attrLines := Layer{Kind: LayerAttributeConnectors}
	for _, a := range d.Attributes {
		e, ok := entities[a.EntityID]
		if !ok {
			continue
		}
		conn := geometry.AttributeConnectionPoints(a.Center(), e.Bounds())
		attrLines.Lines = append(attrLines.Lines, Line{From: conn.From, To: conn.To, OwnerID: a.ID, EntityID: e.ID})
	}

	relLines := Layer{Kind: LayerRelationshipConnectors}
	for _, r := range d.Relationships {
		var conns []geometry.Connection
		var targets []string

		if r.IsSelf() {
			// The entity sits on both ends, so it gets two separated connectors
			if e, ok := entities[r.ConnectedEntities[0]]; ok {
				pair := geometry.SelfRelationshipConnectionPoints(r.Center(), e.Bounds())
				conns = pair[:]
				targets = []string{e.ID, e.ID}
			}
		} else {
			for _, id := range r.ConnectedEntities {
				e, ok := entities[id]
				if !ok {
					continue
				}
				conns = append(conns, geometry.RelationshipConnectionPoints(r.Center(), e.Bounds()))
				targets = append(targets, id)
			}
		}

		for i, conn := range conns {
			relLines.Lines = append(relLines.Lines, Line{From: conn.From, To: conn.To, OwnerID: r.ID, EntityID: targets[i]})
			relLines.Texts = append(relLines.Texts, Text{
				At:   geometry.ConnectorLabelPosition(conn.From, conn.To, CardinalityLabelOffset),
				Text: r.CardinalityFor(targets[i]).String(),
			})
		}
	}

	entityShapes := Layer{Kind: LayerEntities}
	for _, e := range d.Entities {
		entityShapes.Shapes = append(entityShapes.Shapes, view.shape(e.ID, diagram.KindEntity, e.Bounds(), e.Label))
	}

	attrShapes := Layer{Kind: LayerAttributes}
	for _, a := range d.Attributes {
		attrShapes.Shapes = append(attrShapes.Shapes, view.shape(a.ID, diagram.KindAttribute, a.Bounds(), a.Label))
	}

	relShapes := Layer{Kind: LayerRelationships}
	for _, r := range d.Relationships {
		relShapes.Shapes = append(relShapes.Shapes, view.shape(r.ID, diagram.KindRelationship, r.Bounds(), r.Label))
	}

	return Scene{Layers: []Layer{attrLines, relLines, entityShapes, attrShapes, relShapes}}
}
