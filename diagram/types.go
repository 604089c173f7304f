// Package diagram contains the entity-relationship document model.
package diagram

import "erd/geometry"

// Kind identifies one of the three node types of a diagram.
type Kind string

const (
	KindEntity       Kind = "entity"
	KindAttribute    Kind = "attribute"
	KindRelationship Kind = "relationship"
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// DefaultLabel returns the placeholder label a node of this kind starts with.
func (k Kind) DefaultLabel() string {
	switch k {
	case KindEntity:
		return "Entity"
	case KindAttribute:
		return "Attribute"
	case KindRelationship:
		return "Relationship"
	default:
		return ""
	}
}

// IsDefaultLabel reports whether label is any kind's placeholder label.
func IsDefaultLabel(label string) bool {
	return label == KindEntity.DefaultLabel() ||
		label == KindAttribute.DefaultLabel() ||
		label == KindRelationship.DefaultLabel()
}

// Entity is a rectangle node. X and Y are the top-left corner.
type Entity struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
	IsNew  bool    `json:"isNew,omitempty"` // Opens the inline editor once after creation
}

// Bounds returns the entity rectangle.
func (e Entity) Bounds() geometry.Rect {
	return geometry.RectFromTopLeft(e.X, e.Y, e.Width, e.Height)
}

// Center returns the center point of the entity.
func (e Entity) Center() geometry.Point {
	return e.Bounds().Center()
}

// Attribute is an ellipse node bound to exactly one entity. X and Y are the center.
type Attribute struct {
	ID       string  `json:"id"`
	EntityID string  `json:"entityId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Label    string  `json:"label"`
	IsNew    bool    `json:"isNew,omitempty"`
}

// Center returns the center point of the attribute.
func (a Attribute) Center() geometry.Point {
	return geometry.Point{X: a.X, Y: a.Y}
}

// Bounds returns the bounding box of the attribute ellipse.
func (a Attribute) Bounds() geometry.Rect {
	return geometry.RectFromCenter(a.Center(), geometry.AttributeWidth, geometry.AttributeHeight)
}

// Relationship is a diamond node joining zero or more entities. X and Y are the center.
type Relationship struct {
	ID                string                 `json:"id"`
	X                 float64                `json:"x"`
	Y                 float64                `json:"y"`
	Label             string                 `json:"label"`
	ConnectedEntities []string               `json:"connectedEntities"`
	Cardinalities     map[string]Cardinality `json:"cardinalities,omitempty"`
	// Recursive marks a relationship whose single connected entity sits on
	// both ends.
	Recursive bool `json:"recursive,omitempty"`
	IsNew     bool `json:"isNew,omitempty"`
}

// Center returns the center point of the relationship.
func (r Relationship) Center() geometry.Point {
	return geometry.Point{X: r.X, Y: r.Y}
}

// Bounds returns the bounding box of the relationship diamond.
func (r Relationship) Bounds() geometry.Rect {
	return geometry.RectFromCenter(r.Center(), geometry.RelationshipSize, geometry.RelationshipSize)
}

// IsConnected reports whether the relationship already joins entityID.
func (r Relationship) IsConnected(entityID string) bool {
	for _, id := range r.ConnectedEntities {
		if id == entityID {
			return true
		}
	}
	return false
}

// IsSelf reports whether the relationship is drawn as a loop on one entity.
func (r Relationship) IsSelf() bool {
	return r.Recursive && len(r.ConnectedEntities) == 1
}

// CardinalityFor returns the cardinality recorded for entityID, or the default.
func (r Relationship) CardinalityFor(entityID string) Cardinality {
	if c, ok := r.Cardinalities[entityID]; ok {
		return c
	}
	return DefaultCardinality
}

// Diagram is the persisted document: three insertion-ordered collections.
type Diagram struct {
	Entities      []Entity       `json:"entities"`
	Attributes    []Attribute    `json:"attributes"`
	Relationships []Relationship `json:"relationships"`
}

// New returns an empty diagram with non-nil collections.
func New() *Diagram {
	return &Diagram{
		Entities:      []Entity{},
		Attributes:    []Attribute{},
		Relationships: []Relationship{},
	}
}

// IsEmpty returns true if the diagram has no nodes.
func (d *Diagram) IsEmpty() bool {
	return len(d.Entities) == 0 && len(d.Attributes) == 0 && len(d.Relationships) == 0
}

// EntityIndex returns the position of the entity in d.Entities, or -1.
func (d *Diagram) EntityIndex(id string) int {
	for i := range d.Entities {
		if d.Entities[i].ID == id {
			return i
		}
	}
	return -1
}

// AttributeIndex returns the position of the attribute in d.Attributes, or -1.
func (d *Diagram) AttributeIndex(id string) int {
	for i := range d.Attributes {
		if d.Attributes[i].ID == id {
			return i
		}
	}
	return -1
}

// RelationshipIndex returns the position of the relationship in d.Relationships, or -1.
func (d *Diagram) RelationshipIndex(id string) int {
	for i := range d.Relationships {
		if d.Relationships[i].ID == id {
			return i
		}
	}
	return -1
}

// Entity looks up an entity by id.
func (d *Diagram) Entity(id string) (Entity, bool) {
	if i := d.EntityIndex(id); i >= 0 {
		return d.Entities[i], true
	}
	return Entity{}, false
}

// Attribute looks up an attribute by id.
func (d *Diagram) Attribute(id string) (Attribute, bool) {
	if i := d.AttributeIndex(id); i >= 0 {
		return d.Attributes[i], true
	}
	return Attribute{}, false
}

// Relationship looks up a relationship by id.
func (d *Diagram) Relationship(id string) (Relationship, bool) {
	if i := d.RelationshipIndex(id); i >= 0 {
		return d.Relationships[i], true
	}
	return Relationship{}, false
}

// AttributesOf returns the attributes bound to entityID in insertion order.
func (d *Diagram) AttributesOf(entityID string) []Attribute {
	var attrs []Attribute
	for _, a := range d.Attributes {
		if a.EntityID == entityID {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// Label returns the label of the node with the given id and kind.
func (d *Diagram) Label(id string, kind Kind) (string, bool) {
	switch kind {
	case KindEntity:
		e, ok := d.Entity(id)
		return e.Label, ok
	case KindAttribute:
		a, ok := d.Attribute(id)
		return a.Label, ok
	case KindRelationship:
		r, ok := d.Relationship(id)
		return r.Label, ok
	}
	return "", false
}

// Contains reports whether a node with the given id and kind exists.
func (d *Diagram) Contains(id string, kind Kind) bool {
	_, ok := d.Label(id, kind)
	return ok
}

// Clone creates a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}

	clone := &Diagram{
		Entities:      make([]Entity, len(d.Entities)),
		Attributes:    make([]Attribute, len(d.Attributes)),
		Relationships: make([]Relationship, len(d.Relationships)),
	}

	// Entities and attributes hold only values
	copy(clone.Entities, d.Entities)
	copy(clone.Attributes, d.Attributes)

	// Relationships need their slice and map copied
	for i, rel := range d.Relationships {
		clone.Relationships[i] = rel
		if rel.ConnectedEntities != nil {
			clone.Relationships[i].ConnectedEntities = make([]string, len(rel.ConnectedEntities))
			copy(clone.Relationships[i].ConnectedEntities, rel.ConnectedEntities)
		}
		if rel.Cardinalities != nil {
			clone.Relationships[i].Cardinalities = make(map[string]Cardinality, len(rel.Cardinalities))
			for k, v := range rel.Cardinalities {
				clone.Relationships[i].Cardinalities[k] = v
			}
		}
	}

	return clone
}

// Selection identifies the selected node. It is UI state and never serialized.
type Selection struct {
	ID   string
	Kind Kind
}
