package editor

import (
	"erd/diagram"
	"erd/geometry"
)

// HitEntity reports whether p is inside the entity rectangle.
func HitEntity(e diagram.Entity, p geometry.Point) bool {
	return e.Bounds().Contains(p)
}

// HitAttribute reports whether p is inside the attribute ellipse.
func HitAttribute(a diagram.Attribute, p geometry.Point) bool {
	rx, ry := geometry.AttributeWidth/2, geometry.AttributeHeight/2
	dx, dy := (p.X-a.X)/rx, (p.Y-a.Y)/ry
	return dx*dx+dy*dy <= 1
}

// HitRelationship reports whether p is inside the relationship diamond.
func HitRelationship(r diagram.Relationship, p geometry.Point) bool {
	half := geometry.RelationshipSize / 2
	return geometry.Abs(p.X-r.X)/half+geometry.Abs(p.Y-r.Y)/half <= 1
}

// HitTest returns the topmost node under p. Relationships are drawn above
// attributes, attributes above entities, and later nodes above earlier ones.
func HitTest(d *diagram.Diagram, p geometry.Point) (diagram.Selection, bool) {
	for i := len(d.Relationships) - 1; i >= 0; i-- {
		if HitRelationship(d.Relationships[i], p) {
			return diagram.Selection{ID: d.Relationships[i].ID, Kind: diagram.KindRelationship}, true
		}
	}
	for i := len(d.Attributes) - 1; i >= 0; i-- {
		if HitAttribute(d.Attributes[i], p) {
			return diagram.Selection{ID: d.Attributes[i].ID, Kind: diagram.KindAttribute}, true
		}
	}
	for i := len(d.Entities) - 1; i >= 0; i-- {
		if HitEntity(d.Entities[i], p) {
			return diagram.Selection{ID: d.Entities[i].ID, Kind: diagram.KindEntity}, true
		}
	}
	return diagram.Selection{}, false
}
