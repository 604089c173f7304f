package editor

import (
	"math"

	"erd/diagram"
	"erd/geometry"
)

const (
	// AttributeProximity is how close to an entity center a placing-attribute
	// click on empty canvas must be.
	AttributeProximity = 200.0

	// AttributeSpacing is the gap between an entity and an auto-placed attribute.
	AttributeSpacing = 20.0
)

// NearestEntity returns the entity whose center is closest to p and that
// distance. The first minimum wins.
func NearestEntity(d *diagram.Diagram, p geometry.Point) (diagram.Entity, float64, bool) {
	var nearest diagram.Entity
	minDist := math.Inf(1)
	for _, e := range d.Entities {
		if dist := geometry.Distance(p, e.Center()); dist < minDist {
			nearest, minDist = e, dist
		}
	}
	return nearest, minDist, len(d.Entities) > 0
}

// AttributeSlots returns the candidate attribute centers around an entity in
// the order top, right, bottom, left.
func AttributeSlots(e diagram.Entity) [4]geometry.Point {
	c := e.Center()
	return [4]geometry.Point{
		{X: c.X, Y: e.Y - AttributeSpacing - geometry.AttributeHeight/2},
		{X: e.X + e.Width + AttributeSpacing + geometry.AttributeWidth/2, Y: c.Y},
		{X: c.X, Y: e.Y + e.Height + AttributeSpacing + geometry.AttributeHeight/2},
		{X: e.X - AttributeSpacing - geometry.AttributeWidth/2, Y: c.Y},
	}
}

// FreeAttributeSlot returns the first slot around the entity that overlaps
// neither the entity nor one of its attributes. When every slot is taken the
// top slot is used.
func FreeAttributeSlot(d *diagram.Diagram, e diagram.Entity) geometry.Point {
	slots := AttributeSlots(e)
	owned := d.AttributesOf(e.ID)

	for _, slot := range slots {
		box := geometry.RectFromCenter(slot, geometry.AttributeWidth, geometry.AttributeHeight)
		if box.Overlaps(e.Bounds()) {
			continue
		}
		free := true
		for _, a := range owned {
			if box.Overlaps(a.Bounds()) {
				free = false
				break
			}
		}
		if free {
			return slot
		}
	}
	return slots[0]
}
