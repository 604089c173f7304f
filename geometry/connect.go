package geometry

// Connection is a connector segment. For relationship connectors From is the
// diamond corner and To the point on the entity boundary.
type Connection struct {
	From Point
	To   Point
}

// AttributeConnectionPoints computes the connector between an attribute ellipse
// centered on attr and an entity rectangle. The segment runs center to center and
// is clipped at both shape boundaries; either end falls back to its shape center
// when the centers coincide.
func AttributeConnectionPoints(attr Point, entity Rect) Connection {
	entityCenter := entity.Center()

	from, ok := EllipseBoundaryPoint(attr, AttributeWidth, AttributeHeight, entityCenter)
	if !ok {
		from = attr
	}
	to, ok := LineRectIntersection(attr, entityCenter, entity, true)
	if !ok {
		to = entityCenter
	}
	return Connection{From: from, To: to}
}

// DiamondCorners returns the top, right, bottom and left vertices of the
// relationship diamond centered on c.
func DiamondCorners(c Point) [4]Point {
	half := RelationshipSize / 2
	return [4]Point{
		{X: c.X, Y: c.Y - half},
		{X: c.X + half, Y: c.Y},
		{X: c.X, Y: c.Y + half},
		{X: c.X - half, Y: c.Y},
	}
}

// NearestCorner returns the corner closest to target and its index. The first
// minimum wins on ties.
func NearestCorner(corners [4]Point, target Point) (Point, int) {
	best := 0
	bestDist := Distance(corners[0], target)
	for i := 1; i < len(corners); i++ {
		if d := Distance(corners[i], target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return corners[best], best
}

// RelationshipConnectionPoints computes the connector from the relationship
// diamond centered on rel to an entity rectangle. The line always exists: when the
// corner-to-center segment does not cross the rectangle the corner is clamped to
// the nearest edge instead.
func RelationshipConnectionPoints(rel Point, entity Rect) Connection {
	entityCenter := entity.Center()
	corner, _ := NearestCorner(DiamondCorners(rel), entityCenter)

	point, ok := LineRectIntersection(corner, entityCenter, entity, false)
	if !ok {
		point = ClampToNearestEdge(corner, entity)
	}
	return Connection{From: corner, To: point}
}

// SelfRelationshipConnectionPoints computes the two connectors of a relationship
// whose both ends are the same entity. They leave from the two corners adjacent
// to the nearest one; the first lands on the entity's left or top edge and the
// second on its right or bottom edge, so the lines never coincide.
func SelfRelationshipConnectionPoints(rel Point, entity Rect) [2]Connection {
	entityCenter := entity.Center()
	corners := DiamondCorners(rel)
	_, nearest := NearestCorner(corners, entityCenter)

	first := corners[(nearest+3)%4]
	second := corners[(nearest+1)%4]
	if second.X+second.Y < first.X+first.Y {
		first, second = second, first
	}

	return [2]Connection{
		{From: first, To: landOn(first, entity, EdgeLeft, EdgeTop)},
		{From: second, To: landOn(second, entity, EdgeRight, EdgeBottom)},
	}
}

// landOn finds where corner meets the entity, restricted to one of the two
// preferred edges.
func landOn(corner Point, entity Rect, a, b Edge) Point {
	if p, ok := LineRectIntersection(corner, entity.Center(), entity, false); ok {
		if e := EdgeOf(p, entity); e == a || e == b {
			return p
		}
	}
	pa := ClampToEdge(corner, entity, a)
	pb := ClampToEdge(corner, entity, b)
	if Distance(corner, pb) < Distance(corner, pa) {
		return pb
	}
	return pa
}

// ConnectorLabelPosition returns the point offset units back from to along the
// connector direction. A zero-length connector yields to itself.
func ConnectorLabelPosition(from, to Point, offset float64) Point {
	d := Distance(from, to)
	if d < Epsilon {
		return to
	}
	return Point{
		X: to.X - (to.X-from.X)/d*offset,
		Y: to.Y - (to.Y-from.Y)/d*offset,
	}
}
