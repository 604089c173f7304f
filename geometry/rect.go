package geometry

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectFromTopLeft builds a rectangle from its top-left corner and size.
func RectFromTopLeft(x, y, width, height float64) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// RectFromCenter builds a rectangle centered on c.
func RectFromCenter(c Point, width, height float64) Rect {
	return Rect{
		Left:   c.X - width/2,
		Top:    c.Y - height/2,
		Right:  c.X + width/2,
		Bottom: c.Y + height/2,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains checks if a point is inside the rectangle or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// OnBoundary reports whether p lies on one of the rectangle's edges within tol.
func (r Rect) OnBoundary(p Point, tol float64) bool {
	inX := p.X >= r.Left-tol && p.X <= r.Right+tol
	inY := p.Y >= r.Top-tol && p.Y <= r.Bottom+tol
	if !inX || !inY {
		return false
	}
	return nearlyEqual(p.X, r.Left, tol) || nearlyEqual(p.X, r.Right, tol) ||
		nearlyEqual(p.Y, r.Top, tol) || nearlyEqual(p.Y, r.Bottom, tol)
}

// Overlaps reports whether two rectangles share any point, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.Right < o.Left || r.Left > o.Right || r.Bottom < o.Top || r.Top > o.Bottom)
}

// ClampToNearestEdge projects p onto the rectangle edge closest to it. Used when
// intersection math yields nothing so a connector still has an endpoint.
func ClampToNearestEdge(p Point, r Rect) Point {
	return ClampToEdge(p, r, EdgeOf(p, r))
}
