package geometry

import "math"

// Edge identifies one side of a rectangle.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
)

// String returns the string representation of an Edge.
func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "Left"
	case EdgeTop:
		return "Top"
	case EdgeRight:
		return "Right"
	case EdgeBottom:
		return "Bottom"
	default:
		return "Unknown"
	}
}

type crossing struct {
	point Point
	t     float64
}

// LineRectIntersection returns the point where the segment start→end crosses an
// edge of r. Only crossings with parameter t in (0, 1] count. When several edges
// are crossed, preferEnd selects the one nearest end (greatest t), otherwise the
// one nearest start (least t). The returned point always lies exactly on the
// rectangle boundary.
func LineRectIntersection(start, end Point, r Rect, preferEnd bool) (Point, bool) {
	dx := end.X - start.X
	dy := end.Y - start.Y

	var hits []crossing
	switch {
	case Abs(dx) < Epsilon && Abs(dy) < Epsilon:
		return Point{}, false

	case Abs(dx) < Epsilon:
		// Vertical: only the top and bottom edges can be crossed.
		if start.X < r.Left || start.X > r.Right {
			return Point{}, false
		}
		for _, edgeY := range [2]float64{r.Top, r.Bottom} {
			t := (edgeY - start.Y) / dy
			if inUnitRange(t) {
				hits = append(hits, crossing{Point{X: start.X, Y: edgeY}, t})
			}
		}

	case Abs(dy) < Epsilon:
		// Horizontal: only the left and right edges can be crossed.
		if start.Y < r.Top || start.Y > r.Bottom {
			return Point{}, false
		}
		for _, edgeX := range [2]float64{r.Left, r.Right} {
			t := (edgeX - start.X) / dx
			if inUnitRange(t) {
				hits = append(hits, crossing{Point{X: edgeX, Y: start.Y}, t})
			}
		}

	default:
		for _, edgeX := range [2]float64{r.Left, r.Right} {
			t := (edgeX - start.X) / dx
			if !inUnitRange(t) {
				continue
			}
			y := start.Y + t*dy
			if y >= r.Top && y <= r.Bottom {
				hits = append(hits, crossing{Point{X: edgeX, Y: y}, t})
			}
		}
		for _, edgeY := range [2]float64{r.Top, r.Bottom} {
			t := (edgeY - start.Y) / dy
			if !inUnitRange(t) {
				continue
			}
			x := start.X + t*dx
			if x >= r.Left && x <= r.Right {
				hits = append(hits, crossing{Point{X: x, Y: edgeY}, t})
			}
		}
	}

	if len(hits) == 0 {
		return Point{}, false
	}

	best := hits[0]
	for _, h := range hits[1:] {
		if preferEnd && h.t > best.t || !preferEnd && h.t < best.t {
			best = h
		}
	}
	return best.point, true
}

func inUnitRange(t float64) bool {
	return t > 0 && t <= 1
}

// EllipseBoundaryPoint returns the point on the axis-aligned ellipse centered on
// c (full width w, full height h) in the direction of toward. When toward
// coincides with the center there is no direction and c is returned with false.
func EllipseBoundaryPoint(c Point, w, h float64, toward Point) (Point, bool) {
	dx := toward.X - c.X
	dy := toward.Y - c.Y
	if Abs(dx) < Epsilon && Abs(dy) < Epsilon {
		return c, false
	}
	a, b := w/2, h/2
	scale := 1 / math.Sqrt((dx*dx)/(a*a)+(dy*dy)/(b*b))
	return Point{X: c.X + dx*scale, Y: c.Y + dy*scale}, true
}

// EdgeOf returns the edge of r that p lies closest to. Ties resolve in the
// order left, right, top, bottom.
func EdgeOf(p Point, r Rect) Edge {
	edge := EdgeLeft
	best := Abs(p.X - r.Left)
	if d := Abs(p.X - r.Right); d < best {
		edge, best = EdgeRight, d
	}
	if d := Abs(p.Y - r.Top); d < best {
		edge, best = EdgeTop, d
	}
	if d := Abs(p.Y - r.Bottom); d < best {
		edge = EdgeBottom
	}
	return edge
}

// ClampToEdge projects p onto the given edge of r.
func ClampToEdge(p Point, r Rect, e Edge) Point {
	switch e {
	case EdgeLeft:
		return Point{X: r.Left, Y: Clamp(p.Y, r.Top, r.Bottom)}
	case EdgeRight:
		return Point{X: r.Right, Y: Clamp(p.Y, r.Top, r.Bottom)}
	case EdgeTop:
		return Point{X: Clamp(p.X, r.Left, r.Right), Y: r.Top}
	default:
		return Point{X: Clamp(p.X, r.Left, r.Right), Y: r.Bottom}
	}
}
