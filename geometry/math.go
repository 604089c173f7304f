// Package geometry contains the pure functions used to place connector lines
// between diagram shapes.
package geometry

import "math"

// Epsilon is the tolerance below which a direction component is treated as zero.
const Epsilon = 0.001

// Shape sizes in world units.
const (
	AttributeWidth      = 80.0
	AttributeHeight     = 40.0
	RelationshipSize    = 80.0
	DefaultEntityWidth  = 120.0
	DefaultEntityHeight = 60.0
)

// Point represents a 2D coordinate in world units.
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns the absolute value of a float.
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// IsHorizontal returns true if the line from a to b is more horizontal than vertical.
func IsHorizontal(a, b Point) bool {
	return Abs(b.X-a.X) > Abs(b.Y-a.Y)
}

// IsVertical returns true if the line from a to b is more vertical than horizontal.
func IsVertical(a, b Point) bool {
	return Abs(b.Y-a.Y) > Abs(b.X-a.X)
}

// nearlyEqual compares two floats within tol.
func nearlyEqual(a, b, tol float64) bool {
	return Abs(a-b) <= tol
}
