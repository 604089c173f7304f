package canvas

import (
	"math"

	"erd/geometry"
)

// Default world units per character cell. Terminal cells are about twice as
// tall as they are wide.
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

// Viewport maps world coordinates to character cells.
type Viewport struct {
	CellWidth  float64
	CellHeight float64
	Origin     geometry.Point // world point at the top-left corner of cell (0,0)
}

// NewViewport creates a viewport with the given cell size. Non-positive sizes
// fall back to the defaults.
func NewViewport(cellWidth, cellHeight float64) Viewport {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	return Viewport{CellWidth: cellWidth, CellHeight: cellHeight}
}

// maxCellCoord bounds cell coordinates so far-away world points still
// convert to well-defined ints.
const maxCellCoord = 1 << 30

// toCellCoord converts a cell coordinate computed in floating point,
// clamping it to ±maxCellCoord.
func toCellCoord(f float64) int {
	return int(math.Max(-maxCellCoord, math.Min(maxCellCoord, f)))
}

// ToCell returns the cell containing world point p.
func (v Viewport) ToCell(p geometry.Point) Cell {
	return Cell{
		X: toCellCoord(math.Floor((p.X - v.Origin.X) / v.CellWidth)),
		Y: toCellCoord(math.Floor((p.Y - v.Origin.Y) / v.CellHeight)),
	}
}

// ToWorld returns the world point at the center of cell c.
func (v Viewport) ToWorld(c Cell) geometry.Point {
	return geometry.Point{
		X: v.Origin.X + (float64(c.X)+0.5)*v.CellWidth,
		Y: v.Origin.Y + (float64(c.Y)+0.5)*v.CellHeight,
	}
}

// RectToCells returns the cells covered by r as x, y, width, height. Every
// rectangle covers at least one cell.
func (v Viewport) RectToCells(r geometry.Rect) (x, y, width, height int) {
	x = toCellCoord(math.Floor((r.Left - v.Origin.X) / v.CellWidth))
	y = toCellCoord(math.Floor((r.Top - v.Origin.Y) / v.CellHeight))
	right := toCellCoord(math.Ceil((r.Right-v.Origin.X)/v.CellWidth)) - 1
	bottom := toCellCoord(math.Ceil((r.Bottom-v.Origin.Y)/v.CellHeight)) - 1
	return x, y, max(right-x+1, 1), max(bottom-y+1, 1)
}

// Pan moves the viewport by whole cells.
func (v Viewport) Pan(dx, dy int) Viewport {
	v.Origin.X += float64(dx) * v.CellWidth
	v.Origin.Y += float64(dy) * v.CellHeight
	return v
}
