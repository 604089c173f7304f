// Package canvas rasterizes diagram scenes into a matrix of styled runes.
package canvas

import (
	"errors"
	"math"
	"strings"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// Cell is a character cell position. Origin (0,0) is top-left.
type Cell struct {
	X, Y int
}

// Style is the role of a drawn cell. Front ends map it to colors.
type Style int

const (
	StyleDefault Style = iota
	StyleShape
	StyleSelected
	StyleConnector
	StyleCardinality
	StyleLabel
	StyleCursor
)

// MatrixCanvas is a rune matrix with a style per cell.
//
// MatrixCanvas is NOT thread-safe. The editor draws one frame at a time from
// its event loop.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
//
// Wide runes occupy two cells; the second holds '\x00'.
type MatrixCanvas struct {
	matrix [][]rune
	styles [][]Style
	width  int
	height int
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}

	matrix := make([][]rune, height)
	styles := make([][]Style, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		styles[y] = make([]Style, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		styles: styles,
		width:  width,
		height: height,
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the character at the given position.
// Returns ' ' (space) if position is out of bounds.
func (c *MatrixCanvas) Get(p Cell) rune {
	if !c.inBounds(p.X, p.Y) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// StyleAt returns the style of the cell at p.
func (c *MatrixCanvas) StyleAt(p Cell) Style {
	if !c.inBounds(p.X, p.Y) {
		return StyleDefault
	}
	return c.styles[p.Y][p.X]
}

// Set places a character at the given position.
func (c *MatrixCanvas) Set(p Cell, char rune, style Style) error {
	if !c.inBounds(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = char
	c.styles[p.Y][p.X] = style
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
			c.styles[y][x] = StyleDefault
		}
	}
}

// Each calls fn for every cell in row-major order. Wide-rune continuation
// cells are skipped.
func (c *MatrixCanvas) Each(fn func(p Cell, r rune, style Style)) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if r := c.matrix[y][x]; r != '\x00' {
				fn(Cell{X: x, Y: y}, r, c.styles[y][x])
			}
		}
	}
}

// String returns the canvas as a string with newlines.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if r := c.matrix[y][x]; r != '\x00' {
				sb.WriteRune(r)
			}
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// Lines returns the canvas rows with trailing spaces removed.
func (c *MatrixCanvas) Lines() []string {
	rows := strings.Split(c.String(), "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " ")
	}
	return rows
}

// DrawLine draws a line between two cells using Bresenham's algorithm. When
// dashed, every third cell is left blank. Only the part of the line that
// crosses the canvas is walked.
func (c *MatrixCanvas) DrawLine(p1, p2 Cell, dashed bool, style Style) {
	char := lineChar(p2.X-p1.X, p2.Y-p1.Y)

	from, to, ok := c.clipLine(p1, p2)
	if !ok {
		return
	}

	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)

	x, y := from.X, from.Y

	xInc := 1
	if from.X > to.X {
		xInc = -1
	}

	yInc := 1
	if from.Y > to.Y {
		yInc = -1
	}

	// Keep the dash phase of the unclipped line so panning does not shift it
	step := max(abs(from.X-p1.X), abs(from.Y-p1.Y))
	plot := func(x, y int) {
		if !dashed || step%3 != 2 {
			c.setClipped(x, y, char, style)
		}
		step++
	}

	if dx > dy {
		err := dx / 2
		for x != to.X {
			plot(x, y)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != to.Y {
			plot(x, y)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}

	// Draw the final point
	c.setClipped(to.X, to.Y, char, style)
}

// clipLine cuts the segment p1-p2 down to the canvas grown by one cell on
// every side (Liang-Barsky). It reports false when the segment misses the
// canvas entirely. Endpoints already inside are returned unchanged.
func (c *MatrixCanvas) clipLine(p1, p2 Cell) (Cell, Cell, bool) {
	x0, y0 := float64(p1.X), float64(p1.Y)
	dx, dy := float64(p2.X-p1.X), float64(p2.Y-p1.Y)

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 + 1},
		{dx, float64(c.width) - x0},
		{-dy, y0 + 1},
		{dy, float64(c.height) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return Cell{}, Cell{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return Cell{}, Cell{}, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return Cell{}, Cell{}, false
			}
			t1 = math.Min(t1, t)
		}
	}

	from, to := p1, p2
	if t0 > 0 {
		from = Cell{X: int(math.Round(x0 + t0*dx)), Y: int(math.Round(y0 + t0*dy))}
	}
	if t1 < 1 {
		to = Cell{X: int(math.Round(x0 + t1*dx)), Y: int(math.Round(y0 + t1*dy))}
	}
	return from, to, true
}

// lineChar picks the rune that best follows a line's direction.
func lineChar(dx, dy int) rune {
	adx, ady := abs(dx), abs(dy)
	switch {
	case ady*2 <= adx:
		return '─'
	case adx*2 <= ady:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// Fill blanks the part of a rectangle of cells that lies on the canvas.
func (c *MatrixCanvas) Fill(x, y, width, height int) {
	rowLo, rowHi := visibleRange(y, 0, height, c.height)
	colLo, colHi := visibleRange(x, 0, width, c.width)
	for row := rowLo; row < rowHi; row++ {
		for col := colLo; col < colHi; col++ {
			c.matrix[y+row][x+col] = ' '
			c.styles[y+row][x+col] = StyleDefault
		}
	}
}

// visibleRange narrows the offsets [from, to) to those where origin+offset
// falls inside [0, limit).
func visibleRange(origin, from, to, limit int) (int, int) {
	return max(from, -origin), min(to, limit-origin)
}

func (c *MatrixCanvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// setClipped sets a character with bounds checking (no error).
func (c *MatrixCanvas) setClipped(x, y int, char rune, style Style) {
	if c.inBounds(x, y) {
		c.matrix[y][x] = char
		c.styles[y][x] = style
	}
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
