package canvas

import "math"

// BoxStyle holds the runes of a rectangle border.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var (
	// DefaultBoxStyle is used for unselected entities.
	DefaultBoxStyle = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	// HeavyBoxStyle marks the selected entity.
	HeavyBoxStyle = BoxStyle{'┏', '┓', '┗', '┛', '━', '┃'}
)

// DrawBox draws a filled rectangle. Boxes smaller than 2x2 are drawn as a
// single row of border runes.
func (c *MatrixCanvas) DrawBox(x, y, width, height int, box BoxStyle, style Style) {
	if width < 2 || height < 2 {
		lo, hi := visibleRange(x, 0, max(width, 1), c.width)
		for i := lo; i < hi; i++ {
			c.setClipped(x+i, y, box.Horizontal, style)
		}
		return
	}

	c.Fill(x+1, y+1, width-2, height-2)

	c.setClipped(x, y, box.TopLeft, style)
	c.setClipped(x+width-1, y, box.TopRight, style)
	c.setClipped(x, y+height-1, box.BottomLeft, style)
	c.setClipped(x+width-1, y+height-1, box.BottomRight, style)

	lo, hi := visibleRange(x, 1, width-1, c.width)
	for i := lo; i < hi; i++ {
		c.setClipped(x+i, y, box.Horizontal, style)
		c.setClipped(x+i, y+height-1, box.Horizontal, style)
	}
	lo, hi = visibleRange(y, 1, height-1, c.height)
	for i := lo; i < hi; i++ {
		c.setClipped(x, y+i, box.Vertical, style)
		c.setClipped(x+width-1, y+i, box.Vertical, style)
	}
}

// DrawEllipse draws a filled ellipse approximated with rounded corners and
// parenthesis sides:
//
//	 ╭──────╮
//	(        )
//	 ╰──────╯
func (c *MatrixCanvas) DrawEllipse(x, y, width, height int, style Style) {
	if width < 4 || height < 3 {
		c.Fill(x, y, width, 1)
		c.setClipped(x, y, '(', style)
		c.setClipped(x+width-1, y, ')', style)
		return
	}

	c.Fill(x+1, y, width-2, height)

	c.setClipped(x+1, y, '╭', style)
	c.setClipped(x+width-2, y, '╮', style)
	c.setClipped(x+1, y+height-1, '╰', style)
	c.setClipped(x+width-2, y+height-1, '╯', style)
	lo, hi := visibleRange(x, 2, width-2, c.width)
	for i := lo; i < hi; i++ {
		c.setClipped(x+i, y, '─', style)
		c.setClipped(x+i, y+height-1, '─', style)
	}
	lo, hi = visibleRange(y, 1, height-1, c.height)
	for i := lo; i < hi; i++ {
		c.setClipped(x, y+i, '(', style)
		c.setClipped(x+width-1, y+i, ')', style)
	}
}

// DrawDiamond draws a filled diamond inscribed in the given cells.
func (c *MatrixCanvas) DrawDiamond(x, y, width, height int, style Style) {
	if height < 3 || width < 4 {
		c.Fill(x, y, width, 1)
		c.setClipped(x, y, '<', style)
		c.setClipped(x+width-1, y, '>', style)
		return
	}

	cx := x + width/2
	mid := float64(height-1) / 2
	lo, hi := visibleRange(y, 0, height, c.height)
	for row := lo; row < hi; row++ {
		dist := math.Abs(float64(row) - mid)
		half := int(math.Round(float64(width) / 2 * (1 - dist/(mid+1))))
		half = max(half, 1)
		left, right := cx-half, cx+half-1

		c.Fill(left+1, y+row, right-left-1, 1)

		switch {
		case float64(row) < mid:
			c.setClipped(left, y+row, '╱', style)
			c.setClipped(right, y+row, '╲', style)
		case float64(row) > mid:
			c.setClipped(left, y+row, '╲', style)
			c.setClipped(right, y+row, '╱', style)
		default:
			c.setClipped(left, y+row, '<', style)
			c.setClipped(right, y+row, '>', style)
		}
	}
}
