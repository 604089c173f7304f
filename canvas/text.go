package canvas

import "github.com/mattn/go-runewidth"

// Ellipsis marks truncated labels.
const Ellipsis = "…"

// StringWidth returns the display width of a string in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most width cells, ending in an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// DrawText renders text starting at (x, y) and returns the cell after the
// last rune drawn. Cells outside the canvas are skipped.
func (c *MatrixCanvas) DrawText(x, y int, text string, style Style) int {
	currentX := x
	for _, r := range text {
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		if c.inBounds(currentX, y) && (width == 1 || c.inBounds(currentX+1, y)) {
			c.matrix[y][currentX] = r
			c.styles[y][currentX] = style
			if width == 2 {
				c.matrix[y][currentX+1] = '\x00'
				c.styles[y][currentX+1] = style
			}
		}
		currentX += width
	}
	return currentX
}

// DrawTextCentered renders text centered on column cx, truncated to maxWidth.
// It returns the column the text starts at.
func (c *MatrixCanvas) DrawTextCentered(cx, y int, text string, maxWidth int, style Style) int {
	text = Truncate(text, maxWidth)
	start := cx - StringWidth(text)/2
	c.DrawText(start, y, text, style)
	return start
}
