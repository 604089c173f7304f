package canvas

import (
	"math"
	"strings"

	"erd/diagram"
	"erd/geometry"
	"erd/scene"
)

// Render draws every layer of the scene, bottom first, so shapes hide the
// connectors they overlap.
func Render(c *MatrixCanvas, sc scene.Scene, vp Viewport) {
	for _, layer := range sc.Layers {
		for _, line := range layer.Lines {
			c.DrawLine(vp.ToCell(line.From), vp.ToCell(line.To), true, StyleConnector)
		}
		for _, text := range layer.Texts {
			at := vp.ToCell(text.At)
			c.DrawTextCentered(at.X, at.Y, text.Text, 4, StyleCardinality)
		}
		for _, shape := range layer.Shapes {
			drawShape(c, shape, vp)
		}
	}
}

func drawShape(c *MatrixCanvas, s scene.Shape, vp Viewport) {
	x, y, w, h := vp.RectToCells(s.Bounds)

	style := StyleShape
	if s.Selected {
		style = StyleSelected
	}

	switch s.Kind {
	case diagram.KindEntity:
		box := DefaultBoxStyle
		if s.Selected {
			box = HeavyBoxStyle
		}
		c.DrawBox(x, y, w, h, box, style)
	case diagram.KindAttribute:
		c.DrawEllipse(x, y, w, h, style)
	case diagram.KindRelationship:
		c.DrawDiamond(x, y, w, h, style)
	}

	drawLabel(c, s, x+w/2, y+h/2, max(w-2, 1))
}

// drawLabel centers a shape label. While the label is edited the cell under
// the cursor is highlighted.
func drawLabel(c *MatrixCanvas, s scene.Shape, cx, cy, maxWidth int) {
	if !s.Editing {
		c.DrawTextCentered(cx, cy, s.Label, maxWidth, StyleLabel)
		return
	}

	runes := []rune(s.Label)
	cursor := min(max(s.Cursor, 0), len(runes))

	// Keep the cursor visible in long labels by showing the tail
	visible := runes
	for StringWidth(string(visible)) >= maxWidth && cursor > 0 && len(visible) > 0 {
		visible = visible[1:]
		cursor--
	}

	text := string(visible)
	start := cx - (StringWidth(text)+1)/2
	c.DrawText(start, cy, text, StyleLabel)

	cursorX := start + StringWidth(string(visible[:cursor]))
	r := ' '
	if cursor < len(visible) {
		r = visible[cursor]
	}
	c.setClipped(cursorX, cy, r, StyleCursor)
}

// Largest canvas Fit will ask for. Bigger scenes get coarser cells instead.
const (
	MaxFitWidth  = 480
	MaxFitHeight = 240
)

// Fit returns a viewport and canvas size that show the whole scene with a
// margin of one cell. The cell size grows when the scene would otherwise
// need more than MaxFitWidth x MaxFitHeight cells.
func Fit(sc scene.Scene, cellWidth, cellHeight float64) (Viewport, int, int) {
	vp := NewViewport(cellWidth, cellHeight)

	bounds, ok := sceneBounds(sc)
	if !ok {
		return vp, 1, 1
	}

	if bounds.Width()/vp.CellWidth > MaxFitWidth-3 {
		vp.CellWidth = bounds.Width() / (MaxFitWidth - 3)
	}
	if bounds.Height()/vp.CellHeight > MaxFitHeight-3 {
		vp.CellHeight = bounds.Height() / (MaxFitHeight - 3)
	}

	vp.Origin = geometry.Point{X: bounds.Left - vp.CellWidth, Y: bounds.Top - vp.CellHeight}
	width := min(int(math.Ceil(bounds.Width()/vp.CellWidth))+3, MaxFitWidth)
	height := min(int(math.Ceil(bounds.Height()/vp.CellHeight))+3, MaxFitHeight)
	return vp, width, height
}

func sceneBounds(sc scene.Scene) (geometry.Rect, bool) {
	var bounds geometry.Rect
	found := false
	grow := func(r geometry.Rect) {
		if !found {
			bounds, found = r, true
			return
		}
		bounds.Left = math.Min(bounds.Left, r.Left)
		bounds.Top = math.Min(bounds.Top, r.Top)
		bounds.Right = math.Max(bounds.Right, r.Right)
		bounds.Bottom = math.Max(bounds.Bottom, r.Bottom)
	}

	for _, layer := range sc.Layers {
		for _, s := range layer.Shapes {
			grow(s.Bounds)
		}
		for _, t := range layer.Texts {
			grow(geometry.Rect{Left: t.At.X, Top: t.At.Y, Right: t.At.X, Bottom: t.At.Y})
		}
	}
	return bounds, found
}

// RenderString draws the scene onto a canvas sized to fit it and returns the
// text with trailing spaces trimmed.
func RenderString(sc scene.Scene, cellWidth, cellHeight float64) (string, error) {
	vp, width, height := Fit(sc, cellWidth, cellHeight)
	c, err := NewMatrixCanvas(width, height)
	if err != nil {
		return "", err
	}
	Render(c, sc, vp)

	lines := c.Lines()
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}
