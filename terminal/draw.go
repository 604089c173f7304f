package terminal

import (
	"fmt"
	"strings"

	"erd/canvas"
	"erd/editor"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

var (
	styleDefault     = tcell.StyleDefault
	styleToolbar     = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleToolbarKey  = styleToolbar.Foreground(tcell.ColorYellow).Bold(true)
	styleToolbarOn   = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleStatus      = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	styleSidebar     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarHead = styleSidebar.Bold(true)
	styleInput       = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
)

// sidebarLayout remembers where the last draw put the clickable sidebar rows.
type sidebarLayout struct {
	x0              int
	inputRow        int
	closeRow        int
	cardinalityRows []int
	disconnectX     int // first column of the [x] button on cardinality rows
}

// canvasStyle maps a rasterizer style to a terminal style.
func canvasStyle(s canvas.Style) tcell.Style {
	switch s {
	case canvas.StyleShape:
		return styleDefault.Foreground(tcell.ColorWhite)
	case canvas.StyleSelected:
		return styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case canvas.StyleConnector:
		return styleDefault.Foreground(tcell.ColorGray)
	case canvas.StyleCardinality:
		return styleDefault.Foreground(tcell.ColorTeal).Bold(true)
	case canvas.StyleLabel:
		return styleDefault.Foreground(tcell.ColorWhite)
	case canvas.StyleCursor:
		return styleDefault.Reverse(true)
	default:
		return styleDefault
	}
}

// Draw repaints the whole screen.
func (a *App) Draw() {
	a.screen.Clear()
	a.screen.HideCursor()

	a.drawToolbar()
	a.drawCanvas()
	a.drawSidebar()
	a.drawStatus()

	a.screen.Show()
}

// putText writes text at (x, y) clipped to maxX and returns the column after it.
func (a *App) putText(x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

func (a *App) fillRow(y, x0, x1 int, style tcell.Style) {
	for x := x0; x < x1; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (a *App) drawToolbar() {
	w, _ := a.screen.Size()
	a.fillRow(0, 0, w, styleToolbar)

	pending := toolbarCommandFor(a.canvas.Pending())
	a.buttons = a.buttons[:0]
	x := 1
	for _, cmd := range editor.ToolbarCommands() {
		style, keyStyle := styleToolbar, styleToolbarKey
		if cmd == pending {
			style, keyStyle = styleToolbarOn, styleToolbarOn
		}
		start := x
		x = a.putText(x, 0, w, fmt.Sprintf("[%c]", editor.CommandKey(cmd)), keyStyle)
		x = a.putText(x, 0, w, cmd.String(), style)
		a.buttons = append(a.buttons, toolbarButton{cmd: cmd, x0: start, x1: x})
		x += 2
	}
}

func toolbarCommandFor(action editor.PendingAction) editor.Command {
	switch action {
	case editor.ActionPlaceEntity:
		return editor.CmdAddEntity
	case editor.ActionPlaceAttribute:
		return editor.CmdAddAttribute
	case editor.ActionPlaceRelationship:
		return editor.CmdAddRelationship
	default:
		return editor.CmdNone
	}
}

func (a *App) drawCanvas() {
	x0, y0, w, h := a.canvasArea()
	c, err := canvas.NewMatrixCanvas(w, h)
	if err != nil {
		a.logger.Warn("Canvas too small", zap.Int("width", w), zap.Int("height", h), zap.Error(err))
		return
	}
	canvas.Render(c, a.canvas.Scene(), a.viewport)

	c.Each(func(p canvas.Cell, r rune, style canvas.Style) {
		if r == '\x00' {
			return
		}
		a.screen.SetContent(x0+p.X, y0+p.Y, r, nil, canvasStyle(style))
	})
}

func (a *App) drawSidebar() {
	a.sidebar = sidebarLayout{inputRow: -1, closeRow: -1}
	sb := a.canvas.Sidebar()
	if !sb.IsOpen() {
		return
	}

	w, h := a.screen.Size()
	x0 := max(w-SidebarWidth, 0)
	a.sidebar.x0 = x0
	a.sidebar.disconnectX = w - 11
	for y := 1; y < h-1; y++ {
		a.screen.SetContent(x0, y, '│', nil, styleSidebar)
	}
	left := x0 + 2
	row := 1

	a.putText(left, row, w, sb.Title(), styleSidebarHead)
	row += 2
	a.putText(left, row, w, "Label", styleSidebar)
	row++

	a.fillRow(row, left, w-1, styleInput)
	value := sb.LabelValue()
	end := a.putText(left, row, w-1, value, styleInput)
	if input := sb.Input(); input != nil {
		cursor := left + runewidth.StringWidth(string([]rune(input.Text())[:input.Cursor()]))
		if cursor < w-1 {
			a.screen.ShowCursor(cursor, row)
		} else {
			a.screen.ShowCursor(end, row)
		}
	}
	a.sidebar.inputRow = row
	row += 2

	if rows := sb.CardinalityRows(); len(rows) > 0 {
		a.putText(left, row, w, "Cardinality", styleSidebarHead)
		row++
		for i, r := range rows {
			label := runewidth.Truncate(r.EntityLabel, SidebarWidth-18, "…")
			a.putText(left, row, w, fmt.Sprintf("%d %s", i+1, label), styleSidebar)
			a.putText(w-11, row, w, "[x]", styleSidebar)
			a.putText(w-7, row, w, fmt.Sprintf("%5s", r.Current), styleSidebarHead)
			a.sidebar.cardinalityRows = append(a.sidebar.cardinalityRows, row)
			row++
		}
		row++
	}

	a.putText(left, row, w, "[Close]", styleSidebar)
	a.sidebar.closeRow = row
}

func (a *App) drawStatus() {
	w, h := a.screen.Size()
	y := h - 1
	a.fillRow(y, 0, w, styleStatus)

	right := fmt.Sprintf(" %s │ rev %d ", a.canvas.Pending(), a.canvas.Store().Revision())
	if a.persistErr != nil {
		right = " NOT SAVED" + right
	}
	rightX := w - runewidth.StringWidth(right)
	a.putText(rightX, y, w, right, styleStatus)

	prompt := a.toolbar.Prompt()
	if prompt == nil {
		a.putText(1, y, rightX-1, strings.TrimSpace(a.canvas.Status()), styleStatus)
		return
	}
	x := a.putText(1, y, rightX-1, a.toolbar.PromptLabel(), styleStatus)
	a.fillRow(y, x, rightX-1, styleInput)
	a.putText(x, y, rightX-1, prompt.Text(), styleInput)
	cursor := x + runewidth.StringWidth(string([]rune(prompt.Text())[:prompt.Cursor()]))
	a.screen.ShowCursor(min(cursor, rightX-2), y)
}
