package terminal

import (
	"erd/diagram"
	"erd/editor"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// convertKey maps a tcell key to an editor key event. Keys the editor has no
// use for map to ok == false.
func convertKey(ev *tcell.EventKey) (editor.KeyEvent, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return editor.Rune(ev.Rune()), true
	case tcell.KeyLeft:
		return editor.Key(editor.KeyArrowLeft), true
	case tcell.KeyRight:
		return editor.Key(editor.KeyArrowRight), true
	case tcell.KeyHome:
		return editor.Key(editor.KeyHome), true
	case tcell.KeyEnd:
		return editor.Key(editor.KeyEnd), true
	case tcell.KeyDelete:
		return editor.Key(editor.KeyDelete), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return editor.Key(editor.KeyBackspace), true
	case tcell.KeyEnter:
		return editor.Key(editor.KeyEnter), true
	case tcell.KeyEscape:
		return editor.Key(editor.KeyEscape), true
	case tcell.KeyTab:
		return editor.Key(editor.KeyTab), true
	case tcell.KeyCtrlW:
		return editor.Key(editor.KeyCtrlW), true
	case tcell.KeyCtrlU:
		return editor.Key(editor.KeyCtrlU), true
	case tcell.KeyCtrlK:
		return editor.Key(editor.KeyCtrlK), true
	default:
		return editor.KeyEvent{}, false
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		a.quit = true
		return
	}

	if a.toolbar.Prompt() != nil {
		if key, ok := convertKey(ev); ok {
			if _, err := a.toolbar.Key(key); err != nil {
				a.logger.Debug("Load failed", zap.Error(err))
			}
		}
		return
	}

	// Arrow keys pan the view unless a text input has focus
	if a.canvas.Focus() == editor.FocusCanvas {
		switch ev.Key() {
		case tcell.KeyLeft:
			a.viewport = a.viewport.Pan(-2, 0)
			return
		case tcell.KeyRight:
			a.viewport = a.viewport.Pan(2, 0)
			return
		case tcell.KeyUp:
			a.viewport = a.viewport.Pan(0, -1)
			return
		case tcell.KeyDown:
			a.viewport = a.viewport.Pan(0, 1)
			return
		}
	}

	key, ok := convertKey(ev)
	if !ok {
		return
	}
	if a.canvas.Key(key) {
		return
	}
	if key.IsSpecial() {
		return
	}

	if key.Rune >= '1' && key.Rune <= '4' {
		a.cycleCardinality(int(key.Rune - '1'))
		return
	}
	a.runCommand(editor.CommandForKey(key))
}

func (a *App) cycleCardinality(n int) {
	sel, ok := a.canvas.Sidebar().Selection()
	if !ok || sel.Kind != diagram.KindRelationship {
		return
	}
	if err := a.canvas.Sidebar().CycleCardinality(n); err != nil {
		a.canvas.SetStatus(err.Error())
		a.logger.Debug("Cardinality not changed", zap.Int("row", n+1), zap.Error(err))
	}
}

func (a *App) disconnect(n int) {
	sb := a.canvas.Sidebar()
	rows := sb.CardinalityRows()
	if err := sb.Disconnect(n); err != nil {
		a.canvas.SetStatus(err.Error())
		a.logger.Debug("Connection not removed", zap.Int("row", n+1), zap.Error(err))
		return
	}
	a.canvas.SetStatus("Disconnected " + rows[n].EntityLabel)
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := cellPos{x, y}
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !a.mouse.down:
		a.mouse.down = true
		a.mouse.dragging = false
		a.mouse.start = p
		if a.inCanvas(p) {
			a.canvas.DragStart(a.toWorld(p))
		}

	case pressed && a.mouse.down:
		if p != a.mouse.start {
			a.mouse.dragging = true
		}
		if a.canvas.Dragging() {
			a.canvas.DragMove(a.toWorld(p))
		}

	case !pressed && a.mouse.down:
		a.mouse.down = false
		if a.canvas.Dragging() {
			if a.mouse.dragging {
				a.canvas.DragEnd(a.toWorld(p))
				return
			}
			a.canvas.DragEnd(a.toWorld(a.mouse.start))
		}
		if a.mouse.dragging {
			return
		}
		a.click(p)
	}
}

// click handles a press and release on the same cell.
func (a *App) click(p cellPos) {
	now := a.now()
	double := p == a.mouse.lastCell && now.Sub(a.mouse.lastClick) <= a.doubleClickInterval
	if double {
		// A third click starts a new pair
		a.mouse.lastClick = now.Add(-2 * a.doubleClickInterval)
	} else {
		a.mouse.lastClick = now
	}
	a.mouse.lastCell = p

	switch {
	case p.y == 0:
		a.clickToolbar(p.x)
	case a.inCanvas(p):
		if double {
			a.canvas.DoubleClick(a.toWorld(p))
		} else {
			a.canvas.Click(a.toWorld(p))
		}
	default:
		a.clickSidebar(p)
	}
}

func (a *App) clickToolbar(x int) {
	for _, b := range a.buttons {
		if x >= b.x0 && x < b.x1 {
			a.runCommand(b.cmd)
			return
		}
	}
}

func (a *App) clickSidebar(p cellPos) {
	sb := a.canvas.Sidebar()
	if !sb.IsOpen() {
		return
	}
	switch {
	case p.y == a.sidebar.inputRow:
		sb.FocusInput()
	case p.y == a.sidebar.closeRow:
		sb.Close()
	default:
		for i, row := range a.sidebar.cardinalityRows {
			if p.y != row {
				continue
			}
			if p.x >= a.sidebar.disconnectX && p.x < a.sidebar.disconnectX+3 {
				a.disconnect(i)
			} else {
				a.cycleCardinality(i)
			}
			return
		}
	}
}
