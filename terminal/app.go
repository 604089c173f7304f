// Package terminal is the tcell front end of the editor. It owns the screen
// and the event loop, translating keys and mouse events into editor calls.
package terminal

import (
	"errors"
	"time"

	"erd/canvas"
	"erd/editor"
	"erd/geometry"
	"erd/store"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

const (
	// SidebarWidth is the width in columns of the property panel.
	SidebarWidth = 32

	// DefaultDoubleClickInterval is the longest gap between two clicks on the
	// same cell that still counts as a double click.
	DefaultDoubleClickInterval = 400 * time.Millisecond
)

// Options configures an App.
type Options struct {
	Logger *zap.Logger
	// Dir is where save and load read and write the document file.
	Dir                 string
	CellWidth           float64
	CellHeight          float64
	DoubleClickInterval time.Duration
	// Now returns the current time. Tests replace it to control double clicks.
	Now func() time.Time
}

// App binds a tcell screen to an editor canvas and toolbar.
type App struct {
	screen  tcell.Screen
	canvas  *editor.Canvas
	toolbar *editor.Toolbar
	logger  *zap.Logger

	dir                 string
	viewport            canvas.Viewport
	doubleClickInterval time.Duration
	now                 func() time.Time

	mouse   mouseState
	buttons []toolbarButton
	sidebar sidebarLayout
	quit    bool

	// persistErr is the last autosave failure, cleared by the next successful one.
	persistErr error
}

type mouseState struct {
	down      bool
	dragging  bool
	start     cellPos
	lastClick time.Time
	lastCell  cellPos
}

type cellPos struct {
	x, y int
}

type toolbarButton struct {
	cmd    editor.Command
	x0, x1 int // columns covered, x1 exclusive
}

// New creates an App. The screen must already be initialized.
func New(screen tcell.Screen, c *editor.Canvas, t *editor.Toolbar, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DoubleClickInterval <= 0 {
		opts.DoubleClickInterval = DefaultDoubleClickInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	a := &App{
		screen:              screen,
		canvas:              c,
		toolbar:             t,
		logger:              opts.Logger,
		dir:                 opts.Dir,
		viewport:            canvas.NewViewport(opts.CellWidth, opts.CellHeight),
		doubleClickInterval: opts.DoubleClickInterval,
		now:                 opts.Now,
	}
	c.Store().Subscribe(a.storeChanged)
	return a
}

func (a *App) storeChanged(change store.Change) {
	if change.PersistErr != nil && a.persistErr == nil {
		a.canvas.SetStatus("Autosave failed: " + change.PersistErr.Error())
	}
	a.persistErr = change.PersistErr
}

// Run draws and handles events until the user quits or the screen is
// finalized.
func (a *App) Run() error {
	if a.screen == nil {
		return errors.New("no screen")
	}
	a.screen.EnableMouse()
	a.screen.HideCursor()

	for !a.quit {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		a.HandleEvent(ev)
	}
	a.logger.Info("Editor closed")
	return nil
}

// Quit reports whether the user asked to leave.
func (a *App) Quit() bool { return a.quit }

// Viewport returns the mapping between canvas cells and world coordinates.
func (a *App) Viewport() canvas.Viewport { return a.viewport }

// HandleEvent dispatches one tcell event.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

// canvasArea returns the screen rectangle showing the diagram: everything
// below the toolbar row, above the status row and left of the sidebar.
func (a *App) canvasArea() (x, y, width, height int) {
	w, h := a.screen.Size()
	width = w
	if a.canvas.Sidebar().IsOpen() {
		width = max(w-SidebarWidth, 1)
	}
	return 0, 1, width, max(h-2, 1)
}

// toWorld converts a screen cell inside the canvas area to world coordinates.
func (a *App) toWorld(p cellPos) geometry.Point {
	x, y, _, _ := a.canvasArea()
	return a.viewport.ToWorld(canvas.Cell{X: p.x - x, Y: p.y - y})
}

func (a *App) inCanvas(p cellPos) bool {
	x, y, w, h := a.canvasArea()
	return p.x >= x && p.x < x+w && p.y >= y && p.y < y+h
}

func (a *App) runCommand(cmd editor.Command) {
	switch cmd {
	case editor.CmdNone:
		return
	case editor.CmdQuit:
		a.quit = true
		return
	}
	if err := a.toolbar.Run(cmd, a.dir); err != nil {
		a.logger.Debug("Command failed", zap.String("command", cmd.String()), zap.Error(err))
	}
}
