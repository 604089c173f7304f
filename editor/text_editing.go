package editor

import (
	"unicode"

	"erd/diagram"
)

// LabelEditor holds the text of one label being edited, with a cursor.
type LabelEditor struct {
	id        string
	kind      diagram.Kind
	original  string
	buffer    []rune
	cursorPos int
}

// NewLabelEditor starts editing label with the cursor at its end.
func NewLabelEditor(id string, kind diagram.Kind, label string) *LabelEditor {
	e := &LabelEditor{}
	e.Begin(id, kind, label)
	return e
}

// Begin replaces the edited label.
func (e *LabelEditor) Begin(id string, kind diagram.Kind, label string) {
	e.id = id
	e.kind = kind
	e.original = label
	e.buffer = []rune(label)
	e.cursorPos = len(e.buffer)
}

// ID returns the id of the node being edited.
func (e *LabelEditor) ID() string { return e.id }

// Kind returns the kind of the node being edited.
func (e *LabelEditor) Kind() diagram.Kind { return e.kind }

// Original returns the label as it was when editing began.
func (e *LabelEditor) Original() string { return e.original }

// Text returns the current text.
func (e *LabelEditor) Text() string { return string(e.buffer) }

// Cursor returns the cursor position in runes.
func (e *LabelEditor) Cursor() int { return e.cursorPos }

// CommitText returns the label to store: the typed text, or the kind's
// default label when nothing was typed.
func (e *LabelEditor) CommitText() string {
	if len(e.buffer) == 0 {
		return e.kind.DefaultLabel()
	}
	return string(e.buffer)
}

// Insert types r at the cursor. Non-printable runes are ignored.
func (e *LabelEditor) Insert(r rune) {
	if !unicode.IsPrint(r) {
		return
	}
	e.buffer = append(e.buffer[:e.cursorPos], append([]rune{r}, e.buffer[e.cursorPos:]...)...)
	e.cursorPos++
}

// Backspace deletes the rune before the cursor.
func (e *LabelEditor) Backspace() {
	if e.cursorPos == 0 {
		return
	}
	e.buffer = append(e.buffer[:e.cursorPos-1], e.buffer[e.cursorPos:]...)
	e.cursorPos--
}

// Delete deletes the rune under the cursor.
func (e *LabelEditor) Delete() {
	if e.cursorPos >= len(e.buffer) {
		return
	}
	e.buffer = append(e.buffer[:e.cursorPos], e.buffer[e.cursorPos+1:]...)
}

// DeleteWordBackward deletes the previous word (Ctrl+W)
func (e *LabelEditor) DeleteWordBackward() {
	if e.cursorPos == 0 {
		return
	}

	startPos := e.cursorPos - 1

	// Skip any trailing spaces
	for startPos >= 0 && e.buffer[startPos] == ' ' {
		startPos--
	}

	// Skip the word itself
	for startPos >= 0 && e.buffer[startPos] != ' ' {
		startPos--
	}

	// startPos is now one position before the word start
	startPos++

	e.buffer = append(e.buffer[:startPos], e.buffer[e.cursorPos:]...)
	e.cursorPos = startPos
}

// DeleteToLineStart deletes from the cursor back to the start (Ctrl+U)
func (e *LabelEditor) DeleteToLineStart() {
	e.buffer = e.buffer[e.cursorPos:]
	e.cursorPos = 0
}

// DeleteToLineEnd deletes from the cursor to the end (Ctrl+K)
func (e *LabelEditor) DeleteToLineEnd() {
	e.buffer = e.buffer[:e.cursorPos]
}

func (e *LabelEditor) MoveLeft() {
	if e.cursorPos > 0 {
		e.cursorPos--
	}
}

func (e *LabelEditor) MoveRight() {
	if e.cursorPos < len(e.buffer) {
		e.cursorPos++
	}
}

func (e *LabelEditor) MoveHome() { e.cursorPos = 0 }

func (e *LabelEditor) MoveEnd() { e.cursorPos = len(e.buffer) }

// HandleKey applies an editing key. Enter and Escape are not editing keys
// and return false so the owner can commit or revert.
func (e *LabelEditor) HandleKey(ev KeyEvent) bool {
	switch ev.SpecialKey {
	case KeyNone:
		e.Insert(ev.Rune)
	case KeyBackspace:
		e.Backspace()
	case KeyDelete:
		e.Delete()
	case KeyCtrlW:
		e.DeleteWordBackward()
	case KeyCtrlU:
		e.DeleteToLineStart()
	case KeyCtrlK:
		e.DeleteToLineEnd()
	case KeyArrowLeft:
		e.MoveLeft()
	case KeyArrowRight:
		e.MoveRight()
	case KeyHome:
		e.MoveHome()
	case KeyEnd:
		e.MoveEnd()
	default:
		return false
	}
	return true
}
