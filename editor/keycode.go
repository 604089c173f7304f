package editor

// SpecialKey represents special keys like arrows, home, end, etc.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyArrowLeft
	KeyArrowRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyTab
	KeyCtrlW
	KeyCtrlU
	KeyCtrlK
)

// KeyEvent represents either a regular character or a special key
type KeyEvent struct {
	Rune       rune
	SpecialKey SpecialKey
}

// IsSpecial returns true if this is a special key event
func (k KeyEvent) IsSpecial() bool {
	return k.SpecialKey != KeyNone
}

// Key builds a special key event.
func Key(k SpecialKey) KeyEvent {
	return KeyEvent{SpecialKey: k}
}

// Rune builds a character key event.
func Rune(r rune) KeyEvent {
	return KeyEvent{Rune: r}
}
