package editor

// Command is a toolbar or canvas command bound to a key.
type Command int

const (
	CmdNone Command = iota
	CmdAddEntity
	CmdAddAttribute
	CmdAddRelationship
	CmdSave
	CmdLoad
	CmdClear
	CmdCancel
	CmdQuit
)

// String returns the toolbar label of the command.
func (c Command) String() string {
	switch c {
	case CmdAddEntity:
		return "Entity"
	case CmdAddAttribute:
		return "Attribute"
	case CmdAddRelationship:
		return "Relationship"
	case CmdSave:
		return "Save"
	case CmdLoad:
		return "Load"
	case CmdClear:
		return "Clear"
	case CmdCancel:
		return "Cancel"
	case CmdQuit:
		return "Quit"
	default:
		return ""
	}
}

// ToolbarCommands lists the commands shown in the toolbar, in order.
func ToolbarCommands() []Command {
	return []Command{
		CmdAddEntity,
		CmdAddAttribute,
		CmdAddRelationship,
		CmdSave,
		CmdLoad,
		CmdClear,
		CmdCancel,
		CmdQuit,
	}
}

// CommandKey returns the key bound to a command.
func CommandKey(c Command) rune {
	switch c {
	case CmdAddEntity:
		return 'e'
	case CmdAddAttribute:
		return 'a'
	case CmdAddRelationship:
		return 'r'
	case CmdSave:
		return 's'
	case CmdLoad:
		return 'l'
	case CmdClear:
		return 'c'
	case CmdCancel:
		return 'x'
	case CmdQuit:
		return 'q'
	default:
		return 0
	}
}

// CommandForKey maps a key pressed on the canvas to its command.
func CommandForKey(ev KeyEvent) Command {
	if ev.IsSpecial() {
		return CmdNone
	}
	switch ev.Rune {
	case 'e', 'E':
		return CmdAddEntity
	case 'a', 'A':
		return CmdAddAttribute
	case 'r', 'R':
		return CmdAddRelationship
	case 's', 'S':
		return CmdSave
	case 'l', 'L':
		return CmdLoad
	case 'c', 'C':
		return CmdClear
	case 'x', 'X':
		return CmdCancel
	case 'q', 'Q', 3: // q or Ctrl+C to quit
		return CmdQuit
	default:
		return CmdNone
	}
}

// Run executes a command against the working directory dir. Load only opens
// the path prompt. Quit is left to the caller.
func (t *Toolbar) Run(cmd Command, dir string) error {
	t.prompt = nil
	switch cmd {
	case CmdAddEntity:
		t.AddEntity()
	case CmdAddAttribute:
		return t.AddAttribute()
	case CmdAddRelationship:
		t.AddRelationship()
	case CmdSave:
		_, err := t.SaveFile(dir)
		return err
	case CmdLoad:
		t.PromptLoad(dir)
	case CmdClear:
		_, err := t.Clear()
		return err
	case CmdCancel:
		t.canvas.Cancel()
	}
	return nil
}
