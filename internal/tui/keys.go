package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap lists the bindings shown in the footer help. Navigation, editing
// and grid commands are interpreted by the grid controller; the bindings
// here only describe them, except for the app-level ones handled by the
// model itself.
type KeyMap struct {
	Move     key.Binding
	Edit     key.Binding
	Clear    key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Copy     key.Binding
	Paste    key.Binding
	CopyWeek key.Binding
	Reorder  key.Binding
	Group    key.Binding
	Ungroup  key.Binding
	Delete   key.Binding

	// Handled by the model.
	AddWeek    key.Binding
	AddSession key.Binding
	Export     key.Binding
	Retry      key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Quit       key.Binding

	// Editing and search.
	Commit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Pick   key.Binding

	// Confirmation.
	Confirm key.Binding
	Reject  key.Binding

	// Load errors.
	ReloadProgram key.Binding
}

// DefaultKeyMap returns the key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Move:     key.NewBinding(key.WithKeys("up", "down", "left", "right", "tab", "shift+tab", "home", "end", "ctrl+home", "ctrl+end"), key.WithHelp("←↓↑→/tab", "move")),
		Edit:     key.NewBinding(key.WithKeys("enter", "f2"), key.WithHelp("enter", "edit")),
		Clear:    key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "clear")),
		Undo:     key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("^z", "undo")),
		Redo:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^y", "redo")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^c", "copy")),
		Paste:    key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("^v", "paste")),
		CopyWeek: key.NewBinding(key.WithKeys("ctrl+shift+right"), key.WithHelp("^⇧→", "copy week")),
		Reorder:  key.NewBinding(key.WithKeys("alt+up", "alt+down"), key.WithHelp("alt+↑↓", "reorder")),
		Group:    key.NewBinding(key.WithKeys("ctrl+g", "ctrl+t"), key.WithHelp("^g/^t", "group")),
		Ungroup:  key.NewBinding(key.WithKeys("alt+g"), key.WithHelp("alt+g", "ungroup")),
		Delete:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("^x", "delete row")),

		AddWeek:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n", "add week")),
		AddSession: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "add session")),
		Export:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^e", "copy column")),
		Retry:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "retry sync")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("^q", "quit")),

		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Next:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "commit & move")),
		Pick:   key.NewBinding(key.WithKeys("up", "down", "enter"), key.WithHelp("↑↓ enter", "pick")),

		Confirm: key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter/y", "delete")),
		Reject:  key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc/n", "keep")),

		ReloadProgram: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	}
}

// shortHelp returns the bindings relevant to a mode.
func (k KeyMap) shortHelp(mode Mode) []key.Binding {
	switch mode {
	case ModeEditing:
		return []key.Binding{k.Commit, k.Next, k.Cancel, k.Quit}
	case ModeSearch:
		return []key.Binding{k.Pick, k.Next, k.Cancel, k.Quit}
	case ModeConfirmDelete:
		return []key.Binding{k.Confirm, k.Reject}
	case ModeDragging:
		return []key.Binding{k.Cancel}
	case ModeLoadError:
		return []key.Binding{k.ReloadProgram, k.Quit}
	case ModeLoading:
		return []key.Binding{k.Quit}
	default:
		return []key.Binding{
			k.Move, k.Edit, k.Clear, k.Undo, k.Redo, k.Copy, k.Paste, k.CopyWeek,
			k.Reorder, k.Group, k.Ungroup, k.Delete, k.AddWeek, k.AddSession,
			k.Export, k.Retry, k.Quit,
		}
	}
}

// keyAliases maps terminal-friendly keys onto the controller's key names
// for chords most terminals cannot send.
var keyAliases = map[string]string{
	"ctrl+x": "ctrl+delete",
	"alt+g":  "ctrl+shift+g",
	" ":      "space",
}

// controllerKey converts a key message into the name the grid controller
// expects.
func controllerKey(msg tea.KeyMsg) string {
	s := msg.String()
	if alias, ok := keyAliases[s]; ok {
		return alias
	}
	return s
}
