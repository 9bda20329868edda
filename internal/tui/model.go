package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/coachgrid/internal/config"
	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/outbox"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/tui/commands"
	"github.com/javiermolinar/coachgrid/internal/tui/theme"
)

// Mode represents the current interaction mode. It is derived from the
// grid controller after every message.
type Mode int

const (
	ModeLoading Mode = iota
	ModeLoadError
	ModeViewing
	ModeEditing // prescription cell
	ModeSearch  // exercise combobox
	ModeConfirmDelete
	ModeDragging
)

// doubleClickWindow is the longest gap between two clicks on the same cell
// that counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

// flushTimeout bounds how long quitting waits for pending mutations.
const flushTimeout = 5 * time.Second

type click struct {
	addr grid.Address
	at   time.Time
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store     commands.Store
	box       *outbox.Outbox
	config    *config.Config
	programID string

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   KeyMap
	help   help.Model

	// Grid state; nil until the program is loaded.
	ctrl     *grid.Controller
	viewport *Viewport
	input    textinput.Model

	mode     Mode
	loadErr  error
	quitting bool
	overlay  OverlayModel

	lastClick click
	now       func() time.Time

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock replaces the clock used for double clicks and status expiry.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// New creates a new TUI model. box may be nil, in which case edits stay in
// memory.
func New(store commands.Store, box *outbox.Outbox, cfg *config.Config, programID string, opts ...ModelOption) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		LogError("theme", err)
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Prompt = ""
	ti.TextStyle = styles.EditingStyle
	ti.Cursor.Style = styles.ActiveStyle.Reverse(true)
	ti.Cursor.TextStyle = styles.EditingStyle
	ti.Cursor.SetMode(cursor.CursorStatic)

	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = styles.HelpStyle.Bold(true)
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.ShortSeparator = styles.HelpStyle
	h.Styles.Ellipsis = styles.HelpStyle

	overlay := NewOverlayModel()
	overlay.SetBackground(styles.ModalBackdropColor)

	m := Model{
		store:     store,
		box:       box,
		config:    cfg,
		programID: programID,
		theme:     t,
		styles:    styles,
		keys:      DefaultKeyMap(),
		help:      h,
		viewport:  NewViewport(cfg.UI.ExerciseWidth, cfg.UI.WeekWidth),
		input:     ti,
		mode:      ModeLoading,
		overlay:   overlay,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init loads the program and starts listening for delivery results.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{commands.LoadProgram(m.store, m.programID)}
	if m.box != nil {
		cmds = append(cmds, commands.WaitOutbox(m.box.Results()))
	}
	return tea.Batch(cmds...)
}

// Controller returns the grid controller, or nil before the program loads.
func (m Model) Controller() *grid.Controller { return m.ctrl }

// Mode returns the current interaction mode.
func (m Model) Mode() Mode { return m.mode }

// outboxDispatcher forwards controller mutations to the outbox.
type outboxDispatcher struct {
	box  *outbox.Outbox
	ctrl *grid.Controller
}

func (d *outboxDispatcher) Dispatch(mut program.Mutation) {
	if d.ctrl != nil {
		LogCommand(d.ctrl.LastCommand(), mut)
	}
	if d.box != nil {
		d.box.Dispatch(mut)
	}
}

// attach builds the controller for a freshly loaded program.
func (m *Model) attach(p *program.Program, names map[string]string) {
	d := &outboxDispatcher{box: m.box}
	m.ctrl = grid.New(p, names,
		grid.WithDispatcher(d),
		grid.WithRevealer(m.viewport),
		grid.WithHistoryLimit(m.config.Grid.HistoryLimit),
	)
	d.ctrl = m.ctrl
	m.viewport.Attach(m.ctrl)
	m.viewport.Reveal(m.ctrl.Active())
	m.loadErr = nil
}

// deriveMode maps controller state onto a Mode.
func (m Model) deriveMode() Mode {
	if m.ctrl == nil {
		if m.loadErr != nil {
			return ModeLoadError
		}
		return ModeLoading
	}
	if _, ok := m.ctrl.PendingDelete(); ok {
		return ModeConfirmDelete
	}
	if _, _, ok := m.ctrl.Dragging(); ok {
		return ModeDragging
	}
	if _, kind, ok := m.ctrl.Editing(); ok {
		if kind.IsSearch() {
			return ModeSearch
		}
		return ModeEditing
	}
	return ModeViewing
}

// syncMode refreshes the mode, the overlay and the edit input after the
// controller changed.
func (m *Model) syncMode(reason string) {
	next := m.deriveMode()
	if next != m.mode {
		LogModeChange(m.mode, next, reason)
		m.mode = next
	}
	m.overlay.SetActive(m.mode == ModeConfirmDelete)

	if m.mode != ModeEditing && m.mode != ModeSearch {
		m.input.Blur()
		m.input.SetValue("")
		return
	}
	addr, _, _ := m.ctrl.Editing()
	text, pos := m.ctrl.EditBuffer()
	m.input.Width = max(m.viewport.CellWidth(addr.ColID)-1, 1)
	m.input.SetValue(text)
	m.input.SetCursor(pos)
	m.input.Focus()
}

// setStatus shows a temporary message in the footer.
func (m *Model) setStatus(msg string, isErr bool, ttl time.Duration) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusTime = m.now().Add(ttl)
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// syncLabel describes the delivery state shown in the header.
func (m Model) syncLabel() (string, lipgloss.Style) {
	if m.box == nil {
		if m.ctrl != nil && m.ctrl.IsDirty() {
			return "● unsaved", m.styles.UnsyncedStyle
		}
		return "", m.styles.SyncedStyle
	}
	stats := m.box.Stats()
	switch {
	case stats.Failed > 0:
		return fmt.Sprintf("✗ %d failed · ^r retry", stats.Failed), m.styles.FailedStyle
	case stats.Pending > 0:
		return fmt.Sprintf("● saving %d", stats.Pending), m.styles.UnsyncedStyle
	default:
		return "✓ saved", m.styles.SyncedStyle
	}
}
