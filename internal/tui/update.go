package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/tui/commands"
)

const (
	statusTTL = 3 * time.Second
	errorTTL  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Resize(msg.Width, msg.Height)
		if m.ctrl != nil {
			m.viewport.Reveal(m.ctrl.Active())
		}
		return m, nil

	case commands.ProgramLoadedMsg:
		m.attach(msg.Program, msg.Names)
		m.syncMode("program loaded")
		return m, nil

	case commands.LoadFailedMsg:
		m.loadErr = msg.Err
		LogError("load program", msg.Err)
		m.syncMode("load failed")
		return m, nil

	case commands.SearchTickMsg:
		if m.ctrl == nil || !m.ctrl.SearchPending(msg.Request.Token) {
			return m, nil
		}
		return m, commands.SearchExercises(m.store, msg.Request, m.config.Grid.SearchLimit)

	case commands.SearchResultMsg:
		if m.ctrl == nil {
			return m, nil
		}
		if msg.Err != nil {
			LogError("search exercises", msg.Err)
			if m.ctrl.SearchPending(msg.Token) {
				return m, m.setStatus(fmt.Sprintf("Search failed: %v", msg.Err), true, errorTTL)
			}
			return m, nil
		}
		m.ctrl.SetSearchResults(msg.Token, msg.Page)
		return m, nil

	case commands.OutboxResultMsg:
		return m.handleOutboxResult(msg)

	case commands.FlushedMsg:
		if msg.Err != nil {
			LogError("flush outbox", msg.Err)
		}
		return m, tea.Quit

	case commands.ErrMsg:
		LogError("command", msg.Err)
		return m, m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true, errorTTL)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg, false, statusTTL)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleOutboxResult(msg commands.OutboxResultMsg) (tea.Model, tea.Cmd) {
	if m.box == nil {
		return m, nil
	}
	stats := m.box.Stats()
	LogOutbox(msg.Result, stats)

	cmds := []tea.Cmd{commands.WaitOutbox(m.box.Results())}
	if msg.Result.Err != nil {
		cmds = append(cmds, m.setStatus(fmt.Sprintf("Sync failed: %v", msg.Result.Err), true, errorTTL))
	}
	if !stats.Unsynced() && m.ctrl != nil {
		m.ctrl.MarkSaved()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}
	if m.ctrl == nil {
		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit
		case m.mode == ModeLoadError && key.Matches(msg, m.keys.ReloadProgram):
			m.loadErr = nil
			m.syncMode("retry load")
			return m, commands.LoadProgram(m.store, m.programID)
		}
		return m, nil
	}

	before := m.ctrl.Active()
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Retry):
		cmd = m.retryFailed()
	case m.mode == ModeViewing && key.Matches(msg, m.keys.AddWeek):
		m.ctrl.AddWeek("")
	case m.mode == ModeViewing && key.Matches(msg, m.keys.AddSession):
		m.ctrl.AddSession("")
	case m.mode == ModeViewing && key.Matches(msg, m.keys.Export):
		cmd = m.copyActiveWeek()
	case m.mode == ModeViewing && key.Matches(msg, m.keys.PageUp):
		m.page(grid.Up)
	case m.mode == ModeViewing && key.Matches(msg, m.keys.PageDown):
		m.page(grid.Down)
	case msg.Paste:
		for _, r := range msg.Runes {
			m.ctrl.HandleKey(string(r))
		}
	default:
		m.ctrl.HandleKey(controllerKey(msg))
	}

	return m, tea.Batch(cmd, m.afterChange(before, "key "+msg.String()))
}

// afterChange reacts to controller changes: it schedules queued searches,
// logs cursor moves and refreshes the mode.
func (m *Model) afterChange(before grid.Address, reason string) tea.Cmd {
	var cmd tea.Cmd
	if req, ok := m.ctrl.TakeSearchRequest(); ok {
		cmd = commands.DebounceSearch(req, m.config.Grid.SearchDebounce())
	}
	if after := m.ctrl.Active(); after != before {
		LogCursorMove(before, after, reason)
	}
	m.syncMode(reason)
	return cmd
}

// quit commits an open prescription editor and drains pending mutations
// before exiting. A second quit exits immediately.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.quitting || m.box == nil {
		return m, tea.Quit
	}
	if m.ctrl != nil {
		before := m.ctrl.Active()
		m.ctrl.Blur()
		m.afterChange(before, "quit")
	}
	if m.box.Stats().Pending == 0 {
		return m, tea.Quit
	}
	m.quitting = true
	m.statusMsg = "Saving…"
	m.statusErr = false
	return m, commands.FlushOutbox(m.box, flushTimeout)
}

func (m *Model) retryFailed() tea.Cmd {
	if m.box == nil {
		return nil
	}
	n := m.box.RetryFailed()
	if n == 0 {
		return m.setStatus("Nothing to retry", false, statusTTL)
	}
	return m.setStatus(fmt.Sprintf("Retrying %d change(s)", n), false, statusTTL)
}

// page moves the active cell by one screen of rows.
func (m *Model) page(dir grid.Direction) {
	for range max(m.viewport.GridHeight()-1, 1) {
		if !m.ctrl.Move(dir) {
			return
		}
	}
}

// copyActiveWeek puts the active week column on the OS clipboard, one line
// per row.
func (m *Model) copyActiveWeek() tea.Cmd {
	d := m.ctrl.Data()
	col, ok := d.Column(m.ctrl.Active().ColID)
	if !ok || col.Kind != grid.ColumnWeek {
		return m.setStatus("Select a week column to copy", false, statusTTL)
	}
	return commands.CopyToClipboard(weekColumnText(d, col), col.Name)
}

// weekColumnText renders one week as tab separated lines.
func weekColumnText(d *grid.Data, col grid.Column) string {
	var b strings.Builder
	b.WriteString(col.Name)
	for _, row := range d.Rows {
		switch row.Kind {
		case grid.RowSessionHeader:
			b.WriteString("\n" + row.SessionName)
		case grid.RowExercise:
			name := row.ExerciseName
			if label := row.Label(); label != "" {
				name = label + " " + name
			}
			b.WriteString("\n" + name + "\t" + row.Prescriptions[col.ID])
		}
	}
	return b.String()
}
