package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/coachgrid/internal/grid"
)

// wheelStep is the number of rows scrolled per wheel notch.
const wheelStep = 3

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	before := m.ctrl.Active()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.viewport.Scroll(-wheelStep)
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.viewport.Scroll(wheelStep)
		return m, nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.press(m.viewport.HitTest(msg.X, msg.Y))

	case msg.Action == tea.MouseActionMotion:
		if m.mode != ModeDragging {
			return m, nil
		}
		if hit := m.viewport.HitTest(msg.X, msg.Y); hit.OK {
			m.ctrl.DragOver(hit.Addr.RowID)
		}

	case msg.Action == tea.MouseActionRelease:
		if m.mode != ModeDragging {
			return m, nil
		}
		if hit := m.viewport.HitTest(msg.X, msg.Y); hit.OK {
			m.ctrl.DragOver(hit.Addr.RowID)
		}
		m.ctrl.Drop()

	default:
		return m, nil
	}

	return m, m.afterChange(before, "mouse")
}

// press handles a left button press: the row handle starts a drag, a
// second press on the same cell within doubleClickWindow edits it, and
// a press outside the grid blurs the editor.
func (m *Model) press(hit Hit) {
	if !hit.OK {
		m.ctrl.Blur()
		m.lastClick = click{}
		return
	}
	if hit.Handle {
		m.ctrl.Blur()
		m.ctrl.BeginDrag(hit.Addr.RowID)
		m.lastClick = click{}
		return
	}

	now := m.now()
	if m.isDoubleClick(hit.Addr, now) {
		m.ctrl.DoubleClick(hit.Addr)
		m.lastClick = click{}
		return
	}
	m.ctrl.Click(hit.Addr)
	m.lastClick = click{addr: hit.Addr, at: now}
}

func (m Model) isDoubleClick(addr grid.Address, now time.Time) bool {
	if m.lastClick.addr != addr || m.lastClick.at.IsZero() {
		return false
	}
	return now.Sub(m.lastClick.at) <= doubleClickWindow
}
