package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/notation"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/tui/view"
)

const (
	handleGlyph      = "≡ "
	addExerciseLabel = "+ Add exercise"
	dropdownMinWidth = 24
)

var connectorGlyphs = map[grid.Connector]string{
	grid.ConnectorNone:   " ",
	grid.ConnectorStart:  "┌",
	grid.ConnectorMiddle: "├",
	grid.ConnectorEnd:    "└",
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return view.Render(view.ViewState{EmptyPlaceholder: "Loading..."})
	}

	header := []string{m.renderTitle()}
	var body []string
	if m.ctrl == nil {
		header = append(header, m.fill(""))
		body = m.renderMessage()
	} else {
		header = append(header, m.renderColumnHeader())
		body = m.renderRows()
		if m.mode == ModeSearch {
			body = m.spliceDropdown(body)
		}
	}

	return view.Render(view.ViewState{
		Width:        m.width,
		Height:       m.height,
		Header:       header,
		Body:         body,
		Footer:       m.renderFooter(),
		ModalContent: m.renderConfirmDelete(),
		ShowModal:    m.overlay.Active(),
		Overlay:      m.overlay,
		Bg:           m.styles.colorBg,
	})
}

// fill pads a styled line to the terminal width with the app background.
func (m Model) fill(line string) string {
	if w := lipgloss.Width(line); w < m.width {
		return line + m.styles.AppStyle.Render(strings.Repeat(" ", m.width-w))
	}
	return view.Fit(line, m.width)
}

func (m Model) renderTitle() string {
	left := m.styles.TitleStyle.Render(" coachgrid ")
	if m.ctrl != nil {
		left += m.styles.AppStyle.Render(" ") + m.styles.ProgramStyle.Render(m.ctrl.Program().Name)
	}
	label, style := m.syncLabel()
	if label == "" {
		return m.fill(left)
	}
	right := style.Render(" " + label + " ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return m.fill(left)
	}
	return left + m.styles.AppStyle.Render(strings.Repeat(" ", gap)) + right
}

func (m Model) renderColumnHeader() string {
	active := m.ctrl.Active()
	cols := m.ctrl.Data().WeekColumns()
	sep := m.styles.SeparatorStyle.Render("│")

	var b strings.Builder
	b.WriteString(m.styles.ColumnHeaderStyle.Render(strings.Repeat(" ", handleWidth)))
	style := m.styles.ColumnHeaderStyle
	if active.ColID == grid.ExerciseColumnID {
		style = m.styles.ColumnHeaderActiveStyle
	}
	b.WriteString(style.Render(view.Fit("Exercise", m.viewport.exerciseWidth)))

	start, end := m.viewport.WeekRange()
	for _, col := range cols[start:end] {
		style := m.styles.ColumnHeaderStyle
		if col.ID == active.ColID {
			style = m.styles.ColumnHeaderActiveStyle
		}
		b.WriteString(sep)
		b.WriteString(style.Render(view.Center(col.Name, m.viewport.weekWidth)))
	}
	return m.fill(b.String())
}

func (m Model) renderRows() []string {
	d := m.ctrl.Data()
	if len(d.Rows) == 0 {
		return []string{m.fill(m.styles.PlaceholderStyle.Render("  No sessions yet. Press ^s to add one, ^n to add a week."))}
	}
	start, end := m.viewport.RowRange()
	lines := make([]string, 0, end-start)
	for _, row := range d.Rows[start:end] {
		lines = append(lines, m.fill(m.renderRow(row)))
	}
	return lines
}

func (m Model) renderRow(row grid.Row) string {
	if row.Kind == grid.RowSessionHeader {
		return m.styles.SessionStyle.Render(view.Fit("  "+row.SessionName, m.width))
	}

	rowStyle := m.rowStyle(row)
	sep := m.styles.SeparatorStyle.Background(rowStyle.GetBackground()).Render("│")

	var b strings.Builder
	if row.Kind == grid.RowExercise {
		b.WriteString(m.styles.HandleStyle.Background(rowStyle.GetBackground()).Render(handleGlyph))
	} else {
		b.WriteString(rowStyle.Render(strings.Repeat(" ", handleWidth)))
	}

	b.WriteString(m.renderExerciseCell(row, rowStyle))

	start, end := m.viewport.WeekRange()
	for _, col := range m.ctrl.Data().WeekColumns()[start:end] {
		b.WriteString(sep)
		b.WriteString(m.renderWeekCell(row, col, rowStyle))
	}
	return b.String()
}

// rowStyle picks the row background: drag state first, then alternating
// superset shading.
func (m Model) rowStyle(row grid.Row) lipgloss.Style {
	if src, target, ok := m.ctrl.Dragging(); ok {
		switch row.ID {
		case src:
			return m.styles.DragSourceStyle
		case target:
			return m.styles.DragTargetStyle
		}
	}
	if row.Kind == grid.RowAddExercise {
		return m.styles.AddRowStyle
	}
	if !row.InSuperset() {
		return m.styles.ExerciseStyle
	}
	if letter := row.GroupLetter; letter != "" && letter[len(letter)-1]%2 == 0 {
		return m.styles.SupersetAltStyle
	}
	return m.styles.SupersetStyle
}

func (m Model) renderExerciseCell(row grid.Row, rowStyle lipgloss.Style) string {
	width := m.viewport.exerciseWidth
	addr := grid.Address{RowID: row.ID, ColID: grid.ExerciseColumnID}

	if m.isEditing(addr) {
		return m.styles.EditingStyle.Render(view.Fit(" "+m.input.View(), width))
	}

	if row.Kind == grid.RowAddExercise {
		style := rowStyle
		if m.isActive(addr) {
			style = m.styles.ActiveStyle
		}
		return style.Render(view.Fit(" "+addExerciseLabel, width))
	}

	connector := m.styles.ConnectorStyle.Background(rowStyle.GetBackground()).Render(connectorGlyphs[row.Connector])
	label := row.Label()
	if label != "" {
		label = m.styles.LabelStyle.Background(rowStyle.GetBackground()).Render(label) + rowStyle.Render(" ")
	}
	name := row.ExerciseName
	if row.IsSubRow {
		name = "  " + name
	}
	if row.SetTypeLabel != "" {
		name += " · " + row.SetTypeLabel
	}

	prefix := connector + label
	rest := max(width-lipgloss.Width(prefix), 0)
	style := rowStyle
	if m.isActive(addr) {
		style = m.styles.ActiveStyle
	}
	return prefix + style.Render(view.Fit(name, rest))
}

func (m Model) renderWeekCell(row grid.Row, col grid.Column, rowStyle lipgloss.Style) string {
	width := m.viewport.weekWidth
	addr := grid.Address{RowID: row.ID, ColID: col.ID}

	if row.Kind != grid.RowExercise {
		return rowStyle.Render(strings.Repeat(" ", width))
	}
	if m.isEditing(addr) {
		return m.styles.EditingStyle.Render(view.Fit(" "+m.input.View(), width))
	}

	text := row.Prescriptions[col.ID]
	var style lipgloss.Style
	switch {
	case m.isActive(addr):
		style = m.styles.ActiveStyle
	case row.Invalid[col.ID]:
		style = m.styles.InvalidStyle
	case text == "":
		style = m.styles.PlaceholderStyle.Background(rowStyle.GetBackground())
	default:
		style = rowStyle
	}
	return style.Render(view.Fit(" "+notation.Display(text), width))
}

func (m Model) isActive(addr grid.Address) bool {
	return m.ctrl.Active() == addr
}

func (m Model) isEditing(addr grid.Address) bool {
	editing, _, ok := m.ctrl.Editing()
	return ok && editing == addr
}

// renderDropdown draws the search results of the open exercise combobox.
func (m Model) renderDropdown() string {
	items, highlight, total, loaded := m.ctrl.SearchResults()
	width := max(m.viewport.exerciseWidth, dropdownMinWidth)

	var lines []string
	switch {
	case !loaded:
		lines = append(lines, m.styles.DropdownMetaStyle.Render(view.Fit("searching…", width)))
	case len(items) == 0:
		lines = append(lines, m.styles.DropdownMetaStyle.Render(view.Fit("no matches", width)))
	default:
		for i, ex := range items {
			style := m.styles.DropdownItemStyle
			if i == highlight {
				style = m.styles.DropdownActiveStyle
			}
			lines = append(lines, style.Render(view.Fit(" "+ex.Name, width)))
		}
		if total > len(items) {
			meta := fmt.Sprintf("%d of %d, keep typing", len(items), total)
			lines = append(lines, m.styles.DropdownMetaStyle.Render(view.Fit(meta, width)))
		}
	}
	return m.styles.DropdownStyle.Render(strings.Join(lines, "\n"))
}

// spliceDropdown draws the dropdown below the edited cell, or above it when
// there is no room below.
func (m Model) spliceDropdown(body []string) []string {
	addr, _, ok := m.ctrl.Editing()
	if !ok {
		return body
	}
	x, y, ok := m.viewport.CellOrigin(addr)
	if !ok {
		return body
	}
	box := m.renderDropdown()
	boxH := lipgloss.Height(box)

	row := y - m.viewport.GridTop()
	top := row + 1
	if top+boxH > m.viewport.GridHeight() && row-boxH >= 0 {
		top = row - boxH
	}
	for len(body) < m.viewport.GridHeight() {
		body = append(body, m.fill(""))
	}
	return view.Splice(body, box, max(x-1, 0), top)
}

func (m Model) renderMessage() []string {
	if m.loadErr == nil {
		return []string{m.fill(m.styles.StatusStyle.Render(fmt.Sprintf("  Loading program %s…", m.programID)))}
	}
	msg := fmt.Sprintf("  Could not load program %s: %v", m.programID, m.loadErr)
	if errors.Is(m.loadErr, program.ErrProgramNotFound) {
		msg = fmt.Sprintf("  Program %q was not found.", m.programID)
	}
	return []string{
		m.fill(m.styles.ErrorStyle.Render(msg)),
		m.fill(""),
		m.fill(m.styles.HelpStyle.Render("  Press r to retry or ^q to quit.")),
	}
}

func (m Model) renderConfirmDelete() string {
	if m.ctrl == nil {
		return ""
	}
	rowID, ok := m.ctrl.PendingDelete()
	if !ok {
		return ""
	}
	row, _ := m.ctrl.Data().Row(rowID)
	name := row.ExerciseName
	if label := row.Label(); label != "" {
		name = label + " " + name
	}
	return strings.Join([]string{
		m.styles.ModalTitleStyle.Render("Delete exercise?"),
		"",
		m.styles.ModalBodyStyle.Render(name),
		m.styles.ModalBodyStyle.Render("It is removed from every week."),
		"",
		m.styles.ModalHintStyle.Render("enter/y delete · esc/n keep"),
	}, "\n")
}

func (m Model) renderFooter() string {
	status := m.statusMsg
	statusStyle := m.styles.StatusStyle
	if m.statusErr {
		statusStyle = m.styles.ErrorStyle
	}
	if status == "" {
		status = m.positionText()
		statusStyle = m.styles.HelpStyle
	}
	return view.RenderFooter(view.FooterModel{
		Width:       m.width,
		StatusText:  " " + status,
		HelpText:    " " + m.help.ShortHelpView(m.keys.shortHelp(m.mode)),
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
	})
}

// positionText describes the active cell, e.g. "DAY 1 • SQUAT › A Back Squat › Week 2".
func (m Model) positionText() string {
	if m.ctrl == nil {
		return ""
	}
	d := m.ctrl.Data()
	active := m.ctrl.Active()
	row, ok := d.Row(active.RowID)
	if !ok {
		return ""
	}
	parts := []string{row.SessionName}
	switch row.Kind {
	case grid.RowExercise:
		name := row.ExerciseName
		if label := row.Label(); label != "" {
			name = label + " " + name
		}
		parts = append(parts, name)
	case grid.RowAddExercise:
		parts = append(parts, "new exercise")
	}
	if col, ok := d.Column(active.ColID); ok && col.Kind == grid.ColumnWeek {
		parts = append(parts, col.Name)
	}
	return strings.Join(parts, " › ")
}
