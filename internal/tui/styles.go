// Package tui provides the terminal user interface for coachgrid.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/coachgrid/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorSession     lipgloss.Color
	colorSuperset    lipgloss.Color
	colorEditing     lipgloss.Color
	colorInvalid     lipgloss.Color

	// Header bar
	TitleStyle    lipgloss.Style
	ProgramStyle  lipgloss.Style
	SyncedStyle   lipgloss.Style
	UnsyncedStyle lipgloss.Style
	FailedStyle   lipgloss.Style

	// Column headers
	ColumnHeaderStyle       lipgloss.Style
	ColumnHeaderActiveStyle lipgloss.Style

	// Rows
	SessionStyle     lipgloss.Style
	ExerciseStyle    lipgloss.Style
	SupersetStyle    lipgloss.Style
	SupersetAltStyle lipgloss.Style
	AddRowStyle      lipgloss.Style
	LabelStyle       lipgloss.Style
	ConnectorStyle   lipgloss.Style
	HandleStyle      lipgloss.Style

	// Cells
	CellStyle        lipgloss.Style
	PlaceholderStyle lipgloss.Style
	InvalidStyle     lipgloss.Style
	ActiveStyle      lipgloss.Style
	EditingStyle     lipgloss.Style

	// Drag and drop
	DragSourceStyle lipgloss.Style
	DragTargetStyle lipgloss.Style

	// Search dropdown
	DropdownStyle       lipgloss.Style
	DropdownItemStyle   lipgloss.Style
	DropdownActiveStyle lipgloss.Style
	DropdownMetaStyle   lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal
	ModalStyle         lipgloss.Style
	ModalTitleStyle    lipgloss.Style
	ModalBodyStyle     lipgloss.Style
	ModalHintStyle     lipgloss.Style
	ModalBackdropColor lipgloss.Color

	SeparatorStyle lipgloss.Style
	AppStyle       lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorSession = palette.Session
	s.colorSuperset = palette.Superset
	s.colorEditing = palette.Editing
	s.colorInvalid = palette.Invalid

	base := lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.TitleStyle = base.
		Bold(true).
		Foreground(s.colorAccent)

	s.ProgramStyle = base.Bold(true)

	s.SyncedStyle = base.Foreground(s.colorFgMuted)

	s.UnsyncedStyle = base.
		Foreground(s.colorEditing).
		Bold(true)

	s.FailedStyle = lipgloss.NewStyle().
		Background(s.colorInvalid).
		Foreground(palette.TextOnInvalid).
		Bold(true)

	s.ColumnHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorFg).
		Background(s.colorBgHighlight)

	s.ColumnHeaderActiveStyle = s.ColumnHeaderStyle.
		Foreground(s.colorAccent)

	// Session headers span the whole row.
	s.SessionStyle = lipgloss.NewStyle().
		Bold(true).
		Background(palette.SessionBg).
		Foreground(palette.TextOnSession)

	s.ExerciseStyle = base

	s.SupersetStyle = lipgloss.NewStyle().
		Background(palette.SupersetBg).
		Foreground(palette.TextOnSuperset)

	s.SupersetAltStyle = lipgloss.NewStyle().
		Background(palette.SupersetBgAlt).
		Foreground(palette.TextOnSuperset)

	s.AddRowStyle = base.
		Foreground(s.colorFgMuted).
		Italic(true)

	s.LabelStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Bold(true)

	s.ConnectorStyle = lipgloss.NewStyle().
		Foreground(s.colorSuperset)

	s.HandleStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	s.CellStyle = base

	s.PlaceholderStyle = base.Foreground(s.colorFgMuted)

	s.InvalidStyle = lipgloss.NewStyle().
		Background(palette.InvalidBg).
		Foreground(s.colorInvalid).
		Underline(true)

	s.ActiveStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.EditingStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorEditing).
		Bold(true)

	s.DragSourceStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorFgMuted).
		Italic(true)

	s.DragTargetStyle = lipgloss.NewStyle().
		Background(palette.DragBg).
		Foreground(palette.TextOnEditing).
		Bold(true)

	s.DropdownStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.Modal.Border).
		BorderBackground(palette.Modal.Bg).
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Text)

	s.DropdownItemStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Text)

	s.DropdownActiveStyle = lipgloss.NewStyle().
		Background(palette.Modal.Highlight).
		Foreground(palette.Modal.Text).
		Bold(true)

	s.DropdownMetaStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Muted).
		Italic(true)

	s.StatusStyle = base.Foreground(s.colorAccent)

	s.ErrorStyle = base.
		Foreground(s.colorInvalid).
		Bold(true)

	s.HelpStyle = base.Foreground(s.colorFgMuted)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.Modal.Border).
		BorderBackground(palette.Modal.Bg).
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Text).
		Padding(1, 2)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Border).
		Bold(true)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Text)

	s.ModalHintStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Muted)

	s.ModalBackdropColor = palette.Modal.Backdrop

	s.SeparatorStyle = base.Foreground(s.colorBgSelection)

	s.AppStyle = base

	return s
}
