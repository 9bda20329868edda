package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/coachgrid/internal/tui/view"
)

const (
	overlayMinWidth  = 24
	overlayMinHeight = 5
	overlayMaxWidth  = 56
	overlayMaxHeight = 10
)

// OverlayModel renders an opaque box centered over the grid. It backs the
// delete confirmation.
type OverlayModel struct {
	active  bool
	bgColor lipgloss.Color
}

// NewOverlayModel initializes an overlay model.
func NewOverlayModel() OverlayModel {
	return OverlayModel{}
}

// SetActive shows or hides the overlay.
func (o *OverlayModel) SetActive(active bool) {
	o.active = active
}

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.active
}

// SetBackground updates the overlay background color.
func (o *OverlayModel) SetBackground(color lipgloss.Color) {
	o.bgColor = color
}

// Render draws the overlay on top of base content.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.active || width <= 0 || height <= 0 {
		return base
	}

	contentLines := strings.Split(content, "\n")
	contentW := 0
	for _, line := range contentLines {
		contentW = max(contentW, lipgloss.Width(line))
	}

	boxW, boxH := o.boxSize(width, height)
	boxW = min(max(boxW, contentW), width)
	boxH = min(max(boxH, len(contentLines)), height)

	box := o.fill(contentLines, boxW, boxH)
	top := (height - boxH) / 2
	left := (width - boxW) / 2

	baseLines := strings.Split(view.PadLinesWithBackground(base, width, height, lipgloss.Color("")), "\n")
	return strings.Join(view.Splice(baseLines, box, left, top), "\n")
}

func (o OverlayModel) boxSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	boxW := min(max(width/2, overlayMinWidth), overlayMaxWidth, width)
	boxH := min(max(height/3, overlayMinHeight), overlayMaxHeight, height)
	return boxW, boxH
}

// fill centers content inside a boxW×boxH block painted with the overlay
// background.
func (o OverlayModel) fill(content []string, boxW, boxH int) string {
	bgSeq := view.ModalBackgroundSeq(o.bgColor)
	blank := bgSeq + strings.Repeat(" ", boxW) + ansi.ResetStyle

	contentH := min(len(content), boxH)
	top := (boxH - contentH) / 2

	lines := make([]string, boxH)
	for i := range lines {
		ci := i - top
		if ci < 0 || ci >= contentH {
			lines[i] = blank
			continue
		}
		line := view.Fit(content[ci], boxW)
		if w := lipgloss.Width(strings.TrimRight(ansi.Strip(line), " ")); w < boxW {
			// Center the visible text.
			pad := (boxW - w) / 2
			line = view.Fit(strings.Repeat(" ", pad)+strings.TrimRight(line, " "), boxW)
		}
		lines[i] = bgSeq + view.ApplyModalBackgroundResets(line, o.bgColor) + ansi.ResetStyle
	}
	return strings.Join(lines, "\n")
}
