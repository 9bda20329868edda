package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Fit truncates or pads s to exactly width terminal cells.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// Center places s in the middle of width cells.
func Center(s string, width int) string {
	s = Fit(strings.TrimSpace(s), width)
	trimmed := strings.TrimRight(s, " ")
	pad := (width - lipgloss.Width(trimmed)) / 2
	return Fit(strings.Repeat(" ", pad)+trimmed, width)
}

// Ellipsize shortens s to width cells when needed, without padding.
func Ellipsize(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
