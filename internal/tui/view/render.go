// Package view provides view composition helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OverlayRenderer renders modal overlays on top of base content.
type OverlayRenderer interface {
	Render(base string, width, height int, content string) string
}

// ViewState contains pre-rendered sections and overlay metadata.
type ViewState struct {
	Width            int
	Height           int
	Header           []string
	Body             []string
	Footer           string
	ModalContent     string
	ShowModal        bool
	Overlay          OverlayRenderer
	EmptyPlaceholder string
	Bg               lipgloss.Color
}

// Render composes the final view output. The body fills the space between
// header and footer so that the footer stays at the bottom.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.EmptyPlaceholder != "" {
			return state.EmptyPlaceholder
		}
		return "Loading..."
	}

	footerH := 0
	if state.Footer != "" {
		footerH = strings.Count(state.Footer, "\n") + 1
	}
	bodyH := max(state.Height-len(state.Header)-footerH, 0)

	lines := make([]string, 0, state.Height)
	lines = append(lines, state.Header...)
	body := PadLinesWithBackground(strings.Join(state.Body, "\n"), state.Width, bodyH, state.Bg)
	if bodyH > 0 {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	if footerH > 0 {
		lines = append(lines, state.Footer)
	}
	base := strings.Join(lines, "\n")

	if state.ShowModal && state.Overlay != nil {
		return state.Overlay.Render(base, state.Width, state.Height, state.ModalContent)
	}
	return base
}
