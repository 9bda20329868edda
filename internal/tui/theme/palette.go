// Package theme provides color themes for the TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Session     lipgloss.Color
	Superset    lipgloss.Color
	Editing     lipgloss.Color
	Invalid     lipgloss.Color

	// Row backgrounds. Consecutive supersets alternate between the two
	// superset shades so that adjacent groups stay distinguishable.
	SessionBg     lipgloss.Color
	SupersetBg    lipgloss.Color
	SupersetBgAlt lipgloss.Color
	InvalidBg     lipgloss.Color
	DragBg        lipgloss.Color

	TextOnAccent   lipgloss.Color
	TextOnInvalid  lipgloss.Color
	TextOnEditing  lipgloss.Color
	TextOnSession  lipgloss.Color
	TextOnSuperset lipgloss.Color

	Modal ModalColors
}

// ModalColors holds modal-specific colors derived from a Theme.
type ModalColors struct {
	Bg          lipgloss.Color
	Border      lipgloss.AdaptiveColor
	Text        lipgloss.AdaptiveColor
	Muted       lipgloss.AdaptiveColor
	Highlight   lipgloss.AdaptiveColor
	Panel       lipgloss.AdaptiveColor
	ReverseText lipgloss.AdaptiveColor
	Backdrop    lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	isLight := isLightTheme(t.Bg)
	sessionBgHex := rowBaseBg(t.Session, t.Bg, isLight)
	supersetBgHex := rowMutedBg(t.Superset, t.Bg, isLight)
	supersetAltHex := alternateShade(supersetBgHex, isLight)
	invalidBgHex := rowMutedBg(t.Invalid, t.Bg, isLight)
	dragBgHex := rowBaseBg(t.Editing, t.Bg, isLight)

	modalPalette := t.Modal()
	modalBgHex := coalesce(modalPalette.BaseBg, t.BgHighlight, t.Bg)
	modalTextHex := coalesce(modalPalette.TextPrimary, t.Fg)
	modalMutedHex := coalesce(modalPalette.TextMuted, t.FgMuted)
	modalHighlightHex := coalesce(modalPalette.Highlight, t.BgSelection, t.Accent)
	modalBorderHex := coalesce(modalPalette.ModalBorder, t.Accent)
	modalPanelHex := coalesce(t.BgSelection, t.BgHighlight, t.Bg)
	modalBackdropHex := coalesce(t.BgSelection, t.BgHighlight, t.Bg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Session:     lipgloss.Color(t.Session),
		Superset:    lipgloss.Color(t.Superset),
		Editing:     lipgloss.Color(t.Editing),
		Invalid:     lipgloss.Color(t.Invalid),

		SessionBg:     lipgloss.Color(sessionBgHex),
		SupersetBg:    lipgloss.Color(supersetBgHex),
		SupersetBgAlt: lipgloss.Color(supersetAltHex),
		InvalidBg:     lipgloss.Color(invalidBgHex),
		DragBg:        lipgloss.Color(dragBgHex),

		TextOnAccent:   lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnInvalid:  lipgloss.Color(chooseTextColor(t.Invalid, t.Bg, t.Fg)),
		TextOnEditing:  lipgloss.Color(chooseTextColor(t.Editing, t.Bg, t.Fg)),
		TextOnSession:  lipgloss.Color(chooseTextColor(sessionBgHex, t.Bg, t.Fg)),
		TextOnSuperset: lipgloss.Color(chooseTextColor(supersetBgHex, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:          lipgloss.Color(modalBgHex),
			Border:      adaptiveColor(modalBorderHex),
			Text:        adaptiveColor(modalTextHex),
			Muted:       adaptiveColor(modalMutedHex),
			Highlight:   adaptiveColor(modalHighlightHex),
			Panel:       adaptiveColor(modalPanelHex),
			ReverseText: reverseTextColor(modalBgHex, modalTextHex),
			Backdrop:    lipgloss.Color(modalBackdropHex),
		},
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

func rowBaseBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return scaleColor(accent, 0.50, 40)
}

func rowMutedBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.88)
	}
	return muteColor(accent)
}

// muteColor creates a heavily muted version of a hex color, dark enough to
// sit behind regular cell text.
func muteColor(hex string) string {
	return scaleColor(hex, 0.30, 30)
}

// scaleColor multiplies each channel by factor and lifts it to at least
// floor (0-255) so that dark accents stay visible.
func scaleColor(hex string, factor float64, floor int) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	lo := float64(floor) / 255
	return colorful.Color{
		R: max(c.R*factor, lo),
		G: max(c.G*factor, lo),
		B: max(c.B*factor, lo),
	}.Clamped().Hex()
}

// alternateShade creates a subtle alternate shade for adjacent groups.
func alternateShade(hex string, isLight bool) string {
	if isLight {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

// blendColors mixes b into a by ratio in RGB space. Invalid input returns a.
func blendColors(a, b string, ratio float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendRgb(cb, min(max(ratio, 0), 1)).Clamped().Hex()
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Dark:  hex,
		Light: hex,
	}
}

func reverseTextColor(darkBg, lightText string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Dark:  darkBg,
		Light: lightText,
	}
}

// chooseTextColor returns whichever text color contrasts more with bg.
func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance is the WCAG luminance of a hex color, 0 when it does
// not parse.
func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
