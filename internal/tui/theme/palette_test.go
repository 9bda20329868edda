package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_RowShades(t *testing.T) {
	base := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Session:     "#112233",
		Superset:    "#445566",
		Editing:     "#777777",
		Invalid:     "#888888",
	}

	palette := NewPalette(base)

	if palette.SessionBg != lipgloss.Color(scaleColor(base.Session, 0.50, 40)) {
		t.Fatalf("SessionBg = %q, want %q", palette.SessionBg, scaleColor(base.Session, 0.50, 40))
	}
	if palette.SupersetBg != lipgloss.Color(muteColor(base.Superset)) {
		t.Fatalf("SupersetBg = %q, want %q", palette.SupersetBg, muteColor(base.Superset))
	}
	if palette.SupersetBgAlt != lipgloss.Color(alternateShade(muteColor(base.Superset), false)) {
		t.Fatalf("SupersetBgAlt = %q, want %q", palette.SupersetBgAlt, alternateShade(muteColor(base.Superset), false))
	}
	if palette.InvalidBg != lipgloss.Color(muteColor(base.Invalid)) {
		t.Fatalf("InvalidBg = %q, want %q", palette.InvalidBg, muteColor(base.Invalid))
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	base := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Session:     "#00ff00",
		Superset:    "#0000ff",
		Editing:     "#ffff00",
		Invalid:     "#ff00ff",
	}

	palette := NewPalette(base)
	if palette.Modal.Bg != lipgloss.Color(base.BgHighlight) {
		t.Fatalf("Modal.Bg = %q, want %q", palette.Modal.Bg, base.BgHighlight)
	}
	if palette.Modal.Border.Dark != base.Accent {
		t.Fatalf("Modal.Border.Dark = %q, want %q", palette.Modal.Border.Dark, base.Accent)
	}
	if palette.Modal.Backdrop != lipgloss.Color(base.BgSelection) {
		t.Fatalf("Modal.Backdrop = %q, want %q", palette.Modal.Backdrop, base.BgSelection)
	}
}

func TestNewPalette_LightThemeInvertsShades(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Session:     "#1d8a8a",
		Superset:    "#2f8f2f",
		Editing:     "#c97b00",
		Invalid:     "#c2410c",
	}

	palette := NewPalette(base)
	if relativeLuminance(string(palette.SessionBg)) <= relativeLuminance(base.Session) {
		t.Fatalf("SessionBg luminance = %f, want greater than Session", relativeLuminance(string(palette.SessionBg)))
	}
	if relativeLuminance(string(palette.SupersetBg)) <= relativeLuminance(base.Superset) {
		t.Fatalf("SupersetBg luminance = %f, want greater than Superset", relativeLuminance(string(palette.SupersetBg)))
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}

func TestColorMath(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"scale halves", scaleColor("#808080", 0.5, 40), "#404040"},
		{"scale floor", scaleColor("#101010", 0.5, 40), "#282828"},
		{"scale invalid", scaleColor("teal", 0.5, 40), "teal"},
		{"blend midpoint", blendColors("#000000", "#ffffff", 0.5), "#808080"},
		{"blend clamps ratio", blendColors("#000000", "#ffffff", 2), "#ffffff"},
		{"blend invalid", blendColors("nope", "#ffffff", 0.5), "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
