package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/coachgrid/internal/notation"
	"github.com/javiermolinar/coachgrid/internal/seed"
	"github.com/javiermolinar/coachgrid/internal/tui/commands"
)

func viewLines(t *testing.T, m Model) []string {
	t.Helper()
	out := m.View()
	lines := strings.Split(out, "\n")
	if len(lines) != m.height {
		t.Fatalf("view has %d lines, want %d", len(lines), m.height)
	}
	return lines
}

func TestViewBeforeSize(t *testing.T) {
	m := New(memStore{}, nil, testConfig(), seed.ProgramID)
	if got := m.View(); !strings.Contains(got, "Loading...") {
		t.Errorf("view = %q", got)
	}
}

func TestViewLoadingAndNotFound(t *testing.T) {
	setAsciiProfile(t)
	m := New(memStore{}, nil, testConfig(), "missing")
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})

	if out := m.View(); !strings.Contains(out, "Loading program missing") {
		t.Errorf("expected loading message, got:\n%s", out)
	}

	m = update(t, m, commands.LoadProgram(memStore{}, "missing")())
	out := m.View()
	if !strings.Contains(out, `Program "missing" was not found.`) {
		t.Errorf("expected not found message, got:\n%s", out)
	}
	if !strings.Contains(out, "Press r to retry") {
		t.Errorf("expected retry hint, got:\n%s", out)
	}
}

func TestViewRendersGrid(t *testing.T) {
	setAsciiProfile(t)
	m := loadedModel(t, nil)
	lines := viewLines(t, m)

	for i, line := range lines {
		if w := lipgloss.Width(line); w != m.width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, m.width, line)
		}
	}

	out := strings.Join(lines, "\n")
	for _, want := range []string{
		"Max Strength - Phase 1",
		"Week 1 - Accumulation",
		"DAY 1 • SQUAT",
		"DAY 3 • DEADLIFT",
		"A Back Squat",
		"B1 Incline Dumbbell Press",
		"┌",
		"└",
		notation.Placeholder,
		addExerciseLabel,
		handleGlyph,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Row 3 of the screen is the squat row.
	if !strings.Contains(lines[3], "Back Squat") {
		t.Errorf("line 3 = %q", lines[3])
	}
	if !strings.Contains(lines[len(lines)-2], "DAY 1 • SQUAT › A Back Squat") {
		t.Errorf("footer status = %q", lines[len(lines)-2])
	}
}

func TestViewShowsSyncState(t *testing.T) {
	setAsciiProfile(t)
	m := loadedModel(t, nil)
	if strings.Contains(viewLines(t, m)[0], "unsaved") {
		t.Fatal("a fresh program is not unsaved")
	}

	m, _ = typeKeys(t, m, "right", "delete")
	if !strings.Contains(viewLines(t, m)[0], "● unsaved") {
		t.Errorf("title = %q", viewLines(t, m)[0])
	}
}

func TestViewEditingShowsInput(t *testing.T) {
	setAsciiProfile(t)
	m := loadedModel(t, nil)
	m, _ = typeKeys(t, m, "right", "4", "x", "6")

	line := ansi.Strip(viewLines(t, m)[3])
	if !strings.Contains(line, "4x6") {
		t.Errorf("editing row = %q", line)
	}
}

func TestViewSearchDropdown(t *testing.T) {
	setAsciiProfile(t)
	m := loadedModel(t, nil)

	m, cmd := typeKeys(t, m, "d")
	if out := m.View(); !strings.Contains(out, "searching…") {
		t.Errorf("expected pending search, got:\n%s", out)
	}

	m, search := updateCmd(t, m, cmd())
	m = update(t, m, search())
	lines := viewLines(t, m)
	out := strings.Join(lines, "\n")
	for _, want := range []string{"Dumbbell Bench Press", "Romanian Deadlift"} {
		if !strings.Contains(out, want) {
			t.Errorf("dropdown missing %q", want)
		}
	}
	// The dropdown opens below the edited cell.
	if strings.Contains(strings.Join(lines[:4], "\n"), "Romanian Deadlift") {
		t.Error("dropdown drawn above the edited cell")
	}
}

func TestViewSearchNoMatches(t *testing.T) {
	setAsciiProfile(t)
	m := loadedModel(t, nil)

	m, cmd := typeKeys(t, m, "z", "z", "z")
	m, search := updateCmd(t, m, cmd())
	m = update(t, m, search())
	if out := m.View(); !strings.Contains(out, "no matches") {
		t.Errorf("expected no matches, got:\n%s", out)
	}
}

func TestViewConfirmDeleteModal(t *testing.T) {
	setAsciiProfile(t)
	m := loadedModel(t, nil)
	m, _ = typeKeys(t, m, "ctrl+x")

	out := m.View()
	for _, want := range []string{"Delete exercise?", "A Back Squat", "It is removed from every week.", "enter/y delete"} {
		if !strings.Contains(out, want) {
			t.Errorf("modal missing %q", want)
		}
	}
	if len(strings.Split(out, "\n")) != m.height {
		t.Errorf("modal changed the view height")
	}
}

func TestViewEmptyProgram(t *testing.T) {
	setAsciiProfile(t)
	m := New(memStore{}, nil, testConfig(), seed.ProgramID)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 10})
	p := seed.Program()
	p.Weeks = p.Weeks[:1]
	p.Weeks[0].Sessions = nil
	m = update(t, m, commands.ProgramLoadedMsg{Program: p, Names: seed.Names()})

	if out := m.View(); !strings.Contains(out, "No sessions yet") {
		t.Errorf("expected empty placeholder, got:\n%s", out)
	}
}

func TestPositionText(t *testing.T) {
	m := loadedModel(t, nil)
	m, _ = typeKeys(t, m, "down", "right")
	if got, want := m.positionText(), "DAY 1 • SQUAT › B Leg Press › Week 1 - Accumulation"; got != want {
		t.Errorf("positionText() = %q, want %q", got, want)
	}
	m, _ = typeKeys(t, m, "down")
	if got, want := m.positionText(), "DAY 1 • SQUAT › new exercise › Week 1 - Accumulation"; got != want {
		t.Errorf("positionText() = %q, want %q", got, want)
	}
}
