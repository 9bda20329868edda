package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/coachgrid/internal/config"
	"github.com/javiermolinar/coachgrid/internal/outbox"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/seed"
	"github.com/javiermolinar/coachgrid/internal/tui/commands"
)

// memStore serves the demo program and catalog from memory.
type memStore struct {
	searchErr error
}

func (s memStore) LoadProgram(_ context.Context, id string) (*program.Program, error) {
	if id != seed.ProgramID {
		return nil, program.ErrProgramNotFound
	}
	return seed.Program(), nil
}

func (s memStore) SearchExercises(_ context.Context, term string, limit int) (program.ExercisePage, error) {
	if s.searchErr != nil {
		return program.ExercisePage{}, s.searchErr
	}
	var page program.ExercisePage
	for _, ex := range seed.Exercises() {
		if !strings.Contains(strings.ToLower(ex.Name), strings.ToLower(term)) {
			continue
		}
		page.TotalCount++
		if len(page.Items) < limit {
			page.Items = append(page.Items, ex)
		}
	}
	return page, nil
}

func (s memStore) ExercisesByID(_ context.Context, ids []string) (map[string]program.Exercise, error) {
	out := make(map[string]program.Exercise)
	for _, ex := range seed.Exercises() {
		out[ex.ID] = ex
	}
	return out, nil
}

// recordingSink records applied mutations. While fail is set, Apply
// returns an error.
type recordingSink struct {
	mu    sync.Mutex
	muts  []program.Mutation
	fail  bool
	block chan struct{}
}

func (s *recordingSink) Apply(_ context.Context, m program.Mutation) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("server unavailable")
	}
	s.muts = append(s.muts, m)
	return nil
}

func (s *recordingSink) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *recordingSink) mutations() []program.Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]program.Mutation(nil), s.muts...)
}

func setAsciiProfile(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

type testClock struct{ now time.Time }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Grid.SearchDebounceMS = 0
	return cfg
}

func newOutbox(t *testing.T, sink *recordingSink) *outbox.Outbox {
	t.Helper()
	box := outbox.New(sink)
	t.Cleanup(func() { _ = box.Close() })
	return box
}

// loadedModel returns a model that has received its window size and the
// demo program.
func loadedModel(t *testing.T, box *outbox.Outbox, opts ...ModelOption) Model {
	t.Helper()
	m := New(memStore{}, box, testConfig(), seed.ProgramID, opts...)
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 30})
	msg := commands.LoadProgram(memStore{}, seed.ProgramID)()
	return update(t, m, msg)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeKeys sends each key and returns the model with the last command.
func typeKeys(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = updateCmd(t, m, keyMsg(k))
	}
	return m, cmd
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
