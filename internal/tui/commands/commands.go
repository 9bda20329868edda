// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/outbox"
	"github.com/javiermolinar/coachgrid/internal/program"
)

// Store is the read side the TUI needs.
type Store interface {
	program.Source
	program.ExerciseLookup
}

// ProgramLoadedMsg is sent when the program and its exercise names are
// loaded.
type ProgramLoadedMsg struct {
	Program *program.Program
	Names   map[string]string
}

// LoadFailedMsg is sent when the program could not be loaded.
type LoadFailedMsg struct {
	ProgramID string
	Err       error
}

// NotFound reports whether the program does not exist.
func (m LoadFailedMsg) NotFound() bool {
	return errors.Is(m.Err, program.ErrProgramNotFound)
}

// SearchTickMsg fires when the debounce delay of a search request elapses.
type SearchTickMsg struct {
	Request grid.SearchRequest
}

// SearchResultMsg carries the answer to a search request.
type SearchResultMsg struct {
	Token int
	Page  program.ExercisePage
	Err   error
}

// OutboxResultMsg carries the outcome of one delivery attempt.
type OutboxResultMsg struct {
	Result outbox.Result
}

// FlushedMsg is sent once pending mutations were drained before quitting.
type FlushedMsg struct {
	Err error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadProgram loads a program and resolves the names of its exercises.
func LoadProgram(store Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		p, err := store.LoadProgram(ctx, id)
		if err != nil {
			return LoadFailedMsg{ProgramID: id, Err: err}
		}

		exercises, err := store.ExercisesByID(ctx, p.ExerciseIDs())
		if err != nil {
			return LoadFailedMsg{ProgramID: id, Err: fmt.Errorf("resolving exercises: %w", err)}
		}
		names := make(map[string]string, len(exercises))
		for id, ex := range exercises {
			names[id] = ex.Name
		}

		return ProgramLoadedMsg{Program: p, Names: names}
	}
}

// DebounceSearch waits delay before asking for req. A request that went
// stale in the meantime is dropped by the receiver.
func DebounceSearch(req grid.SearchRequest, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return SearchTickMsg{Request: req} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SearchTickMsg{Request: req}
	})
}

// SearchExercises runs a catalog lookup for req.
func SearchExercises(lookup program.ExerciseLookup, req grid.SearchRequest, limit int) tea.Cmd {
	return func() tea.Msg {
		page, err := lookup.SearchExercises(context.Background(), req.Term, limit)
		return SearchResultMsg{Token: req.Token, Page: page, Err: err}
	}
}

// WaitOutbox blocks until the next delivery result. The receiver must
// re-issue it after every OutboxResultMsg.
func WaitOutbox(results <-chan outbox.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return OutboxResultMsg{Result: r}
	}
}

// FlushOutbox drains pending mutations, giving up after timeout.
func FlushOutbox(box *outbox.Outbox, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return FlushedMsg{Err: box.Flush(ctx)}
	}
}

// CopyToClipboard puts text on the OS clipboard.
func CopyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying %s: %w", what, err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what + " to clipboard"}
	}
}
