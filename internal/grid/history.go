package grid

import (
	"errors"

	"github.com/javiermolinar/coachgrid/internal/program"
)

// History errors.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultHistoryLimit bounds the number of undoable commands.
const DefaultHistoryLimit = 100

// CommandKind tags a command with the kind of change it made.
type CommandKind string

const (
	KindEditCell      CommandKind = "edit-cell"
	KindClearCell     CommandKind = "clear-cell"
	KindPaste         CommandKind = "paste"
	KindBulkWeekCopy  CommandKind = "bulk-week-copy"
	KindSetExercise   CommandKind = "set-exercise"
	KindReorder       CommandKind = "reorder"
	KindGroupToggle   CommandKind = "group-toggle"
	KindGroupWithPrev CommandKind = "group-with-above"
	KindUngroup       CommandKind = "ungroup"
	KindAddRow        CommandKind = "add-row"
	KindDeleteRow     CommandKind = "delete-row"
	KindAddWeek       CommandKind = "add-week"
	KindAddSession    CommandKind = "add-session"
)

// Command is one committed, invertible change to the program.
type Command interface {
	Kind() CommandKind

	// Apply moves the program to the post-command state.
	Apply(p *program.Program)

	// Revert moves the program back to the pre-command state.
	Revert(p *program.Program)

	// Mutations returns the sink calls that persist Apply (forward) or
	// Revert (!forward).
	Mutations(programID string, forward bool) []program.Mutation
}

// History is a linear undo/redo stack.
type History struct {
	done   []Command
	undone []Command
	limit  int
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records a new command and discards the redo branch.
func (h *History) Push(c Command) {
	h.undone = nil
	h.done = append(h.done, c)
	if len(h.done) > h.limit {
		h.done = h.done[len(h.done)-h.limit:]
	}
}

// Undo pops the most recent command.
func (h *History) Undo() (Command, error) {
	if len(h.done) == 0 {
		return nil, ErrNothingToUndo
	}
	c := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, c)
	return c, nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() (Command, error) {
	if len(h.undone) == 0 {
		return nil, ErrNothingToRedo
	}
	c := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, c)
	return c, nil
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.done) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Len returns the number of undoable commands.
func (h *History) Len() int { return len(h.done) }
