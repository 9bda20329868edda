package grid

import (
	"strings"
	"unicode/utf8"

	"github.com/javiermolinar/coachgrid/internal/program"
)

// EditKind describes what the editing cell is editing.
type EditKind int

const (
	EditNone EditKind = iota
	// EditPrescription is a plain text buffer over a week cell.
	EditPrescription
	// EditExercise is the exercise search over the exercise column.
	EditExercise
	// EditAddExercise is the exercise search hosted by an add-exercise row.
	EditAddExercise
)

func (k EditKind) String() string {
	switch k {
	case EditNone:
		return "viewing"
	case EditPrescription:
		return "editing"
	case EditExercise:
		return "exercise-search"
	case EditAddExercise:
		return "add-exercise"
	default:
		return "unknown"
	}
}

// IsSearch reports whether the editor is an exercise search.
func (k EditKind) IsSearch() bool {
	return k == EditExercise || k == EditAddExercise
}

// SearchRequest asks the host for exercises matching Term. Results must be
// handed back with the same Token; anything else is dropped.
type SearchRequest struct {
	Token int
	Term  string
}

// editState is the open editor. It exists only while a cell is editing.
type editState struct {
	kind   EditKind
	addr   Address
	buffer Buffer

	// Search editors only.
	token     int
	results   []program.Exercise
	total     int
	highlight int
	loaded    bool
}

func (e *editState) term() string {
	return strings.TrimSpace(e.buffer.String())
}

// keyRune returns the rune typed by key when key is a printable character.
func keyRune(key string) (rune, bool) {
	if key == "space" {
		return ' ', true
	}
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	if r < ' ' || r == 0x7f {
		return 0, false
	}
	return r, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
