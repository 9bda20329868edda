// Package grid flattens a training program into a spreadsheet-like table
// and implements the keyboard driven editor on top of it: navigation, edit
// mode, undo/redo, clipboard, reordering and superset grouping.
package grid

import "strconv"

// ExerciseColumnID is the id of the fixed first column.
const ExerciseColumnID = "exercise"

// UnknownExercise is shown when an exercise id has no catalog entry.
const UnknownExercise = "Unknown Exercise"

// RowKind distinguishes the three kinds of grid rows.
type RowKind int

const (
	RowSessionHeader RowKind = iota
	RowExercise
	RowAddExercise
)

func (k RowKind) String() string {
	switch k {
	case RowSessionHeader:
		return "session-header"
	case RowExercise:
		return "exercise"
	case RowAddExercise:
		return "add-exercise"
	default:
		return "unknown"
	}
}

// Connector marks where a row sits inside a superset.
type Connector string

const (
	ConnectorNone   Connector = ""
	ConnectorStart  Connector = "start"
	ConnectorMiddle Connector = "middle"
	ConnectorEnd    Connector = "end"
)

// Row is one line of the grid.
type Row struct {
	Kind        RowKind
	ID          string
	SessionID   string
	SessionName string

	// Exercise rows only.
	ExerciseID      string
	ExerciseName    string
	GroupID         string
	GroupSize       int
	PositionInGroup int // zero based
	GroupLetter     string
	GroupIndex      int // one based
	Connector       Connector
	IsSubRow        bool
	SetTypeLabel    string

	// Prescriptions maps week id to the cell text. Invalid marks cells
	// whose text did not parse.
	Prescriptions map[string]string
	Invalid       map[string]bool
}

// Navigable reports whether the row can hold the active cell.
func (r Row) Navigable() bool {
	return r.Kind != RowSessionHeader
}

// InSuperset reports whether the row shares its group with other rows.
func (r Row) InSuperset() bool {
	return r.Kind == RowExercise && r.GroupSize > 1
}

// Label returns the group label, for example "B2".
func (r Row) Label() string {
	if r.Kind != RowExercise || r.GroupLetter == "" {
		return ""
	}
	if r.GroupSize > 1 {
		return r.GroupLetter + strconv.Itoa(r.GroupIndex)
	}
	return r.GroupLetter
}

// ColumnKind distinguishes the exercise column from week columns.
type ColumnKind int

const (
	ColumnExercise ColumnKind = iota
	ColumnWeek
)

// Column is one column of the grid.
type Column struct {
	ID   string
	Name string
	Kind ColumnKind
}

// Address identifies a cell by row and column id.
type Address struct {
	RowID string
	ColID string
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a.RowID == "" && a.ColID == ""
}

// SessionHeaderID returns the row id of a session header.
func SessionHeaderID(sessionID string) string {
	return "session-header-" + sessionID
}

// AddExerciseID returns the row id of a session's add-exercise row.
func AddExerciseID(sessionID string) string {
	return "add-exercise-" + sessionID
}

// GroupLetter returns the letter for the i-th group (0 → A, 25 → Z,
// 26 → AA).
func GroupLetter(i int) string {
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}
