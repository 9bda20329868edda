package grid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/javiermolinar/coachgrid/internal/program"
)

// Dispatcher receives every mutation produced by a committed command, undo
// or redo. Dispatch must not block.
type Dispatcher interface {
	Dispatch(m program.Mutation)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(m program.Mutation)

// Dispatch calls f(m).
func (f DispatcherFunc) Dispatch(m program.Mutation) { f(m) }

// Revealer scrolls the on-screen cell at an address into view. It is called
// after every change of the active cell.
type Revealer interface {
	Reveal(addr Address)
}

// Option configures a Controller.
type Option func(*Controller)

// WithDispatcher sets where committed mutations are sent.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) { c.dispatcher = d }
}

// WithRevealer sets the hook that keeps the active cell visible.
func WithRevealer(r Revealer) Option {
	return func(c *Controller) { c.revealer = r }
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) { c.history = NewHistory(n) }
}

// WithIDGenerator replaces the generator used for new item, group, week
// and session ids.
func WithIDGenerator(f func() string) Option {
	return func(c *Controller) { c.newID = f }
}

// Controller owns the grid state. Every change to the program goes through
// it so that the undo stack stays authoritative.
type Controller struct {
	prog  *program.Program
	names map[string]string
	data  *Data

	active        Address
	edit          *editState
	pendingDelete string
	drag          *dragState

	history    *History
	clipboard  string
	hasClip    bool
	dirty      bool
	lastKind   CommandKind
	searchSeq  int
	searchNext *SearchRequest

	dispatcher Dispatcher
	revealer   Revealer
	newID      func() string
}

// New builds a controller over a copy of p. names maps exercise ids to
// display names.
func New(p *program.Program, names map[string]string, opts ...Option) *Controller {
	if p == nil {
		p = &program.Program{}
	}
	c := &Controller{
		prog:    p.Clone(),
		names:   make(map[string]string, len(names)),
		history: NewHistory(DefaultHistoryLimit),
		newID:   uuid.NewString,
	}
	for id, name := range names {
		c.names[id] = name
	}
	for _, opt := range opts {
		opt(c)
	}
	c.prog.Sort()
	c.data = Transform(c.prog, c.names)
	if addr, ok := c.data.FirstCell(); ok {
		c.active = addr
	}
	return c
}

// Program returns the current program. Callers must not modify it.
func (c *Controller) Program() *program.Program { return c.prog }

// Data returns the derived rows and columns.
func (c *Controller) Data() *Data { return c.data }

// Rows returns the grid rows.
func (c *Controller) Rows() []Row { return c.data.Rows }

// Columns returns the grid columns.
func (c *Controller) Columns() []Column { return c.data.Columns }

// Active returns the active cell.
func (c *Controller) Active() Address { return c.active }

// ExerciseName returns the display name of an exercise id.
func (c *Controller) ExerciseName(id string) string { return exerciseName(c.names, id) }

// Editing returns the editing cell and what it is editing.
func (c *Controller) Editing() (Address, EditKind, bool) {
	if c.edit == nil {
		return Address{}, EditNone, false
	}
	return c.edit.addr, c.edit.kind, true
}

// EditBuffer returns the editor text and cursor position.
func (c *Controller) EditBuffer() (string, int) {
	if c.edit == nil {
		return "", 0
	}
	return c.edit.buffer.String(), c.edit.buffer.Cursor()
}

// SearchResults returns the results shown by an open search editor, the
// highlighted index, the total match count and whether results arrived.
func (c *Controller) SearchResults() ([]program.Exercise, int, int, bool) {
	if c.edit == nil || !c.edit.kind.IsSearch() {
		return nil, -1, 0, false
	}
	return c.edit.results, c.edit.highlight, c.edit.total, c.edit.loaded
}

// PendingDelete returns the row awaiting delete confirmation.
func (c *Controller) PendingDelete() (string, bool) {
	return c.pendingDelete, c.pendingDelete != ""
}

// IsDirty reports whether commands were applied since the last MarkSaved.
func (c *Controller) IsDirty() bool { return c.dirty }

// MarkSaved clears the dirty flag.
func (c *Controller) MarkSaved() { c.dirty = false }

// CanUndo reports whether an undo is available.
func (c *Controller) CanUndo() bool { return c.history.CanUndo() }

// CanRedo reports whether a redo is available.
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

// LastCommand returns the kind of the last command applied, undone or
// redone.
func (c *Controller) LastCommand() CommandKind { return c.lastKind }

// HandleKey routes a key press by state: delete confirmation, drag, edit
// or viewing. It reports whether the key was consumed.
func (c *Controller) HandleKey(key string) bool {
	switch {
	case c.pendingDelete != "":
		return c.handleConfirmKey(key)
	case c.drag != nil:
		if key == "esc" {
			return c.CancelDrag()
		}
		return false
	case c.edit == nil:
		return c.handleViewingKey(key)
	case c.edit.kind == EditPrescription:
		return c.handlePrescriptionKey(key)
	default:
		return c.handleSearchKey(key)
	}
}

func (c *Controller) handleConfirmKey(key string) bool {
	switch key {
	case "enter", "y":
		return c.ConfirmDelete()
	case "esc", "n":
		return c.CancelDelete()
	}
	return false
}

func (c *Controller) handleViewingKey(key string) bool {
	if dir, ok := directionKeys[key]; ok {
		return c.Move(dir)
	}
	switch key {
	case "enter", "f2":
		return c.BeginEdit()
	case "delete", "backspace":
		return c.clearOrSearch()
	case "ctrl+delete":
		return c.RequestDelete()
	case "ctrl+z":
		return c.Undo()
	case "ctrl+shift+z", "ctrl+y":
		return c.Redo()
	case "ctrl+c":
		return c.Copy()
	case "ctrl+v":
		return c.Paste()
	case "ctrl+shift+right":
		return c.CopyWeek()
	case "alt+up":
		return c.MoveRow(-1)
	case "alt+down":
		return c.MoveRow(1)
	case "ctrl+g":
		return c.GroupWithAbove()
	case "ctrl+shift+g":
		return c.Ungroup()
	case "ctrl+t":
		return c.ToggleGroup()
	}
	if r, ok := keyRune(key); ok {
		return c.typeRune(r)
	}
	return false
}

// typeRune handles a printable key while viewing: digits open prescription
// cells, any character opens a search editor, other input is ignored.
func (c *Controller) typeRune(r rune) bool {
	row, ok := c.data.Row(c.active.RowID)
	if !ok {
		return false
	}
	switch {
	case row.Kind == RowAddExercise:
		return c.openSearch(EditAddExercise, string(r))
	case c.active.ColID == ExerciseColumnID:
		return c.openSearch(EditExercise, string(r))
	case isDigit(r):
		c.edit = &editState{kind: EditPrescription, addr: c.active, buffer: NewBuffer(string(r))}
		return true
	}
	return false
}

// Move moves the active cell. Boundary moves are silent no-ops.
func (c *Controller) Move(dir Direction) bool {
	next, ok := Move(c.data, c.active, dir)
	if !ok {
		return false
	}
	c.setActive(next)
	return true
}

// Click makes addr the active cell. An open editor is blurred first.
func (c *Controller) Click(addr Address) bool {
	if c.pendingDelete != "" || c.drag != nil {
		return false
	}
	if !c.data.Valid(addr) {
		return false
	}
	c.Blur()
	c.setActive(addr)
	return true
}

// DoubleClick selects addr and opens it for editing.
func (c *Controller) DoubleClick(addr Address) bool {
	if !c.Click(addr) {
		return false
	}
	return c.BeginEdit()
}

// Blur is loss of focus: a prescription editor commits, a search editor
// closes without changes.
func (c *Controller) Blur() bool {
	if c.edit == nil {
		return false
	}
	if c.edit.kind == EditPrescription {
		c.commitPrescription()
		return true
	}
	c.closeEdit()
	return true
}

// BeginEdit opens the active cell for editing, as Enter or F2 do. A
// prescription editor starts with the raw cell text, never the
// placeholder. Exercise cells and add-exercise rows open a search.
func (c *Controller) BeginEdit() bool {
	if c.edit != nil || c.pendingDelete != "" || c.drag != nil {
		return false
	}
	row, ok := c.data.Row(c.active.RowID)
	if !ok {
		return false
	}
	switch {
	case row.Kind == RowAddExercise:
		return c.openSearch(EditAddExercise, "")
	case c.active.ColID == ExerciseColumnID:
		return c.openSearch(EditExercise, "")
	}
	c.edit = &editState{
		kind:   EditPrescription,
		addr:   c.active,
		buffer: NewBuffer(c.data.Text(c.active)),
	}
	return true
}

// Cancel closes the editor and keeps the pre-edit value.
func (c *Controller) Cancel() bool {
	if c.edit == nil {
		return false
	}
	c.closeEdit()
	return true
}

func (c *Controller) closeEdit() {
	c.edit = nil
	c.searchNext = nil
}

func (c *Controller) handlePrescriptionKey(key string) bool {
	b := &c.edit.buffer
	switch key {
	case "esc":
		return c.Cancel()
	case "enter":
		c.commitPrescription()
	case "tab", "shift+tab", "up", "down":
		c.commitPrescription()
		c.Move(directionKeys[key])
	case "left":
		if !b.AtStart() {
			b.Left()
			return true
		}
		c.commitPrescription()
		c.Move(Left)
	case "right":
		if !b.AtEnd() {
			b.Right()
			return true
		}
		c.commitPrescription()
		c.Move(Right)
	case "home":
		b.Home()
	case "end":
		b.End()
	case "backspace":
		b.Backspace()
	case "delete":
		b.Delete()
	default:
		r, ok := keyRune(key)
		if !ok {
			return false
		}
		b.Insert(r)
	}
	return true
}

// commitPrescription stores the editor text in the editing cell. Text
// that does not parse is kept raw; an unchanged value commits nothing.
func (c *Controller) commitPrescription() {
	e := c.edit
	c.closeEdit()
	row, ok := c.data.Row(e.addr.RowID)
	if !ok || row.Kind != RowExercise {
		return
	}
	before, ok := getCell(c.prog, row.ID, e.addr.ColID)
	if !ok {
		return
	}
	after := parseCell(strings.TrimSpace(e.buffer.String()))
	if before.equal(after) {
		return
	}
	c.run(&cellsCommand{
		kind:    KindEditCell,
		changes: []cellChange{{ItemID: row.ID, WeekID: e.addr.ColID, Before: before, After: after}},
	})
}

// clearOrSearch is Delete/Backspace while viewing: prescription cells are
// cleared, the exercise column opens its search.
func (c *Controller) clearOrSearch() bool {
	row, ok := c.data.Row(c.active.RowID)
	if !ok || row.Kind != RowExercise {
		return false
	}
	if c.active.ColID == ExerciseColumnID {
		return c.openSearch(EditExercise, "")
	}
	return c.Clear()
}

// Clear empties the active prescription cell. Empty cells are left alone.
func (c *Controller) Clear() bool {
	if c.edit != nil {
		return false
	}
	row, ok := c.data.Row(c.active.RowID)
	if !ok || row.Kind != RowExercise || c.active.ColID == ExerciseColumnID {
		return false
	}
	before, ok := getCell(c.prog, row.ID, c.active.ColID)
	if !ok || before.empty() {
		return false
	}
	return c.run(&cellsCommand{
		kind:    KindClearCell,
		changes: []cellChange{{ItemID: row.ID, WeekID: c.active.ColID, Before: before}},
	})
}

// Undo reverts the most recent command. An empty stack is a no-op.
func (c *Controller) Undo() bool {
	if c.edit != nil || c.drag != nil {
		return false
	}
	cmd, err := c.history.Undo()
	if err != nil {
		return false
	}
	cmd.Revert(c.prog)
	c.finish(cmd, false)
	return true
}

// Redo re-applies the most recently undone command.
func (c *Controller) Redo() bool {
	if c.edit != nil || c.drag != nil {
		return false
	}
	cmd, err := c.history.Redo()
	if err != nil {
		return false
	}
	cmd.Apply(c.prog)
	c.finish(cmd, true)
	return true
}

// run applies a new command and records it.
func (c *Controller) run(cmd Command) bool {
	cmd.Apply(c.prog)
	c.history.Push(cmd)
	c.finish(cmd, true)
	return true
}

// finish dispatches the command's mutations and rebuilds the grid. The
// active cell stays on its row when the row still exists.
func (c *Controller) finish(cmd Command, forward bool) {
	c.lastKind = cmd.Kind()
	c.dirty = true
	if c.dispatcher != nil {
		for _, m := range cmd.Mutations(c.prog.ID, forward) {
			c.dispatcher.Dispatch(m)
		}
	}
	c.rebuild()
}

func (c *Controller) rebuild() {
	ri, _ := c.data.RowIndex(c.active.RowID)
	ci, _ := c.data.ColIndex(c.active.ColID)
	c.data = Transform(c.prog, c.names)
	if c.data.Valid(c.active) {
		c.reveal()
		return
	}
	if addr, ok := c.data.Nearest(ri, ci); ok {
		c.setActive(addr)
		return
	}
	c.active = Address{}
}

func (c *Controller) setActive(addr Address) {
	c.active = addr
	c.reveal()
}

func (c *Controller) reveal() {
	if c.revealer != nil && !c.active.IsZero() {
		c.revealer.Reveal(c.active)
	}
}

// activeExerciseRow returns the active row when it is an exercise row.
func (c *Controller) activeExerciseRow() (Row, bool) {
	row, ok := c.data.Row(c.active.RowID)
	if !ok || row.Kind != RowExercise {
		return Row{}, false
	}
	return row, true
}

// busy reports whether a structural command must wait.
func (c *Controller) busy() bool {
	return c.edit != nil || c.pendingDelete != "" || c.drag != nil
}

// RequestDelete asks for confirmation before deleting the active row.
func (c *Controller) RequestDelete() bool {
	if c.busy() {
		return false
	}
	row, ok := c.activeExerciseRow()
	if !ok {
		return false
	}
	c.pendingDelete = row.ID
	return true
}

// CancelDelete drops a pending delete.
func (c *Controller) CancelDelete() bool {
	if c.pendingDelete == "" {
		return false
	}
	c.pendingDelete = ""
	return true
}

// ConfirmDelete deletes the row awaiting confirmation from every week. The
// active cell moves to the row that took its place.
func (c *Controller) ConfirmDelete() bool {
	id := c.pendingDelete
	if id == "" {
		return false
	}
	c.pendingDelete = ""
	row, ok := c.data.Row(id)
	if !ok {
		return false
	}
	return c.changeSession(KindDeleteRow, row.SessionID, func(layout []program.LayoutEntry) ([]program.LayoutEntry, []program.GroupItem) {
		out := make([]program.LayoutEntry, 0, len(layout))
		for _, e := range layout {
			if e.ItemID != id {
				out = append(out, e)
			}
		}
		return out, nil
	})
}

// AddExercise appends a standalone item for exerciseID to the session in
// every week and puts the active cell on its exercise column.
func (c *Controller) AddExercise(sessionID, exerciseID, name string) bool {
	if c.busy() || exerciseID == "" {
		return false
	}
	if name != "" {
		c.names[exerciseID] = name
	}
	itemID := c.newID()
	groupID := c.newID()
	ok := c.changeSession(KindAddRow, sessionID, func(layout []program.LayoutEntry) ([]program.LayoutEntry, []program.GroupItem) {
		layout = append(layout, program.LayoutEntry{ItemID: itemID, GroupID: groupID})
		return layout, []program.GroupItem{{ID: itemID, ExerciseID: exerciseID}}
	})
	if ok {
		c.setActive(Address{RowID: itemID, ColID: ExerciseColumnID})
	}
	return ok
}

// AddWeek appends a week that copies the structure of the canonical week
// with empty prescriptions.
func (c *Controller) AddWeek(name string) bool {
	if c.busy() {
		return false
	}
	weeks := sortedWeeks(c.prog)
	w := program.Week{ID: c.newID(), Name: name, OrderIndex: len(weeks)}
	if len(weeks) > 0 {
		w.OrderIndex = weeks[len(weeks)-1].OrderIndex + 1
		for _, s := range weeks[0].Sessions {
			s = s.Clone()
			for gi := range s.Groups {
				for ii := range s.Groups[gi].Items {
					s.Groups[gi].Items[ii].Series = nil
					s.Groups[gi].Items[ii].Unparsed = ""
				}
			}
			w.Sessions = append(w.Sessions, s)
		}
	}
	if w.Name == "" {
		w.Name = fmt.Sprintf("Week %d", len(weeks)+1)
	}
	return c.run(&weekCommand{week: w})
}

// AddSession appends an empty session to every week and moves the active
// cell to its add-exercise row.
func (c *Controller) AddSession(name string) bool {
	if c.busy() || len(c.prog.Weeks) == 0 {
		return false
	}
	canonical, _ := c.prog.CanonicalWeek()
	s := program.Session{ID: c.newID(), Name: name}
	for _, existing := range canonical.Sessions {
		if existing.OrderIndex >= s.OrderIndex {
			s.OrderIndex = existing.OrderIndex + 1
		}
	}
	if s.Name == "" {
		s.Name = fmt.Sprintf("Session %d", len(canonical.Sessions)+1)
	}
	c.run(&addSessionCommand{session: s})
	c.setActive(Address{RowID: AddExerciseID(s.ID), ColID: ExerciseColumnID})
	return true
}

// changeSession rewrites the layout of one session in every week through
// edit and records it as a single command. Nothing is recorded when the
// canonical layout does not change.
func (c *Controller) changeSession(kind CommandKind, sessionID string, edit func([]program.LayoutEntry) ([]program.LayoutEntry, []program.GroupItem)) bool {
	weeks := weekOrder(c.prog)
	if len(weeks) == 0 {
		return false
	}
	before := snapshotSession(c.prog, sessionID)
	canonical, ok := before[weeks[0]]
	if !ok {
		return false
	}
	layout := program.EnsureGroupAdjacency(canonical.Layout())
	next, extra := edit(append([]program.LayoutEntry(nil), layout...))
	if next == nil {
		return false
	}
	next = program.EnsureGroupAdjacency(next)
	if program.LayoutsEqual(layout, next) {
		return false
	}

	after := make(map[string]program.Session, len(before))
	for weekID, s := range before {
		s = s.Clone()
		items := make([]program.GroupItem, len(extra))
		for i, it := range extra {
			items[i] = it.Clone()
		}
		s.Rearrange(next, items...)
		after[weekID] = s
	}
	return c.run(&sessionCommand{
		kind:      kind,
		sessionID: sessionID,
		weeks:     weeks,
		before:    before,
		after:     after,
	})
}
