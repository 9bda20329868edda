package grid

import "github.com/javiermolinar/coachgrid/internal/program"

// dragState tracks a pointer drag of one exercise row.
type dragState struct {
	rowID     string
	sessionID string
	targetID  string
}

// MoveRow moves the active exercise row up (delta < 0) or down within its
// session. Rows of the same superset swap places; otherwise the row's
// whole group swaps with the neighbouring group. Session boundaries are
// no-ops and the active cell follows the row.
func (c *Controller) MoveRow(delta int) bool {
	if c.busy() || delta == 0 {
		return false
	}
	row, ok := c.activeExerciseRow()
	if !ok {
		return false
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	return c.changeSession(KindReorder, row.SessionID, func(layout []program.LayoutEntry) ([]program.LayoutEntry, []program.GroupItem) {
		return moveInLayout(layout, row.ID, step), nil
	})
}

// moveInLayout returns layout with item moved one step, or nil when it
// cannot move.
func moveInLayout(layout []program.LayoutEntry, itemID string, step int) []program.LayoutEntry {
	i := indexOf(layout, itemID)
	j := i + step
	if i < 0 || j < 0 || j >= len(layout) {
		return nil
	}
	if layout[i].GroupID == layout[j].GroupID {
		layout[i], layout[j] = layout[j], layout[i]
		return layout
	}

	blocks := groupBlocks(layout)
	b := -1
	for bi, block := range blocks {
		if block[0].GroupID == layout[i].GroupID {
			b = bi
			break
		}
	}
	nb := b + step
	if b < 0 || nb < 0 || nb >= len(blocks) {
		return nil
	}
	blocks[b], blocks[nb] = blocks[nb], blocks[b]
	out := make([]program.LayoutEntry, 0, len(layout))
	for _, block := range blocks {
		out = append(out, block...)
	}
	return out
}

// groupBlocks splits an adjacent layout into runs of the same group.
func groupBlocks(layout []program.LayoutEntry) [][]program.LayoutEntry {
	var blocks [][]program.LayoutEntry
	for _, e := range layout {
		n := len(blocks)
		if n > 0 && blocks[n-1][0].GroupID == e.GroupID {
			blocks[n-1] = append(blocks[n-1], e)
			continue
		}
		blocks = append(blocks, []program.LayoutEntry{e})
	}
	return blocks
}

func indexOf(layout []program.LayoutEntry, itemID string) int {
	for i, e := range layout {
		if e.ItemID == itemID {
			return i
		}
	}
	return -1
}

// BeginDrag starts dragging an exercise row by its handle.
func (c *Controller) BeginDrag(rowID string) bool {
	if c.busy() {
		return false
	}
	row, ok := c.data.Row(rowID)
	if !ok || row.Kind != RowExercise {
		return false
	}
	c.drag = &dragState{rowID: rowID, sessionID: row.SessionID}
	return true
}

// Dragging returns the dragged row and the current drop target.
func (c *Controller) Dragging() (rowID, targetID string, ok bool) {
	if c.drag == nil {
		return "", "", false
	}
	return c.drag.rowID, c.drag.targetID, true
}

// DragOver sets the drop target. Rows of other sessions are rejected.
func (c *Controller) DragOver(rowID string) bool {
	if c.drag == nil {
		return false
	}
	row, ok := c.data.Row(rowID)
	if !ok || row.Kind != RowExercise || row.SessionID != c.drag.sessionID {
		return false
	}
	if c.drag.targetID == rowID {
		return false
	}
	c.drag.targetID = rowID
	return true
}

// CancelDrag drops the drag without changes.
func (c *Controller) CancelDrag() bool {
	if c.drag == nil {
		return false
	}
	c.drag = nil
	return true
}

// Drop inserts the dragged row at the target's position. The row keeps its
// group only when it lands next to another member; otherwise it becomes
// standalone. The active cell follows the row.
func (c *Controller) Drop() bool {
	d := c.drag
	c.drag = nil
	if d == nil || d.targetID == "" || d.targetID == d.rowID {
		return false
	}
	groupID := c.newID()
	ok := c.changeSession(KindReorder, d.sessionID, func(layout []program.LayoutEntry) ([]program.LayoutEntry, []program.GroupItem) {
		return insertInLayout(layout, d.rowID, d.targetID, groupID), nil
	})
	if !ok {
		return false
	}
	col := c.active.ColID
	if c.active.RowID != d.rowID {
		col = ExerciseColumnID
	}
	c.setActive(Address{RowID: d.rowID, ColID: col})
	return true
}

// insertInLayout moves item to the index held by target.
func insertInLayout(layout []program.LayoutEntry, itemID, targetID, freshGroup string) []program.LayoutEntry {
	from, to := indexOf(layout, itemID), indexOf(layout, targetID)
	if from < 0 || to < 0 || from == to {
		return nil
	}
	moved := layout[from]
	rest := append(append([]program.LayoutEntry(nil), layout[:from]...), layout[from+1:]...)
	out := make([]program.LayoutEntry, 0, len(layout))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)

	shared := false
	for _, e := range rest {
		if e.GroupID == moved.GroupID {
			shared = true
			break
		}
	}
	if !shared {
		return out
	}
	adjacent := (to > 0 && out[to-1].GroupID == moved.GroupID) ||
		(to+1 < len(out) && out[to+1].GroupID == moved.GroupID)
	if !adjacent {
		out[to].GroupID = freshGroup
	}
	return out
}
