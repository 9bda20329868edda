package grid

// Copy stores the text of the active prescription cell in the grid's own
// clipboard slot. The OS clipboard is not touched.
func (c *Controller) Copy() bool {
	if c.busy() {
		return false
	}
	if _, ok := c.activeExerciseRow(); !ok || c.active.ColID == ExerciseColumnID {
		return false
	}
	c.clipboard = c.data.Text(c.active)
	c.hasClip = true
	return true
}

// Clipboard returns the copied text and whether anything was copied.
func (c *Controller) Clipboard() (string, bool) {
	return c.clipboard, c.hasClip
}

// Paste parses the clipboard text into the active prescription cell. It is
// a no-op on the exercise column and when nothing was copied.
func (c *Controller) Paste() bool {
	if c.busy() || !c.hasClip || c.active.ColID == ExerciseColumnID {
		return false
	}
	row, ok := c.activeExerciseRow()
	if !ok {
		return false
	}
	before, ok := getCell(c.prog, row.ID, c.active.ColID)
	if !ok {
		return false
	}
	after := parseCell(c.clipboard)
	if before.equal(after) {
		return false
	}
	return c.run(&cellsCommand{
		kind:    KindPaste,
		changes: []cellChange{{ItemID: row.ID, WeekID: c.active.ColID, Before: before, After: after}},
	})
}

// CopyWeek copies the active week column into the next week column for
// every exercise row, as one command. It is a no-op on the last week.
func (c *Controller) CopyWeek() bool {
	if c.busy() || c.active.ColID == ExerciseColumnID {
		return false
	}
	if _, ok := c.data.Row(c.active.RowID); !ok {
		return false
	}
	ci, ok := c.data.ColIndex(c.active.ColID)
	if !ok || ci+1 >= len(c.data.Columns) {
		return false
	}
	from, to := c.data.Columns[ci].ID, c.data.Columns[ci+1].ID

	var changes []cellChange
	for _, row := range c.data.ExerciseRows() {
		src, ok := getCell(c.prog, row.ID, from)
		if !ok {
			continue
		}
		dst, ok := getCell(c.prog, row.ID, to)
		if !ok || dst.equal(src) {
			continue
		}
		changes = append(changes, cellChange{ItemID: row.ID, WeekID: to, Before: dst, After: src})
	}
	if len(changes) == 0 {
		return false
	}
	return c.run(&cellsCommand{kind: KindBulkWeekCopy, changes: changes})
}
