package grid

import "github.com/javiermolinar/coachgrid/internal/program"

// ToggleGroup flips superset membership of the active row: a grouped row
// leaves its group, a standalone row joins the row above. Group letters
// and indices are recomputed for the whole session.
func (c *Controller) ToggleGroup() bool {
	row, ok := c.activeExerciseRow()
	if !ok {
		return false
	}
	if row.GroupSize > 1 {
		return c.ungroup(KindGroupToggle, row)
	}
	return c.groupWithAbove(KindGroupToggle, row)
}

// GroupWithAbove puts the active row in the same group as the row above it.
// It is a no-op on the first row of a session.
func (c *Controller) GroupWithAbove() bool {
	row, ok := c.activeExerciseRow()
	if !ok {
		return false
	}
	return c.groupWithAbove(KindGroupWithPrev, row)
}

// Ungroup makes the active row standalone. Rows already standalone are
// left alone.
func (c *Controller) Ungroup() bool {
	row, ok := c.activeExerciseRow()
	if !ok {
		return false
	}
	return c.ungroup(KindUngroup, row)
}

func (c *Controller) groupWithAbove(kind CommandKind, row Row) bool {
	if c.busy() {
		return false
	}
	return c.changeSession(kind, row.SessionID, func(layout []program.LayoutEntry) ([]program.LayoutEntry, []program.GroupItem) {
		i := indexOf(layout, row.ID)
		if i <= 0 || layout[i-1].GroupID == layout[i].GroupID {
			return nil, nil
		}
		layout[i].GroupID = layout[i-1].GroupID
		return layout, nil
	})
}

// ungroup moves the row out of its group into a new group placed right
// after the remaining members.
func (c *Controller) ungroup(kind CommandKind, row Row) bool {
	if c.busy() || row.GroupSize <= 1 {
		return false
	}
	groupID := c.newID()
	return c.changeSession(kind, row.SessionID, func(layout []program.LayoutEntry) ([]program.LayoutEntry, []program.GroupItem) {
		i := indexOf(layout, row.ID)
		if i < 0 {
			return nil, nil
		}
		moved := layout[i]
		rest := append(append([]program.LayoutEntry(nil), layout[:i]...), layout[i+1:]...)
		last := -1
		for j, e := range rest {
			if e.GroupID == moved.GroupID {
				last = j
			}
		}
		if last < 0 {
			return nil, nil
		}
		moved.GroupID = groupID
		out := make([]program.LayoutEntry, 0, len(layout))
		out = append(out, rest[:last+1]...)
		out = append(out, moved)
		out = append(out, rest[last+1:]...)
		return out, nil
	})
}
