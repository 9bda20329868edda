package tui

import "github.com/javiermolinar/coachgrid/internal/grid"

const (
	// handleWidth is the drag handle gutter left of the exercise column.
	handleWidth = 2
	// headerLines is the title bar plus the column header row.
	headerLines = 2
	// footerLines is the status line plus the help line.
	footerLines = 2

	minExerciseWidth = 10
	minWeekWidth     = 8
)

// Viewport tracks which part of the grid is on screen. The exercise column
// never scrolls horizontally; week columns and rows do. It implements
// grid.Revealer so the controller can keep the active cell visible.
type Viewport struct {
	src dataSource

	exerciseWidth int
	weekWidth     int

	width  int
	height int

	rowOffset int
	colOffset int
}

// NewViewport creates a viewport with the configured column widths.
func NewViewport(exerciseWidth, weekWidth int) *Viewport {
	return &Viewport{
		exerciseWidth: max(exerciseWidth, minExerciseWidth),
		weekWidth:     max(weekWidth, minWeekWidth),
	}
}

// dataSource yields the grid currently shown. *grid.Controller is one.
type dataSource interface {
	Data() *grid.Data
}

// Attach points the viewport at the grid it shows.
func (v *Viewport) Attach(src dataSource) {
	v.src = src
	v.clamp()
}

func (v *Viewport) current() *grid.Data {
	if v.src == nil {
		return nil
	}
	return v.src.Data()
}

// Resize sets the terminal size.
func (v *Viewport) Resize(width, height int) {
	v.width, v.height = width, height
	v.clamp()
}

// GridTop is the screen line of the first grid row.
func (v *Viewport) GridTop() int { return headerLines }

// GridHeight is the number of grid rows that fit on screen.
func (v *Viewport) GridHeight() int {
	return max(v.height-headerLines-footerLines, 0)
}

// weeksLeft is the x offset of the first visible week column.
func (v *Viewport) weeksLeft() int {
	return handleWidth + v.exerciseWidth
}

// VisibleWeeks is the number of week columns that fit beside the exercise
// column. At least one is shown.
func (v *Viewport) VisibleWeeks() int {
	d := v.current()
	if d == nil {
		return 0
	}
	total := len(d.WeekColumns())
	fit := max((v.width-v.weeksLeft())/(v.weekWidth+1), 1)
	return min(fit, total-v.colOffset)
}

// RowRange returns the half-open range of row indexes on screen.
func (v *Viewport) RowRange() (int, int) {
	d := v.current()
	if d == nil {
		return 0, 0
	}
	end := min(v.rowOffset+v.GridHeight(), len(d.Rows))
	return v.rowOffset, end
}

// WeekRange returns the half-open range of week indexes on screen.
func (v *Viewport) WeekRange() (int, int) {
	return v.colOffset, v.colOffset + v.VisibleWeeks()
}

// Reveal scrolls so that addr is visible.
func (v *Viewport) Reveal(addr grid.Address) {
	d := v.current()
	if d == nil {
		return
	}
	if ri, ok := d.RowIndex(addr.RowID); ok {
		v.revealRow(d, ri)
	}
	if ci, ok := d.ColIndex(addr.ColID); ok && ci > 0 {
		v.revealWeek(ci - 1)
	}
}

func (v *Viewport) revealRow(d *grid.Data, ri int) {
	h := v.GridHeight()
	if h == 0 {
		return
	}
	if ri < v.rowOffset {
		v.rowOffset = ri
	}
	if ri >= v.rowOffset+h {
		v.rowOffset = ri - h + 1
	}
	// Keep the session header above the first exercise of a session
	// in view when there is room for it.
	if h > 1 && ri == v.rowOffset && ri > 0 && d.Rows[ri-1].Kind == grid.RowSessionHeader {
		v.rowOffset--
	}
	v.clamp()
}

func (v *Viewport) revealWeek(wi int) {
	if wi < v.colOffset {
		v.colOffset = wi
		return
	}
	fit := max((v.width-v.weeksLeft())/(v.weekWidth+1), 1)
	if wi >= v.colOffset+fit {
		v.colOffset = wi - fit + 1
	}
	v.clamp()
}

// Scroll moves the rows by delta lines.
func (v *Viewport) Scroll(delta int) {
	v.rowOffset += delta
	v.clamp()
}

func (v *Viewport) clamp() {
	d := v.current()
	if d == nil {
		v.rowOffset, v.colOffset = 0, 0
		return
	}
	maxRow := max(len(d.Rows)-v.GridHeight(), 0)
	v.rowOffset = max(0, min(v.rowOffset, maxRow))
	maxCol := max(len(d.WeekColumns())-1, 0)
	v.colOffset = max(0, min(v.colOffset, maxCol))
}

// Hit describes what is under a screen position.
type Hit struct {
	Addr   grid.Address
	Handle bool // the drag handle of an exercise row
	OK     bool
}

// HitTest maps a screen position to a grid cell.
func (v *Viewport) HitTest(x, y int) Hit {
	d := v.current()
	if d == nil || y < v.GridTop() || x < 0 {
		return Hit{}
	}
	ri := v.rowOffset + y - v.GridTop()
	start, end := v.RowRange()
	if ri < start || ri >= end {
		return Hit{}
	}
	row := d.Rows[ri]

	switch {
	case x < handleWidth:
		return Hit{Addr: grid.Address{RowID: row.ID, ColID: grid.ExerciseColumnID}, Handle: row.Kind == grid.RowExercise, OK: true}
	case x < v.weeksLeft():
		return Hit{Addr: grid.Address{RowID: row.ID, ColID: grid.ExerciseColumnID}, OK: true}
	}

	k := (x - v.weeksLeft()) / (v.weekWidth + 1)
	if k >= v.VisibleWeeks() {
		return Hit{}
	}
	weeks := d.WeekColumns()
	return Hit{Addr: grid.Address{RowID: row.ID, ColID: weeks[v.colOffset+k].ID}, OK: true}
}

// CellOrigin returns the screen position of the first character of a
// visible cell.
func (v *Viewport) CellOrigin(addr grid.Address) (int, int, bool) {
	d := v.current()
	if d == nil {
		return 0, 0, false
	}
	ri, ok := d.RowIndex(addr.RowID)
	start, end := v.RowRange()
	if !ok || ri < start || ri >= end {
		return 0, 0, false
	}
	y := v.GridTop() + ri - v.rowOffset

	if addr.ColID == grid.ExerciseColumnID {
		return handleWidth, y, true
	}
	ci, ok := d.ColIndex(addr.ColID)
	if !ok {
		return 0, 0, false
	}
	k := ci - 1 - v.colOffset
	if k < 0 || k >= v.VisibleWeeks() {
		return 0, 0, false
	}
	return v.weeksLeft() + k*(v.weekWidth+1) + 1, y, true
}

// CellWidth returns the text width of a column.
func (v *Viewport) CellWidth(colID string) int {
	if colID == grid.ExerciseColumnID {
		return v.exerciseWidth
	}
	return v.weekWidth
}
