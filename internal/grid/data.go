package grid

// Data holds the derived rows and columns plus the lookup tables built
// once per transform: row and column positions by id, the navigable row
// list, and each session's exercise rows in order.
type Data struct {
	Rows    []Row
	Columns []Column

	rowIndex    map[string]int
	colIndex    map[string]int
	navigable   []int
	sessionRows map[string][]string
}

// NewData indexes rows and columns.
func NewData(rows []Row, columns []Column) *Data {
	d := &Data{
		Rows:        rows,
		Columns:     columns,
		rowIndex:    make(map[string]int, len(rows)),
		colIndex:    make(map[string]int, len(columns)),
		sessionRows: make(map[string][]string),
	}
	for i, r := range rows {
		d.rowIndex[r.ID] = i
		if r.Navigable() {
			d.navigable = append(d.navigable, i)
		}
		if r.Kind == RowExercise {
			d.sessionRows[r.SessionID] = append(d.sessionRows[r.SessionID], r.ID)
		}
	}
	for i, c := range columns {
		d.colIndex[c.ID] = i
	}
	return d
}

// RowIndex returns the position of the row with the given id.
func (d *Data) RowIndex(id string) (int, bool) {
	i, ok := d.rowIndex[id]
	return i, ok
}

// ColIndex returns the position of the column with the given id.
func (d *Data) ColIndex(id string) (int, bool) {
	i, ok := d.colIndex[id]
	return i, ok
}

// Row returns the row with the given id.
func (d *Data) Row(id string) (Row, bool) {
	i, ok := d.rowIndex[id]
	if !ok {
		return Row{}, false
	}
	return d.Rows[i], true
}

// Column returns the column with the given id.
func (d *Data) Column(id string) (Column, bool) {
	i, ok := d.colIndex[id]
	if !ok {
		return Column{}, false
	}
	return d.Columns[i], true
}

// At returns the address of the cell at row index ri and column index ci.
func (d *Data) At(ri, ci int) Address {
	return Address{RowID: d.Rows[ri].ID, ColID: d.Columns[ci].ID}
}

// Valid reports whether addr points at a navigable cell.
func (d *Data) Valid(addr Address) bool {
	ri, ok := d.rowIndex[addr.RowID]
	if !ok {
		return false
	}
	if _, ok := d.colIndex[addr.ColID]; !ok {
		return false
	}
	return d.Rows[ri].Navigable()
}

// NavigableRows returns the indices of rows that can hold the active cell.
func (d *Data) NavigableRows() []int {
	return d.navigable
}

// SessionRows returns the ids of a session's exercise rows in order.
func (d *Data) SessionRows(sessionID string) []string {
	return d.sessionRows[sessionID]
}

// ExerciseRows returns every exercise row in order.
func (d *Data) ExerciseRows() []Row {
	var out []Row
	for _, r := range d.Rows {
		if r.Kind == RowExercise {
			out = append(out, r)
		}
	}
	return out
}

// WeekColumns returns the week columns in order.
func (d *Data) WeekColumns() []Column {
	if len(d.Columns) <= 1 {
		return nil
	}
	return d.Columns[1:]
}

// Text returns the display value of a cell without the empty placeholder:
// the exercise name for the exercise column, the prescription text for
// week columns.
func (d *Data) Text(addr Address) string {
	r, ok := d.Row(addr.RowID)
	if !ok || r.Kind != RowExercise {
		return ""
	}
	if addr.ColID == ExerciseColumnID {
		return r.ExerciseName
	}
	return r.Prescriptions[addr.ColID]
}

// IsInvalid reports whether the cell holds unparsable notation.
func (d *Data) IsInvalid(addr Address) bool {
	r, ok := d.Row(addr.RowID)
	if !ok {
		return false
	}
	return r.Invalid[addr.ColID]
}

// FirstCell returns column 0 of the first exercise row, falling back to
// the first navigable row.
func (d *Data) FirstCell() (Address, bool) {
	for _, i := range d.navigable {
		if d.Rows[i].Kind == RowExercise {
			return d.At(i, 0), true
		}
	}
	if len(d.navigable) > 0 && len(d.Columns) > 0 {
		return d.At(d.navigable[0], 0), true
	}
	return Address{}, false
}

// Nearest returns a navigable address close to row index ri in column ci,
// looking forward first then backward. Used when the row holding the
// active cell disappears.
func (d *Data) Nearest(ri, ci int) (Address, bool) {
	if len(d.navigable) == 0 || len(d.Columns) == 0 {
		return Address{}, false
	}
	if ci >= len(d.Columns) {
		ci = len(d.Columns) - 1
	}
	if ci < 0 {
		ci = 0
	}
	for _, i := range d.navigable {
		if i >= ri {
			return d.At(i, ci), true
		}
	}
	return d.At(d.navigable[len(d.navigable)-1], ci), true
}
