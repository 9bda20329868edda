package grid

// Direction is a navigation action.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	Tab
	ShiftTab
	Home
	End
	CtrlHome
	CtrlEnd
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Tab:
		return "tab"
	case ShiftTab:
		return "shift-tab"
	case Home:
		return "home"
	case End:
		return "end"
	case CtrlHome:
		return "ctrl-home"
	case CtrlEnd:
		return "ctrl-end"
	default:
		return "unknown"
	}
}

// directionKeys maps key names to directions.
var directionKeys = map[string]Direction{
	"up":        Up,
	"down":      Down,
	"left":      Left,
	"right":     Right,
	"tab":       Tab,
	"shift+tab": ShiftTab,
	"home":      Home,
	"end":       End,
	"ctrl+home": CtrlHome,
	"ctrl+end":  CtrlEnd,
}

// Move returns the address reached from addr in direction dir. When the
// move is not possible (grid boundary, unknown address) addr is returned
// unchanged and ok is false.
func Move(d *Data, addr Address, dir Direction) (Address, bool) {
	ri, ok := d.RowIndex(addr.RowID)
	if !ok {
		return addr, false
	}
	ci, ok := d.ColIndex(addr.ColID)
	if !ok {
		return addr, false
	}
	last := len(d.Columns) - 1

	nri, nci := ri, ci
	switch dir {
	case Up:
		if nri, ok = d.step(ri, -1); !ok {
			return addr, false
		}
	case Down:
		if nri, ok = d.step(ri, 1); !ok {
			return addr, false
		}
	case Left:
		if ci == 0 {
			return addr, false
		}
		nci = ci - 1
	case Right:
		if ci >= last {
			return addr, false
		}
		nci = ci + 1
	case Tab:
		if ci < last {
			nci = ci + 1
			break
		}
		if nri, ok = d.step(ri, 1); !ok {
			return addr, false
		}
		nci = 0
	case ShiftTab:
		if ci > 0 {
			nci = ci - 1
			break
		}
		if nri, ok = d.step(ri, -1); !ok {
			return addr, false
		}
		nci = last
	case Home:
		nci = 0
	case End:
		nci = last
	case CtrlHome:
		if len(d.navigable) == 0 {
			return addr, false
		}
		nri, nci = d.navigable[0], 0
	case CtrlEnd:
		if len(d.navigable) == 0 {
			return addr, false
		}
		nri, nci = d.navigable[len(d.navigable)-1], last
	default:
		return addr, false
	}

	next := d.At(nri, nci)
	if next == addr {
		return addr, false
	}
	return next, true
}

// step walks from row ri in direction delta, skipping rows that are not
// navigable. It reports false when no navigable row exists that way.
func (d *Data) step(ri, delta int) (int, bool) {
	for i := ri + delta; i >= 0 && i < len(d.Rows); i += delta {
		if d.Rows[i].Navigable() {
			return i, true
		}
	}
	return ri, false
}
