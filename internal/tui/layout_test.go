package tui

import (
	"testing"

	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/seed"
)

type staticData struct{ d *grid.Data }

func (s staticData) Data() *grid.Data { return s.d }

// newDemoViewport returns a viewport over the demo program with a 20 cell
// exercise column and 10 cell week columns. Rows: 0 header, 1 squat,
// 2 leg press, 3 add, 4 header, 5 bench, 6 incline, 7 tricep, 8 add,
// 9 header, 10 deadlift, 11 row, 12 add.
func newDemoViewport(width, height int) *Viewport {
	v := NewViewport(20, 10)
	v.Attach(staticData{grid.Transform(seed.Program(), seed.Names())})
	v.Resize(width, height)
	return v
}

func TestViewportMinimumWidths(t *testing.T) {
	v := NewViewport(1, 1)
	if v.exerciseWidth != minExerciseWidth || v.weekWidth != minWeekWidth {
		t.Fatalf("got widths %d/%d", v.exerciseWidth, v.weekWidth)
	}
}

func TestViewportVisibleWeeks(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 80, want: 4},
		{width: 50, want: 2},
		{width: 10, want: 1},
	}
	for _, tt := range tests {
		v := newDemoViewport(tt.width, 20)
		if got := v.VisibleWeeks(); got != tt.want {
			t.Errorf("width %d: VisibleWeeks() = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestViewportHitTest(t *testing.T) {
	v := newDemoViewport(80, 20)

	tests := []struct {
		name   string
		x, y   int
		want   grid.Address
		handle bool
		ok     bool
	}{
		{name: "header line", x: 5, y: 1},
		{name: "session header", x: 5, y: 2, want: grid.Address{RowID: grid.SessionHeaderID(seed.SessionSquat), ColID: grid.ExerciseColumnID}, ok: true},
		{name: "handle", x: 0, y: 3, want: grid.Address{RowID: seed.ItemSquat, ColID: grid.ExerciseColumnID}, handle: true, ok: true},
		{name: "exercise cell", x: 5, y: 3, want: grid.Address{RowID: seed.ItemSquat, ColID: grid.ExerciseColumnID}, ok: true},
		{name: "first week", x: 22, y: 3, want: grid.Address{RowID: seed.ItemSquat, ColID: seed.Week1}, ok: true},
		{name: "second week", x: 33, y: 4, want: grid.Address{RowID: seed.ItemLegPress, ColID: seed.Week2}, ok: true},
		{name: "add row handle is no handle", x: 0, y: 5, want: grid.Address{RowID: grid.AddExerciseID(seed.SessionSquat), ColID: grid.ExerciseColumnID}, ok: true},
		{name: "right of last week", x: 66, y: 3},
		{name: "below last row", x: 5, y: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := v.HitTest(tt.x, tt.y)
			if hit.OK != tt.ok {
				t.Fatalf("OK = %v, want %v", hit.OK, tt.ok)
			}
			if !tt.ok {
				return
			}
			if hit.Addr != tt.want {
				t.Errorf("Addr = %+v, want %+v", hit.Addr, tt.want)
			}
			if hit.Handle != tt.handle {
				t.Errorf("Handle = %v, want %v", hit.Handle, tt.handle)
			}
		})
	}
}

func TestViewportCellOrigin(t *testing.T) {
	v := newDemoViewport(80, 20)

	x, y, ok := v.CellOrigin(grid.Address{RowID: seed.ItemSquat, ColID: seed.Week2})
	if !ok || x != 34 || y != 3 {
		t.Errorf("week cell origin = (%d,%d,%v), want (34,3,true)", x, y, ok)
	}
	x, y, ok = v.CellOrigin(grid.Address{RowID: seed.ItemBench, ColID: grid.ExerciseColumnID})
	if !ok || x != handleWidth || y != 7 {
		t.Errorf("exercise cell origin = (%d,%d,%v), want (2,7,true)", x, y, ok)
	}

	// The origin and the hit test agree.
	x, y, _ = v.CellOrigin(grid.Address{RowID: seed.ItemRow, ColID: seed.Week3})
	if hit := v.HitTest(x, y); hit.Addr != (grid.Address{RowID: seed.ItemRow, ColID: seed.Week3}) {
		t.Errorf("HitTest(CellOrigin) = %+v", hit.Addr)
	}
}

func TestViewportRevealRows(t *testing.T) {
	v := newDemoViewport(80, 8) // four grid rows

	v.Reveal(grid.Address{RowID: seed.ItemRow, ColID: seed.Week1})
	if start, end := v.RowRange(); start != 8 || end != 12 {
		t.Fatalf("after revealing row 11: range = [%d,%d), want [8,12)", start, end)
	}

	v.Reveal(grid.Address{RowID: seed.ItemDeadlift, ColID: seed.Week1})
	if start, _ := v.RowRange(); start != 8 {
		t.Fatalf("visible row should not scroll, start = %d", start)
	}

	// Scrolling up to the first exercise of a session keeps its header.
	v.Reveal(grid.Address{RowID: seed.ItemBench, ColID: seed.Week1})
	if start, _ := v.RowRange(); start != 4 {
		t.Fatalf("start = %d, want 4 (session header)", start)
	}
}

func TestViewportRevealWeeks(t *testing.T) {
	v := newDemoViewport(50, 20) // two week columns

	v.Reveal(grid.Address{RowID: seed.ItemSquat, ColID: seed.Week4})
	if start, end := v.WeekRange(); start != 2 || end != 4 {
		t.Fatalf("week range = [%d,%d), want [2,4)", start, end)
	}
	x, _, ok := v.CellOrigin(grid.Address{RowID: seed.ItemSquat, ColID: seed.Week4})
	if !ok || x != 34 {
		t.Errorf("origin x = %d ok=%v, want 34", x, ok)
	}
	if _, _, ok := v.CellOrigin(grid.Address{RowID: seed.ItemSquat, ColID: seed.Week1}); ok {
		t.Error("scrolled out week should have no origin")
	}

	v.Reveal(grid.Address{RowID: seed.ItemSquat, ColID: grid.ExerciseColumnID})
	if start, _ := v.WeekRange(); start != 2 {
		t.Errorf("exercise column must not scroll weeks, start = %d", start)
	}
	v.Reveal(grid.Address{RowID: seed.ItemSquat, ColID: seed.Week1})
	if start, _ := v.WeekRange(); start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
}

func TestViewportScrollClamps(t *testing.T) {
	v := newDemoViewport(80, 10) // six grid rows

	v.Scroll(-5)
	if start, _ := v.RowRange(); start != 0 {
		t.Fatalf("start = %d, want 0", start)
	}
	v.Scroll(100)
	if start, end := v.RowRange(); start != 7 || end != 13 {
		t.Fatalf("range = [%d,%d), want [7,13)", start, end)
	}
}

func TestViewportWithoutData(t *testing.T) {
	v := NewViewport(20, 10)
	v.Resize(80, 20)

	if hit := v.HitTest(5, 5); hit.OK {
		t.Error("expected no hit without data")
	}
	if v.VisibleWeeks() != 0 {
		t.Error("expected no visible weeks without data")
	}
	v.Reveal(grid.Address{RowID: "x", ColID: "y"})
}
