// Package seed provides a demo strength program and the exercise catalog it
// references. It backs `coachgrid seed` and the grid acceptance tests.
package seed

import (
	"time"

	"github.com/javiermolinar/coachgrid/internal/program"
)

// ProgramID is the id of the demo program.
const ProgramID = "prg-demo-strength"

// Week ids of the demo program, in order.
const (
	Week1 = "week-demo-w1"
	Week2 = "week-demo-w2"
	Week3 = "week-demo-w3"
	Week4 = "week-demo-w4"
)

// Session ids of the demo program, in order.
const (
	SessionSquat    = "sess-demo-d1"
	SessionBench    = "sess-demo-d2"
	SessionDeadlift = "sess-demo-d3"
)

// Item ids of the demo program, in row order.
const (
	ItemSquat    = "item-demo-squat"
	ItemLegPress = "item-demo-leg-press"
	ItemBench    = "item-demo-bench"
	ItemIncline  = "item-demo-incline-db"
	ItemTricep   = "item-demo-tricep-push"
	ItemDeadlift = "item-demo-deadlift"
	ItemRow      = "item-demo-row"
)

var created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Exercises returns the demo catalog: the seven exercises used by the
// program followed by extras for search.
func Exercises() []program.Exercise {
	return []program.Exercise{
		{ID: "ex-back-squat", Name: "Back Squat", IsCurated: true},
		{ID: "ex-leg-press", Name: "Leg Press", IsCurated: true},
		{ID: "ex-barbell-bench-press", Name: "Barbell Bench Press", IsCurated: true},
		{ID: "ex-incline-dumbbell-press", Name: "Incline Dumbbell Press", IsCurated: true},
		{ID: "ex-tricep-pushdown", Name: "Tricep Pushdown", IsCurated: true},
		{ID: "ex-conventional-deadlift", Name: "Conventional Deadlift", IsCurated: true},
		{ID: "ex-barbell-row", Name: "Barbell Row", IsCurated: true},
		{ID: "ex-romanian-deadlift", Name: "Romanian Deadlift", IsCurated: true},
		{ID: "ex-front-squat", Name: "Front Squat", IsCurated: true},
		{ID: "ex-dumbbell-bench-press", Name: "Dumbbell Bench Press", IsCurated: true},
		{ID: "ex-dumbbell-shoulder-press", Name: "Dumbbell Shoulder Press", IsCurated: true},
		{ID: "ex-lat-pulldown", Name: "Lat Pulldown", IsCurated: true},
		{ID: "ex-seated-cable-row", Name: "Seated Cable Row", IsCurated: true},
		{ID: "ex-leg-curl", Name: "Leg Curl", IsCurated: true},
		{ID: "ex-hip-thrust", Name: "Hip Thrust", IsCurated: true},
	}
}

// Names maps every catalog exercise id to its name.
func Names() map[string]string {
	names := make(map[string]string)
	for _, ex := range Exercises() {
		names[ex.ID] = ex.Name
	}
	return names
}

type set struct {
	reps, repsMax int
	value         float64
}

func series(kind program.IntensityType, sets ...set) []program.Series {
	out := make([]program.Series, len(sets))
	for i, s := range sets {
		out[i] = program.Series{
			OrderIndex:     i,
			Reps:           program.Int(s.reps),
			IntensityType:  kind,
			IntensityValue: program.Float(s.value),
		}
		if s.repsMax > 0 {
			out[i].RepsMax = program.Int(s.repsMax)
		}
	}
	return out
}

func pct(sets ...set) []program.Series { return series(program.IntensityPercentage, sets...) }
func rpe(sets ...set) []program.Series { return series(program.IntensityRPE, sets...) }

// prescriptions indexes series by item id and week id.
var prescriptions = map[string]map[string][]program.Series{
	ItemSquat: {
		Week1: pct(set{5, 0, 70}, set{5, 0, 75}, set{5, 0, 80}),
		Week2: pct(set{3, 0, 80}, set{3, 0, 85}, set{3, 0, 88}),
		Week3: pct(set{2, 0, 90}, set{2, 0, 93}, set{1, 0, 95}),
		Week4: pct(set{5, 0, 60}, set{5, 0, 60}),
	},
	ItemLegPress: {Week1: rpe(set{10, 12, 7}, set{10, 12, 7}, set{10, 12, 8})},
	ItemBench: {
		Week1: pct(set{5, 0, 72}, set{5, 0, 77}, set{5, 0, 82}),
		Week2: pct(set{3, 0, 82}, set{3, 0, 87}, set{2, 0, 90}),
	},
	ItemIncline:  {Week1: rpe(set{8, 10, 7}, set{8, 10, 7}, set{8, 10, 8})},
	ItemTricep:   {Week1: rpe(set{12, 15, 7}, set{12, 15, 7}, set{12, 15, 8})},
	ItemDeadlift: {Week1: pct(set{5, 0, 68}, set{5, 0, 73}, set{5, 0, 78})},
	ItemRow:      {Week1: rpe(set{8, 0, 7}, set{8, 0, 7}, set{8, 0, 8})},
}

type itemDef struct{ id, exerciseID string }

type groupDef struct {
	id    string
	items []itemDef
}

type sessionDef struct {
	id, name string
	groups   []groupDef
}

var sessions = []sessionDef{
	{SessionSquat, "DAY 1 • SQUAT", []groupDef{
		{"grp-demo-d1-main", []itemDef{{ItemSquat, "ex-back-squat"}}},
		{"grp-demo-d1-acc", []itemDef{{ItemLegPress, "ex-leg-press"}}},
	}},
	{SessionBench, "DAY 2 • BENCH", []groupDef{
		{"grp-demo-d2-main", []itemDef{{ItemBench, "ex-barbell-bench-press"}}},
		{"grp-demo-d2-ss", []itemDef{
			{ItemIncline, "ex-incline-dumbbell-press"},
			{ItemTricep, "ex-tricep-pushdown"},
		}},
	}},
	{SessionDeadlift, "DAY 3 • DEADLIFT", []groupDef{
		{"grp-demo-d3-main", []itemDef{{ItemDeadlift, "ex-conventional-deadlift"}}},
		{"grp-demo-d3-acc", []itemDef{{ItemRow, "ex-barbell-row"}}},
	}},
}

var weeks = []struct{ id, name string }{
	{Week1, "Week 1 - Accumulation"},
	{Week2, "Week 2 - Intensification"},
	{Week3, "Week 3 - Realization"},
	{Week4, "Week 4 - Deload"},
}

// Program builds a fresh copy of the demo program: four weeks of three
// sessions sharing one structure, with a superset on day 2.
func Program() *program.Program {
	p := &program.Program{
		ID:          ProgramID,
		Name:        "Max Strength - Phase 1",
		Description: "Four week block for the three competition lifts.",
		AthleteID:   "ath-demo-001",
		Status:      program.StatusActive,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for wi, wd := range weeks {
		w := program.Week{ID: wd.id, Name: wd.name, OrderIndex: wi}
		for si, sd := range sessions {
			s := program.Session{ID: sd.id, Name: sd.name, OrderIndex: si}
			for gi, gd := range sd.groups {
				g := program.ExerciseGroup{ID: gd.id, OrderIndex: gi}
				for ii, it := range gd.items {
					g.Items = append(g.Items, program.GroupItem{
						ID:         it.id,
						ExerciseID: it.exerciseID,
						OrderIndex: ii,
						Series:     program.CloneSeries(prescriptions[it.id][wd.id]),
					})
				}
				s.Groups = append(s.Groups, g)
			}
			w.Sessions = append(w.Sessions, s)
		}
		p.Weeks = append(p.Weeks, w)
	}
	return p
}
