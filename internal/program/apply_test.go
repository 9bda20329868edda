package program

import (
	"errors"
	"testing"
)

// twoWeeks builds a program with one session of three items: a standalone
// A and a superset of B and C.
func twoWeeks() *Program {
	session := func() Session {
		return Session{ID: "s1", Name: "Day 1", Groups: []ExerciseGroup{
			{ID: "g1", Items: []GroupItem{{ID: "a", ExerciseID: "ex-a"}}},
			{ID: "g2", OrderIndex: 1, Items: []GroupItem{
				{ID: "b", ExerciseID: "ex-b"},
				{ID: "c", ExerciseID: "ex-c", OrderIndex: 1},
			}},
		}}
	}
	return &Program{ID: "p", Name: "Test", Weeks: []Week{
		{ID: "w1", Name: "Week 1", Sessions: []Session{session()}},
		{ID: "w2", Name: "Week 2", OrderIndex: 1, Sessions: []Session{session()}},
	}}
}

func layoutIDs(s *Session) []string {
	var out []string
	for _, e := range s.Layout() {
		out = append(out, e.ItemID+":"+e.GroupID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplySetPrescription(t *testing.T) {
	p := twoWeeks()
	err := p.Apply(Mutation{
		Kind: MutationSetPrescription, ProgramID: "p", ItemID: "a", WeekID: "w2",
		Series: []Series{{Reps: Int(5)}, {Reps: Int(5)}},
	})
	if err != nil {
		t.Fatal(err)
	}
	w2, _ := p.Week("w2")
	it, _, _ := w2.FindItem("a")
	if len(it.Series) != 2 || it.Series[1].OrderIndex != 1 {
		t.Errorf("series = %+v", it.Series)
	}
	w1, _ := p.Week("w1")
	if it, _, _ := w1.FindItem("a"); len(it.Series) != 0 {
		t.Error("week 1 changed")
	}

	err = p.Apply(Mutation{Kind: MutationSetPrescription, ProgramID: "p", ItemID: "a", WeekID: "w2", Unparsed: "heavy"})
	if err != nil {
		t.Fatal(err)
	}
	if it.Unparsed != "heavy" || it.Series != nil {
		t.Errorf("item = %+v", it)
	}
}

func TestApplySetPrescriptionNormalizes(t *testing.T) {
	p := twoWeeks()
	in := []Series{{Reps: Int(5), RepsMax: Int(5), Tempo: "31x0"}, {IsAmrap: true}}
	err := p.Apply(Mutation{Kind: MutationSetPrescription, ProgramID: "p", ItemID: "a", WeekID: "w1", Series: in})
	if err != nil {
		t.Fatal(err)
	}
	w1, _ := p.Week("w1")
	it, _, _ := w1.FindItem("a")
	want := []Series{{OrderIndex: 0, Reps: Int(5), Tempo: "31X0"}, {OrderIndex: 1, IsAmrap: true, Reps: Int(0)}}
	if !SeriesEqual(it.Series, want) {
		t.Errorf("series = %+v, want %+v", it.Series, want)
	}
}

func TestApplySetExerciseAllWeeks(t *testing.T) {
	p := twoWeeks()
	if err := p.Apply(Mutation{Kind: MutationSetExercise, ProgramID: "p", ItemID: "b", ExerciseID: "ex-z"}); err != nil {
		t.Fatal(err)
	}
	for _, w := range p.Weeks {
		it, _, _ := w.FindItem("b")
		if it.ExerciseID != "ex-z" {
			t.Errorf("%s exercise = %q", w.ID, it.ExerciseID)
		}
	}
}

func TestApplyAddAndDeleteItem(t *testing.T) {
	p := twoWeeks()
	err := p.Apply(Mutation{Kind: MutationAddItem, ProgramID: "p", SessionID: "s1", ItemID: "d", GroupID: "g3", ExerciseID: "ex-d"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a:g1", "b:g2", "c:g2", "d:g3"}
	for _, w := range p.Weeks {
		s, _ := w.Session("s1")
		if got := layoutIDs(s); !equalStrings(got, want) {
			t.Errorf("%s layout = %v, want %v", w.ID, got, want)
		}
	}

	if err := p.Apply(Mutation{Kind: MutationDeleteItem, ProgramID: "p", SessionID: "s1", ItemID: "b"}); err != nil {
		t.Fatal(err)
	}
	want = []string{"a:g1", "c:g2", "d:g3"}
	for _, w := range p.Weeks {
		s, _ := w.Session("s1")
		if got := layoutIDs(s); !equalStrings(got, want) {
			t.Errorf("%s layout = %v, want %v", w.ID, got, want)
		}
	}
}

func TestApplyAddItemWithLayout(t *testing.T) {
	p := twoWeeks()
	layout := []LayoutEntry{{"d", "g1"}, {"a", "g1"}, {"b", "g2"}, {"c", "g2"}}
	err := p.Apply(Mutation{Kind: MutationAddItem, ProgramID: "p", SessionID: "s1", ItemID: "d", GroupID: "g1", ExerciseID: "ex-d", Layout: layout})
	if err != nil {
		t.Fatal(err)
	}
	s, _ := p.Weeks[1].Session("s1")
	if got, want := layoutIDs(s), []string{"d:g1", "a:g1", "b:g2", "c:g2"}; !equalStrings(got, want) {
		t.Errorf("layout = %v, want %v", got, want)
	}
}

func TestApplyReorder(t *testing.T) {
	p := twoWeeks()
	layout := []LayoutEntry{{"b", "g2"}, {"c", "g2"}, {"a", "g1"}}
	if err := p.Apply(Mutation{Kind: MutationReorderItems, ProgramID: "p", SessionID: "s1", Layout: layout}); err != nil {
		t.Fatal(err)
	}
	s, _ := p.Weeks[0].Session("s1")
	if got, want := layoutIDs(s), []string{"b:g2", "c:g2", "a:g1"}; !equalStrings(got, want) {
		t.Errorf("layout = %v, want %v", got, want)
	}

	short := []LayoutEntry{{"a", "g1"}}
	err := p.Apply(Mutation{Kind: MutationReorderItems, ProgramID: "p", SessionID: "s1", Layout: short})
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("short layout: err = %v, want ErrLayoutMismatch", err)
	}
}

func TestApplySetGroup(t *testing.T) {
	p := twoWeeks()
	if err := p.Apply(Mutation{Kind: MutationSetGroup, ProgramID: "p", SessionID: "s1", ItemID: "c", GroupID: "g9"}); err != nil {
		t.Fatal(err)
	}
	s, _ := p.Weeks[1].Session("s1")
	if got, want := layoutIDs(s), []string{"a:g1", "b:g2", "c:g9"}; !equalStrings(got, want) {
		t.Errorf("layout = %v, want %v", got, want)
	}
}

func TestApplyWeeksAndSessions(t *testing.T) {
	p := twoWeeks()
	w := Week{ID: "w3", Name: "Week 3", OrderIndex: 2}
	if err := p.Apply(Mutation{Kind: MutationAddWeek, ProgramID: "p", Week: &w}); err != nil {
		t.Fatal(err)
	}
	if err := p.Apply(Mutation{Kind: MutationAddWeek, ProgramID: "p", Week: &w}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate week: err = %v", err)
	}
	if err := p.Apply(Mutation{Kind: MutationDeleteWeek, ProgramID: "p", WeekID: "w3"}); err != nil {
		t.Fatal(err)
	}
	if len(p.Weeks) != 2 {
		t.Fatalf("weeks = %d", len(p.Weeks))
	}

	s := Session{ID: "s2", Name: "Day 2", OrderIndex: 1}
	if err := p.Apply(Mutation{Kind: MutationAddSession, ProgramID: "p", Session: &s}); err != nil {
		t.Fatal(err)
	}
	for _, w := range p.Weeks {
		if _, ok := w.Session("s2"); !ok {
			t.Errorf("%s missing new session", w.ID)
		}
	}
	if err := p.Apply(Mutation{Kind: MutationDeleteSession, ProgramID: "p", SessionID: "s2"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Apply(Mutation{Kind: MutationDeleteSession, ProgramID: "p", SessionID: "s2"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		m    Mutation
		want error
	}{
		{"other program", Mutation{Kind: MutationDeleteWeek, ProgramID: "q", WeekID: "w1"}, ErrProgramNotFound},
		{"unknown week", Mutation{Kind: MutationSetPrescription, ProgramID: "p", ItemID: "a", WeekID: "w9"}, ErrWeekNotFound},
		{"unknown item", Mutation{Kind: MutationSetExercise, ProgramID: "p", ItemID: "zz", ExerciseID: "ex"}, ErrItemNotFound},
		{"unknown session", Mutation{Kind: MutationReorderItems, ProgramID: "p", SessionID: "s9", Layout: []LayoutEntry{{"a", "g1"}}}, ErrSessionNotFound},
		{"duplicate item", Mutation{Kind: MutationAddItem, ProgramID: "p", SessionID: "s1", ItemID: "a", GroupID: "g1", ExerciseID: "ex"}, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := twoWeeks().Apply(tt.m); !errors.Is(err, tt.want) {
				t.Errorf("Apply = %v, want %v", err, tt.want)
			}
		})
	}
}
