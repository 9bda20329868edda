package program

import (
	"errors"
	"testing"
)

func TestSeriesValidate(t *testing.T) {
	tests := []struct {
		name   string
		series Series
		want   error
	}{
		{"plain", Series{Reps: Int(5)}, nil},
		{"negative reps", Series{Reps: Int(-1)}, ErrNegativeReps},
		{"amrap zero reps", Series{IsAmrap: true, Reps: Int(0)}, nil},
		{"amrap nil reps", Series{IsAmrap: true}, nil},
		{"amrap with reps", Series{IsAmrap: true, Reps: Int(3)}, ErrAmrapWithReps},
		{"range ok", Series{Reps: Int(8), RepsMax: Int(12)}, nil},
		{"range equal", Series{Reps: Int(8), RepsMax: Int(8)}, nil},
		{"range inverted", Series{Reps: Int(12), RepsMax: Int(8)}, ErrRepsRange},
		{"type without value", Series{Reps: Int(5), IntensityType: IntensityRPE}, ErrIntensityValueRequired},
		{"value without type", Series{Reps: Int(5), IntensityValue: Float(8)}, ErrIntensityTypeRequired},
		{"percentage ok", Series{Reps: Int(5), IntensityType: IntensityPercentage, IntensityValue: Float(82.5)}, nil},
		{"percentage high", Series{Reps: Int(5), IntensityType: IntensityPercentage, IntensityValue: Float(101)}, ErrPercentageRange},
		{"rpe high", Series{Reps: Int(5), IntensityType: IntensityRPE, IntensityValue: Float(11)}, ErrRPERange},
		{"rir negative", Series{Reps: Int(5), IntensityType: IntensityRIR, IntensityValue: Float(-1)}, ErrRIRRange},
		{"weight negative", Series{Reps: Int(5), IntensityType: IntensityAbsolute, IntensityValue: Float(-5)}, ErrNegativeWeight},
		{"unknown intensity", Series{Reps: Int(5), IntensityType: "watts", IntensityValue: Float(200)}, ErrUnknownIntensity},
		{"tempo ok", Series{Reps: Int(5), Tempo: "31X0"}, nil},
		{"tempo lowercase x", Series{Reps: Int(5), Tempo: "31x0"}, nil},
		{"tempo short", Series{Reps: Int(5), Tempo: "310"}, ErrInvalidTempo},
		{"tempo letters", Series{Reps: Int(5), Tempo: "3a10"}, ErrInvalidTempo},
		{"rest negative", Series{Reps: Int(5), RestSeconds: Int(-30)}, ErrNegativeRest},
		{"pounds", Series{Reps: Int(5), IntensityType: IntensityAbsolute, IntensityValue: Float(225), IntensityUnit: "LB"}, nil},
		{"unknown unit", Series{Reps: Int(5), IntensityType: IntensityAbsolute, IntensityValue: Float(20), IntensityUnit: "stone"}, ErrUnknownUnit},
		{"unilateral ok", Series{Reps: Int(10), UnilateralUnit: "leg"}, nil},
		{"unknown unilateral", Series{Reps: Int(10), UnilateralUnit: "foot"}, ErrUnknownUnilateral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.series.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSeriesNormalize(t *testing.T) {
	s := Series{Reps: Int(5), IntensityType: IntensityAbsolute, IntensityValue: Float(100), Tempo: "31x0"}.Normalize()
	if s.Tempo != "31X0" {
		t.Errorf("Tempo = %q, want 31X0", s.Tempo)
	}
	if s.IntensityUnit != UnitKg {
		t.Errorf("IntensityUnit = %q, want kg", s.IntensityUnit)
	}

	s = Series{Reps: Int(5), IntensityType: IntensityRPE, IntensityValue: Float(8), IntensityUnit: UnitLb}.Normalize()
	if s.IntensityUnit != "" {
		t.Errorf("IntensityUnit = %q, want empty for rpe", s.IntensityUnit)
	}
}

func TestSeriesNormalizeCanonicalForm(t *testing.T) {
	tests := []struct {
		name string
		in   Series
		want Series
	}{
		{"missing reps", Series{}, Series{Reps: Int(0)}},
		{"amrap", Series{IsAmrap: true}, Series{IsAmrap: true, Reps: Int(0)}},
		{"amrap drops max", Series{IsAmrap: true, Reps: Int(0), RepsMax: Int(3)}, Series{IsAmrap: true, Reps: Int(0)}},
		{"equal range", Series{Reps: Int(5), RepsMax: Int(5)}, Series{Reps: Int(5)}},
		{"range kept", Series{Reps: Int(8), RepsMax: Int(12)}, Series{Reps: Int(8), RepsMax: Int(12)}},
		{"units", Series{Reps: Int(5), UnilateralUnit: "Leg", IntensityType: IntensityAbsolute, IntensityValue: Float(50), IntensityUnit: "LB"},
			Series{Reps: Int(5), UnilateralUnit: "leg", IntensityType: IntensityAbsolute, IntensityValue: Float(50), IntensityUnit: UnitLb}},
		{"rest kept", Series{Reps: Int(3), RestSeconds: Int(90)}, Series{Reps: Int(3), RestSeconds: Int(90)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if !got.Equal(tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
			if again := got.Normalize(); !again.Equal(got) {
				t.Errorf("Normalize is not idempotent: %+v", again)
			}
		})
	}
}

func TestNormalizeSeries(t *testing.T) {
	in := []Series{
		{OrderIndex: 4, Reps: Int(5), RepsMax: Int(5)},
		{OrderIndex: 9, IsAmrap: true},
	}
	got := NormalizeSeries(in)
	want := []Series{{OrderIndex: 0, Reps: Int(5)}, {OrderIndex: 1, IsAmrap: true, Reps: Int(0)}}
	if !SeriesEqual(got, want) {
		t.Fatalf("NormalizeSeries() = %+v, want %+v", got, want)
	}
	if in[0].RepsMax == nil || in[1].Reps != nil {
		t.Fatalf("input was modified: %+v", in)
	}
	if NormalizeSeries(nil) != nil {
		t.Fatal("NormalizeSeries(nil) should stay nil")
	}
}

func TestCloneSeriesIsDeep(t *testing.T) {
	orig := []Series{{Reps: Int(5), IntensityType: IntensityRIR, IntensityValue: Float(2)}}
	c := CloneSeries(orig)
	*c[0].Reps = 8
	*c[0].IntensityValue = 3

	if *orig[0].Reps != 5 || *orig[0].IntensityValue != 2 {
		t.Fatalf("clone shares pointers with original: %+v", orig[0])
	}
	if CloneSeries(nil) != nil {
		t.Error("CloneSeries(nil) should stay nil")
	}
}

func TestProgramCloneIsDeep(t *testing.T) {
	p := &Program{
		ID:   "p1",
		Name: "Block",
		Weeks: []Week{{
			ID: "w1",
			Sessions: []Session{{
				ID: "s1",
				Groups: []ExerciseGroup{{
					ID:    "g1",
					Items: []GroupItem{{ID: "i1", ExerciseID: "e1", Series: []Series{{Reps: Int(5)}}}},
				}},
			}},
		}},
	}

	c := p.Clone()
	c.Weeks[0].Sessions[0].Groups[0].Items[0].ExerciseID = "e2"
	*c.Weeks[0].Sessions[0].Groups[0].Items[0].Series[0].Reps = 3

	item := p.Weeks[0].Sessions[0].Groups[0].Items[0]
	if item.ExerciseID != "e1" {
		t.Errorf("original exercise changed to %q", item.ExerciseID)
	}
	if *item.Series[0].Reps != 5 {
		t.Errorf("original reps changed to %d", *item.Series[0].Reps)
	}
}

func TestProgramSort(t *testing.T) {
	p := &Program{Weeks: []Week{
		{ID: "w2", OrderIndex: 1},
		{ID: "w1", OrderIndex: 0, Sessions: []Session{
			{ID: "s2", OrderIndex: 1},
			{ID: "s1", OrderIndex: 0, Groups: []ExerciseGroup{
				{ID: "g2", OrderIndex: 1},
				{ID: "g1", OrderIndex: 0, Items: []GroupItem{{ID: "b", OrderIndex: 1}, {ID: "a", OrderIndex: 0}}},
			}},
		}},
	}}
	p.Sort()

	if p.Weeks[0].ID != "w1" {
		t.Fatalf("first week = %s, want w1", p.Weeks[0].ID)
	}
	s := p.Weeks[0].Sessions[0]
	if s.ID != "s1" || s.Groups[0].ID != "g1" || s.Groups[0].Items[0].ID != "a" {
		t.Errorf("unexpected order: %+v", s)
	}
}

func TestEnsureGroupAdjacency(t *testing.T) {
	layout := []LayoutEntry{
		{ItemID: "b1", GroupID: "B"},
		{ItemID: "a", GroupID: "A"},
		{ItemID: "b2", GroupID: "B"},
		{ItemID: "c", GroupID: "C"},
	}
	got := EnsureGroupAdjacency(layout)
	want := []string{"b1", "b2", "a", "c"}
	for i, id := range want {
		if got[i].ItemID != id {
			t.Fatalf("position %d = %s, want %s (got %+v)", i, got[i].ItemID, id, got)
		}
	}
}

func TestSessionRearrange(t *testing.T) {
	s := Session{ID: "s1", Groups: []ExerciseGroup{
		{ID: "g1", Items: []GroupItem{{ID: "i1"}}},
		{ID: "g2", Items: []GroupItem{{ID: "i2"}, {ID: "i3"}}},
	}}

	s.Rearrange([]LayoutEntry{
		{ItemID: "i3", GroupID: "g2"},
		{ItemID: "i1", GroupID: "g2"},
		{ItemID: "i4", GroupID: "g9"},
	}, GroupItem{ID: "i4", ExerciseID: "e4"})

	if len(s.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(s.Groups))
	}
	if s.Groups[0].ID != "g2" || len(s.Groups[0].Items) != 2 {
		t.Fatalf("first group = %+v", s.Groups[0])
	}
	if s.Groups[0].Items[0].ID != "i3" || s.Groups[0].Items[1].ID != "i1" {
		t.Errorf("items = %+v", s.Groups[0].Items)
	}
	if s.Groups[0].Items[1].OrderIndex != 1 {
		t.Errorf("OrderIndex = %d, want 1", s.Groups[0].Items[1].OrderIndex)
	}
	if s.Groups[1].ID != "g9" || s.Groups[1].OrderIndex != 1 || s.Groups[1].Items[0].ExerciseID != "e4" {
		t.Errorf("second group = %+v", s.Groups[1])
	}
	if _, _, ok := s.Item("i2"); ok {
		t.Error("i2 should have been dropped")
	}
}

func TestMutationValidate(t *testing.T) {
	ok := Mutation{Kind: MutationSetPrescription, ProgramID: "p", ItemID: "i", WeekID: "w", Notation: "3x5"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	bad := []Mutation{
		{Kind: MutationSetPrescription, ItemID: "i", WeekID: "w"},
		{Kind: MutationSetPrescription, ProgramID: "p", WeekID: "w"},
		{Kind: MutationSetExercise, ProgramID: "p", ItemID: "i"},
		{Kind: MutationReorderItems, ProgramID: "p", SessionID: "s"},
		{Kind: MutationAddWeek, ProgramID: "p"},
		{Kind: "bogus", ProgramID: "p"},
	}
	for _, m := range bad {
		if err := m.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", m)
		}
	}
}

func TestProgramExerciseIDs(t *testing.T) {
	session := func(ids ...string) Session {
		g := ExerciseGroup{ID: "g"}
		for i, id := range ids {
			g.Items = append(g.Items, GroupItem{ID: "i" + id, ExerciseID: id, OrderIndex: i})
		}
		return Session{ID: "s", Groups: []ExerciseGroup{g}}
	}
	p := &Program{
		Weeks: []Week{
			{ID: "w1", Sessions: []Session{session("squat", "bench")}},
			{ID: "w2", Sessions: []Session{session("squat", "", "row")}},
		},
	}

	got := p.ExerciseIDs()
	want := []string{"squat", "bench", "row"}
	if len(got) != len(want) {
		t.Fatalf("ExerciseIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExerciseIDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
