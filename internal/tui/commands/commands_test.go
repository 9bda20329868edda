package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/outbox"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/seed"
)

type fakeStore struct {
	load   func(id string) (*program.Program, error)
	search func(term string, limit int) (program.ExercisePage, error)
	byID   func(ids []string) (map[string]program.Exercise, error)
}

func (f fakeStore) LoadProgram(ctx context.Context, id string) (*program.Program, error) {
	if f.load == nil {
		return nil, errors.New("not implemented")
	}
	return f.load(id)
}

func (f fakeStore) SearchExercises(ctx context.Context, term string, limit int) (program.ExercisePage, error) {
	if f.search == nil {
		return program.ExercisePage{}, errors.New("not implemented")
	}
	return f.search(term, limit)
}

func (f fakeStore) ExercisesByID(ctx context.Context, ids []string) (map[string]program.Exercise, error) {
	if f.byID == nil {
		return nil, errors.New("not implemented")
	}
	return f.byID(ids)
}

func seededStore() fakeStore {
	catalog := make(map[string]program.Exercise)
	for _, ex := range seed.Exercises() {
		catalog[ex.ID] = ex
	}
	return fakeStore{
		load: func(id string) (*program.Program, error) {
			if id != seed.ProgramID {
				return nil, program.ErrProgramNotFound
			}
			return seed.Program(), nil
		},
		byID: func(ids []string) (map[string]program.Exercise, error) {
			out := make(map[string]program.Exercise)
			for _, id := range ids {
				if ex, ok := catalog[id]; ok {
					out[id] = ex
				}
			}
			return out, nil
		},
	}
}

func TestLoadProgramReturnsProgramLoadedMsg(t *testing.T) {
	msg := LoadProgram(seededStore(), seed.ProgramID)()

	loaded, ok := msg.(ProgramLoadedMsg)
	if !ok {
		t.Fatalf("expected ProgramLoadedMsg, got %T", msg)
	}
	if loaded.Program.ID != seed.ProgramID {
		t.Errorf("program id = %q", loaded.Program.ID)
	}
	if got := loaded.Names["ex-back-squat"]; got != "Back Squat" {
		t.Errorf("squat name = %q, want %q", got, "Back Squat")
	}
	if len(loaded.Names) != 7 {
		t.Errorf("expected 7 names, got %d", len(loaded.Names))
	}
}

func TestLoadProgramNotFound(t *testing.T) {
	msg := LoadProgram(seededStore(), "missing")()

	failed, ok := msg.(LoadFailedMsg)
	if !ok {
		t.Fatalf("expected LoadFailedMsg, got %T", msg)
	}
	if !failed.NotFound() || failed.ProgramID != "missing" {
		t.Errorf("unexpected failure: %+v", failed)
	}
}

func TestLoadProgramLookupError(t *testing.T) {
	store := seededStore()
	store.byID = func([]string) (map[string]program.Exercise, error) {
		return nil, errors.New("catalog down")
	}

	msg := LoadProgram(store, seed.ProgramID)()
	failed, ok := msg.(LoadFailedMsg)
	if !ok {
		t.Fatalf("expected LoadFailedMsg, got %T", msg)
	}
	if failed.NotFound() {
		t.Error("lookup errors are not a missing program")
	}
}

func TestDebounceSearchWithoutDelay(t *testing.T) {
	req := grid.SearchRequest{Token: 3, Term: "squat"}
	msg := DebounceSearch(req, 0)()

	tick, ok := msg.(SearchTickMsg)
	if !ok {
		t.Fatalf("expected SearchTickMsg, got %T", msg)
	}
	if tick.Request != req {
		t.Errorf("request = %+v, want %+v", tick.Request, req)
	}
}

func TestSearchExercisesCarriesToken(t *testing.T) {
	var gotTerm string
	var gotLimit int
	store := fakeStore{
		search: func(term string, limit int) (program.ExercisePage, error) {
			gotTerm, gotLimit = term, limit
			return program.ExercisePage{Items: []program.Exercise{{ID: "a", Name: "A"}}, TotalCount: 4}, nil
		},
	}

	msg := SearchExercises(store, grid.SearchRequest{Token: 7, Term: "pre"}, 5)()
	res, ok := msg.(SearchResultMsg)
	if !ok {
		t.Fatalf("expected SearchResultMsg, got %T", msg)
	}
	if res.Token != 7 || res.Err != nil || res.Page.TotalCount != 4 {
		t.Errorf("unexpected result: %+v", res)
	}
	if gotTerm != "pre" || gotLimit != 5 {
		t.Errorf("lookup called with %q/%d", gotTerm, gotLimit)
	}
}

type sinkFunc func(m program.Mutation) error

func (f sinkFunc) Apply(_ context.Context, m program.Mutation) error { return f(m) }

func TestWaitOutboxReturnsResult(t *testing.T) {
	box := outbox.New(sinkFunc(func(program.Mutation) error { return nil }))
	defer func() { _ = box.Close() }()

	box.Dispatch(program.Mutation{
		Kind:      program.MutationSetPrescription,
		ProgramID: "p",
		ItemID:    "i",
		WeekID:    "w",
	})

	done := make(chan any, 1)
	go func() { done <- WaitOutbox(box.Results())() }()

	select {
	case msg := <-done:
		res, ok := msg.(OutboxResultMsg)
		if !ok {
			t.Fatalf("expected OutboxResultMsg, got %T", msg)
		}
		if res.Result.Err != nil || res.Result.Entry.Seq != 1 {
			t.Errorf("unexpected result: %+v", res.Result)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbox result")
	}
}

func TestWaitOutboxClosedChannel(t *testing.T) {
	ch := make(chan outbox.Result)
	close(ch)
	if msg := WaitOutbox(ch)(); msg != nil {
		t.Errorf("expected nil on closed channel, got %T", msg)
	}
}

func TestFlushOutbox(t *testing.T) {
	box := outbox.New(sinkFunc(func(program.Mutation) error { return nil }))
	defer func() { _ = box.Close() }()

	box.Dispatch(program.Mutation{Kind: program.MutationSetExercise, ProgramID: "p", ItemID: "i", ExerciseID: "e"})

	msg := FlushOutbox(box, time.Second)()
	flushed, ok := msg.(FlushedMsg)
	if !ok {
		t.Fatalf("expected FlushedMsg, got %T", msg)
	}
	if flushed.Err != nil {
		t.Errorf("flush error: %v", flushed.Err)
	}
	if stats := box.Stats(); stats.Unsynced() {
		t.Errorf("expected outbox drained, got %+v", stats)
	}
}
