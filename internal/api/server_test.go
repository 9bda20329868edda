package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/coachgrid/internal/db"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/seed"
)

// newTestStore returns a SQLite store holding the demo program.
func newTestStore(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	if err := repo.SaveExercises(ctx, seed.Exercises()); err != nil {
		t.Fatalf("saving exercises: %v", err)
	}
	if err := repo.SaveProgram(ctx, seed.Program()); err != nil {
		t.Fatalf("saving program: %v", err)
	}
	return repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload["error"]
}

func TestListPrograms(t *testing.T) {
	s := New(newTestStore(t), "", nil)

	rec := do(t, s, http.MethodGet, "/api/v1/programs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var list []program.Summary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(list) != 1 || list[0].ID != seed.ProgramID || list[0].Weeks != 4 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestGetProgram(t *testing.T) {
	s := New(newTestStore(t), "", nil)

	rec := do(t, s, http.MethodGet, "/api/v1/programs/"+seed.ProgramID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var p program.Program
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if p.Name != "Max Strength - Phase 1" || len(p.Weeks) != 4 {
		t.Errorf("unexpected program: %s with %d weeks", p.Name, len(p.Weeks))
	}
}

func TestGetProgram_NotFound(t *testing.T) {
	s := New(newTestStore(t), "", nil)

	rec := do(t, s, http.MethodGet, "/api/v1/programs/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "program not found") {
		t.Errorf("error = %q", msg)
	}
}

func TestExercises_Search(t *testing.T) {
	s := New(newTestStore(t), "", nil)

	tests := []struct {
		query     string
		wantItems int
		wantTotal int
	}{
		{"/api/v1/exercises?q=squat", 2, 2},
		{"/api/v1/exercises?q=SQUAT", 2, 2},
		{"/api/v1/exercises?q=press&limit=1", 1, 5},
		{"/api/v1/exercises?q=zzz", 0, 0},
		{"/api/v1/exercises", 15, 15},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tc.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var page program.ExercisePage
			if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if len(page.Items) != tc.wantItems || page.TotalCount != tc.wantTotal {
				t.Errorf("got %d items of %d, want %d of %d", len(page.Items), page.TotalCount, tc.wantItems, tc.wantTotal)
			}
			if page.Items == nil {
				t.Error("items should encode as an empty array")
			}
		})
	}
}

func TestExercises_BadLimit(t *testing.T) {
	s := New(newTestStore(t), "", nil)

	for _, limit := range []string{"0", "-2", "ten"} {
		rec := do(t, s, http.MethodGet, "/api/v1/exercises?q=a&limit="+limit, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rec.Code)
		}
	}
}

func TestExercises_ByID(t *testing.T) {
	s := New(newTestStore(t), "", nil)

	rec := do(t, s, http.MethodGet, "/api/v1/exercises?ids=ex-back-squat,%20ex-missing,ex-leg-curl", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var found map[string]program.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&found); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(found) != 2 || found["ex-leg-curl"].Name != "Leg Curl" {
		t.Errorf("unexpected result: %+v", found)
	}
}

func TestApplyMutation_NotationOnly(t *testing.T) {
	store := newTestStore(t)
	s := New(store, "", nil)

	body := fmt.Sprintf(`{"kind":"set_prescription","itemId":%q,"weekId":%q,"notation":"4x6@RPE8"}`,
		seed.ItemSquat, seed.Week2)
	rec := do(t, s, http.MethodPost, "/api/v1/programs/"+seed.ProgramID+"/mutations", body)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	p, err := store.LoadProgram(context.Background(), seed.ProgramID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w, _ := p.Week(seed.Week2)
	it, _, _ := w.FindItem(seed.ItemSquat)
	if len(it.Series) != 4 || it.Unparsed != "" {
		t.Fatalf("expected 4 parsed series, got %d (unparsed %q)", len(it.Series), it.Unparsed)
	}
	if it.Series[0].IntensityType != program.IntensityRPE || *it.Series[0].Reps != 6 {
		t.Errorf("unexpected series: %+v", it.Series[0])
	}
}

func TestApplyMutation_InvalidNotationKeptRaw(t *testing.T) {
	store := newTestStore(t)
	s := New(store, "", nil)

	body := fmt.Sprintf(`{"kind":"set_prescription","itemId":%q,"weekId":%q,"notation":"heavy singles"}`,
		seed.ItemBench, seed.Week3)
	rec := do(t, s, http.MethodPost, "/api/v1/programs/"+seed.ProgramID+"/mutations", body)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	p, _ := store.LoadProgram(context.Background(), seed.ProgramID)
	w, _ := p.Week(seed.Week3)
	it, _, _ := w.FindItem(seed.ItemBench)
	if it.Unparsed != "heavy singles" || len(it.Series) != 0 {
		t.Errorf("expected raw text to be kept, got %q / %d series", it.Unparsed, len(it.Series))
	}
}

func TestApplyMutation_Errors(t *testing.T) {
	s := New(newTestStore(t), "", nil)
	path := "/api/v1/programs/" + seed.ProgramID + "/mutations"

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad json", path, `{`, http.StatusBadRequest},
		{"unknown kind", path, `{"kind":"explode"}`, http.StatusBadRequest},
		{"missing item", path, `{"kind":"set_exercise","exerciseId":"ex-1"}`, http.StatusBadRequest},
		{"program mismatch", path, `{"kind":"delete_week","programId":"other","weekId":"w"}`, http.StatusBadRequest},
		{"unknown program", "/api/v1/programs/nope/mutations", `{"kind":"delete_week","weekId":"w"}`, http.StatusNotFound},
		{"unknown item", path, `{"kind":"set_exercise","itemId":"ghost","exerciseId":"ex-1"}`, http.StatusNotFound},
		{"invalid series", path, fmt.Sprintf(`{"kind":"set_prescription","itemId":%q,"weekId":%q,"series":[{"reps":-1}]}`, seed.ItemRow, seed.Week1), http.StatusBadRequest},
		{"short layout", path, fmt.Sprintf(`{"kind":"reorder_items","sessionId":%q,"layout":[{"itemId":%q,"groupId":"g"}]}`, seed.SessionBench, seed.ItemBench), http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
			if msg := decodeError(t, rec); msg == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	s := New(newTestStore(t), "s3cret", nil)

	rec := do(t, s, http.MethodGet, "/api/v1/programs", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programs", nil)
	req.Header.Set(APIKeyHeader, "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/programs", nil)
	req.Header.Set(APIKeyHeader, "s3cret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("right key: status = %d, want 200", rec.Code)
	}

	// Health checks stay open.
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz: status = %d, want 200", rec.Code)
	}
}

type failingStore struct{ Store }

func (failingStore) ListPrograms(context.Context) ([]program.Summary, error) {
	return nil, errors.New("disk on fire")
}

func TestListPrograms_StoreError(t *testing.T) {
	s := New(failingStore{}, "", nil)

	rec := do(t, s, http.MethodGet, "/api/v1/programs", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "disk on fire" {
		t.Errorf("error = %q", msg)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("loading: %w", program.ErrProgramNotFound), http.StatusNotFound},
		{program.ErrItemNotFound, http.StatusNotFound},
		{fmt.Errorf("x: %w", program.ErrRPERange), http.StatusBadRequest},
		{program.ErrDuplicateID, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
