package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/javiermolinar/coachgrid/internal/notation"
	"github.com/javiermolinar/coachgrid/internal/program"
)

// maxBodyBytes bounds a mutation request body.
const maxBodyBytes = 1 << 20

// maxSearchLimit caps the limit query parameter of exercise searches.
const maxSearchLimit = 100

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListPrograms(r.Context())
	if err != nil {
		s.fail(w, "list programs", err)
		return
	}
	if list == nil {
		list = []program.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.LoadProgram(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "load program", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleApplyMutation(w http.ResponseWriter, r *http.Request) {
	var m program.Mutation
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if m.ProgramID != "" && m.ProgramID != id {
		writeError(w, http.StatusBadRequest, "programId does not match the URL")
		return
	}
	m.ProgramID = id
	normalizePrescription(&m)

	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Apply(r.Context(), m); err != nil {
		s.fail(w, "apply mutation", err, "kind", m.Kind)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// normalizePrescription fills Series or Unparsed from Notation when a
// client sent only the text of a prescription cell.
func normalizePrescription(m *program.Mutation) {
	if m.Kind != program.MutationSetPrescription || m.Series != nil || m.Unparsed != "" {
		return
	}
	series, err := notation.Parse(m.Notation)
	if err != nil {
		m.Unparsed = strings.TrimSpace(m.Notation)
		return
	}
	m.Series = series
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if raw := q.Get("ids"); raw != "" {
		var ids []string
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		found, err := s.store.ExercisesByID(r.Context(), ids)
		if err != nil {
			s.fail(w, "resolve exercises", err)
			return
		}
		writeJSON(w, http.StatusOK, found)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	page, err := s.store.SearchExercises(r.Context(), q.Get("q"), limit)
	if err != nil {
		s.fail(w, "search exercises", err)
		return
	}
	if page.Items == nil {
		page.Items = []program.Exercise{}
	}
	writeJSON(w, http.StatusOK, page)
}

// fail maps err to a status code and writes it. Server errors are logged.
func (s *Server) fail(w http.ResponseWriter, op string, err error, attrs ...any) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(op+" failed", append([]any{"error", err}, attrs...)...)
	}
	writeError(w, status, err.Error())
}

var notFoundErrors = []error{
	program.ErrProgramNotFound,
	program.ErrWeekNotFound,
	program.ErrSessionNotFound,
	program.ErrItemNotFound,
}

var invalidErrors = []error{
	program.ErrNameRequired,
	program.ErrLayoutMismatch,
	program.ErrDuplicateID,
	program.ErrNegativeReps,
	program.ErrAmrapWithReps,
	program.ErrRepsRange,
	program.ErrIntensityValueRequired,
	program.ErrIntensityTypeRequired,
	program.ErrPercentageRange,
	program.ErrRPERange,
	program.ErrRIRRange,
	program.ErrNegativeWeight,
	program.ErrUnknownIntensity,
	program.ErrInvalidTempo,
	program.ErrNegativeRest,
}

func statusFor(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range invalidErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
