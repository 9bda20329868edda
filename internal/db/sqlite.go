// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/coachgrid/internal/program"
)

// DefaultSearchLimit is used when SearchExercises gets no positive limit.
const DefaultSearchLimit = 20

// SQLite implements program.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ program.Repository = (*SQLite)(nil)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadProgram returns the full aggregate for id.
func (s *SQLite) LoadProgram(ctx context.Context, id string) (*program.Program, error) {
	return loadProgram(ctx, s.db, id)
}

// ListPrograms returns every stored program, most recently updated first.
func (s *SQLite) ListPrograms(ctx context.Context) ([]program.Summary, error) {
	query := `
		SELECT p.id, p.name, p.status, p.updated_at,
		       (SELECT COUNT(*) FROM weeks w WHERE w.program_id = p.id)
		FROM programs p
		ORDER BY p.updated_at DESC, p.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []program.Summary
	for rows.Next() {
		var (
			sum       program.Summary
			updatedAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Status, &updatedAt, &sum.Weeks); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		if sum.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated at: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}

	return out, nil
}

// SaveProgram inserts or replaces a whole program aggregate.
func (s *SQLite) SaveProgram(ctx context.Context, p *program.Program) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validating program: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = program.StatusDraft
	}

	if err := saveProgram(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Apply persists a single grid mutation. Prescription and exercise
// changes are written in place; structural changes rewrite the program
// inside one transaction.
func (s *SQLite) Apply(ctx context.Context, m program.Mutation) error {
	if err := m.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `UPDATE programs SET updated_at = ? WHERE id = ?`,
		formatTime(s.now()), m.ProgramID)
	if err != nil {
		return fmt.Errorf("touching program: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", program.ErrProgramNotFound, m.ProgramID)
	}

	switch m.Kind {
	case program.MutationSetPrescription:
		err = setPrescription(ctx, tx, m)
	case program.MutationSetExercise:
		err = setExercise(ctx, tx, m)
	default:
		var p *program.Program
		if p, err = loadProgram(ctx, tx, m.ProgramID); err != nil {
			return err
		}
		if err = p.Apply(m); err != nil {
			return err
		}
		err = saveStructure(ctx, tx, p)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func setPrescription(ctx context.Context, tx *sql.Tx, m program.Mutation) error {
	series := m.Series
	if m.Unparsed != "" {
		series = nil
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE group_items SET unparsed = ? WHERE program_id = ? AND week_id = ? AND id = ?`,
		m.Unparsed, m.ProgramID, m.WeekID, m.ItemID)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s in week %s", program.ErrItemNotFound, m.ItemID, m.WeekID)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM series WHERE program_id = ? AND week_id = ? AND item_id = ?`,
		m.ProgramID, m.WeekID, m.ItemID); err != nil {
		return fmt.Errorf("clearing series: %w", err)
	}

	return insertSeries(ctx, tx, m.ProgramID, m.WeekID, m.ItemID, series)
}

func setExercise(ctx context.Context, tx *sql.Tx, m program.Mutation) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE group_items SET exercise_id = ? WHERE program_id = ? AND id = ?`,
		m.ExerciseID, m.ProgramID, m.ItemID)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", program.ErrItemNotFound, m.ItemID)
	}
	return nil
}

// SearchExercises returns up to limit exercises whose name contains term,
// curated entries first.
func (s *SQLite) SearchExercises(ctx context.Context, term string, limit int) (program.ExercisePage, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"

	var page program.ExercisePage
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exercises WHERE name LIKE ? ESCAPE '\'`, pattern,
	).Scan(&page.TotalCount)
	if err != nil {
		return page, fmt.Errorf("counting exercises: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, is_curated
		FROM exercises
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY is_curated DESC, name COLLATE NOCASE
		LIMIT ?
	`, pattern, limit)
	if err != nil {
		return page, fmt.Errorf("querying exercises: %w", err)
	}
	defer func() { _ = rows.Close() }()

	page.Items, err = scanExercises(rows)
	return page, err
}

// ExercisesByID resolves catalog entries. Unknown ids are omitted.
func (s *SQLite) ExercisesByID(ctx context.Context, ids []string) (map[string]program.Exercise, error) {
	out := make(map[string]program.Exercise, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_curated FROM exercises WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list, err := scanExercises(rows)
	if err != nil {
		return nil, err
	}
	for _, ex := range list {
		out[ex.ID] = ex
	}
	return out, nil
}

// SaveExercises upserts catalog entries.
func (s *SQLite) SaveExercises(ctx context.Context, exercises []program.Exercise) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ex := range exercises {
		if ex.ID == "" || ex.Name == "" {
			return fmt.Errorf("exercise %q: id and name are required", ex.ID)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO exercises (id, name, is_curated) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, is_curated = excluded.is_curated
		`, ex.ID, ex.Name, ex.IsCurated)
		if err != nil {
			return fmt.Errorf("saving exercise %s: %w", ex.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanExercises(rows *sql.Rows) ([]program.Exercise, error) {
	var out []program.Exercise
	for rows.Next() {
		var ex program.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.IsCurated); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exercises: %w", err)
	}
	return out, nil
}

// timeLayout is RFC3339 with fixed-width nanoseconds so that stored
// timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
