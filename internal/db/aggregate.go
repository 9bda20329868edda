package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/javiermolinar/coachgrid/internal/program"
)

// structureTables hold the week/session/group/item hierarchy of a program.
var structureTables = []string{"series", "group_items", "exercise_groups", "sessions", "weeks"}

type weekKey struct{ week, id string }

func loadProgram(ctx context.Context, q querier, id string) (*program.Program, error) {
	var (
		p         program.Program
		createdAt string
		updatedAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, name, description, athlete_id, status, created_at, updated_at
		FROM programs
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.AthleteID, &p.Status, &createdAt, &updatedAt)
	if isNoRows(err) {
		return nil, fmt.Errorf("%w: %s", program.ErrProgramNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying program: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	series, err := loadSeries(ctx, q, id)
	if err != nil {
		return nil, err
	}
	items, err := loadItems(ctx, q, id, series)
	if err != nil {
		return nil, err
	}
	groups, err := loadGroups(ctx, q, id, items)
	if err != nil {
		return nil, err
	}
	sessions, err := loadSessions(ctx, q, id, groups)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, name, order_index FROM weeks WHERE program_id = ? ORDER BY order_index, id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying weeks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var w program.Week
		if err := rows.Scan(&w.ID, &w.Name, &w.OrderIndex); err != nil {
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		w.Sessions = sessions[w.ID]
		p.Weeks = append(p.Weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weeks: %w", err)
	}

	return &p, nil
}

func loadSessions(ctx context.Context, q querier, programID string, groups map[weekKey][]program.ExerciseGroup) (map[string][]program.Session, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT week_id, id, name, order_index
		FROM sessions
		WHERE program_id = ?
		ORDER BY week_id, order_index, id
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]program.Session)
	for rows.Next() {
		var (
			weekID string
			s      program.Session
		)
		if err := rows.Scan(&weekID, &s.ID, &s.Name, &s.OrderIndex); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.Groups = groups[weekKey{weekID, s.ID}]
		out[weekID] = append(out[weekID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return out, nil
}

// loadGroups returns groups keyed by week and session.
func loadGroups(ctx context.Context, q querier, programID string, items map[weekKey][]program.GroupItem) (map[weekKey][]program.ExerciseGroup, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT week_id, session_id, id, order_index
		FROM exercise_groups
		WHERE program_id = ?
		ORDER BY week_id, session_id, order_index, id
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[weekKey][]program.ExerciseGroup)
	for rows.Next() {
		var (
			weekID, sessionID string
			g                 program.ExerciseGroup
		)
		if err := rows.Scan(&weekID, &sessionID, &g.ID, &g.OrderIndex); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		g.Items = items[weekKey{weekID, g.ID}]
		key := weekKey{weekID, sessionID}
		out[key] = append(out[key], g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return out, nil
}

// loadItems returns items keyed by week and group.
func loadItems(ctx context.Context, q querier, programID string, series map[weekKey][]program.Series) (map[weekKey][]program.GroupItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT week_id, group_id, id, exercise_id, order_index, unparsed
		FROM group_items
		WHERE program_id = ?
		ORDER BY week_id, group_id, order_index, id
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[weekKey][]program.GroupItem)
	for rows.Next() {
		var (
			weekID, groupID string
			it              program.GroupItem
		)
		if err := rows.Scan(&weekID, &groupID, &it.ID, &it.ExerciseID, &it.OrderIndex, &it.Unparsed); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Series = series[weekKey{weekID, it.ID}]
		key := weekKey{weekID, groupID}
		out[key] = append(out[key], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return out, nil
}

// loadSeries returns series keyed by week and item.
func loadSeries(ctx context.Context, q querier, programID string) (map[weekKey][]program.Series, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT week_id, item_id, order_index, reps, reps_max, is_amrap,
		       intensity_type, intensity_value, intensity_unit, unilateral_unit,
		       tempo, rest_seconds
		FROM series
		WHERE program_id = ?
		ORDER BY week_id, item_id, order_index
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[weekKey][]program.Series)
	for rows.Next() {
		var (
			weekID, itemID string
			s              program.Series
			reps, repsMax  sql.NullInt64
			rest           sql.NullInt64
			value          sql.NullFloat64
			intensityType  string
		)
		err := rows.Scan(&weekID, &itemID, &s.OrderIndex, &reps, &repsMax, &s.IsAmrap,
			&intensityType, &value, &s.IntensityUnit, &s.UnilateralUnit, &s.Tempo, &rest)
		if err != nil {
			return nil, fmt.Errorf("scanning series: %w", err)
		}
		s.IntensityType = program.IntensityType(intensityType)
		s.Reps = intPtr(reps)
		s.RepsMax = intPtr(repsMax)
		s.RestSeconds = intPtr(rest)
		if value.Valid {
			s.IntensityValue = program.Float(value.Float64)
		}
		key := weekKey{weekID, itemID}
		out[key] = append(out[key], s.Normalize())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating series: %w", err)
	}
	return out, nil
}

// saveProgram upserts the program row and rewrites its structure.
func saveProgram(ctx context.Context, q querier, p *program.Program) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO programs (id, name, description, athlete_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			athlete_id = excluded.athlete_id,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, p.ID, p.Name, p.Description, p.AthleteID, p.Status, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving program: %w", err)
	}
	return saveStructure(ctx, q, p)
}

// saveStructure replaces every week, session, group, item and series row
// of p.
func saveStructure(ctx context.Context, q querier, p *program.Program) error {
	for _, table := range structureTables {
		if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE program_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, w := range p.Weeks {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO weeks (id, program_id, name, order_index) VALUES (?, ?, ?, ?)`,
			w.ID, p.ID, w.Name, w.OrderIndex); err != nil {
			return fmt.Errorf("inserting week %s: %w", w.ID, err)
		}
		for _, s := range w.Sessions {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO sessions (id, program_id, week_id, name, order_index) VALUES (?, ?, ?, ?, ?)`,
				s.ID, p.ID, w.ID, s.Name, s.OrderIndex); err != nil {
				return fmt.Errorf("inserting session %s: %w", s.ID, err)
			}
			for _, g := range s.Groups {
				if _, err := q.ExecContext(ctx,
					`INSERT INTO exercise_groups (id, program_id, week_id, session_id, order_index) VALUES (?, ?, ?, ?, ?)`,
					g.ID, p.ID, w.ID, s.ID, g.OrderIndex); err != nil {
					return fmt.Errorf("inserting group %s: %w", g.ID, err)
				}
				for _, it := range g.Items {
					if _, err := q.ExecContext(ctx, `
						INSERT INTO group_items (id, program_id, week_id, group_id, exercise_id, order_index, unparsed)
						VALUES (?, ?, ?, ?, ?, ?, ?)
					`, it.ID, p.ID, w.ID, g.ID, it.ExerciseID, it.OrderIndex, it.Unparsed); err != nil {
						return fmt.Errorf("inserting item %s: %w", it.ID, err)
					}
					if err := insertSeries(ctx, q, p.ID, w.ID, it.ID, it.Series); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func insertSeries(ctx context.Context, q querier, programID, weekID, itemID string, series []program.Series) error {
	for i, s := range series {
		var value any
		if s.IntensityValue != nil {
			value = *s.IntensityValue
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO series (
				program_id, week_id, item_id, order_index, reps, reps_max, is_amrap,
				intensity_type, intensity_value, intensity_unit, unilateral_unit, tempo, rest_seconds
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, programID, weekID, itemID, i, nullInt(s.Reps), nullInt(s.RepsMax), s.IsAmrap,
			string(s.IntensityType), value, s.IntensityUnit, s.UnilateralUnit, s.Tempo, nullInt(s.RestSeconds))
		if err != nil {
			return fmt.Errorf("inserting series for %s: %w", itemID, err)
		}
	}
	return nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return program.Int(int(v.Int64))
}
