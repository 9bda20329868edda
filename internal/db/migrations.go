package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS exercises (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			is_curated INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name);

		CREATE TABLE IF NOT EXISTS programs (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			athlete_id  TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft', 'active', 'archived')),
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS weeks (
			id          TEXT NOT NULL,
			program_id  TEXT NOT NULL,
			name        TEXT NOT NULL,
			order_index INTEGER NOT NULL,
			PRIMARY KEY (program_id, id)
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id          TEXT NOT NULL,
			program_id  TEXT NOT NULL,
			week_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			order_index INTEGER NOT NULL,
			PRIMARY KEY (program_id, week_id, id)
		);

		CREATE TABLE IF NOT EXISTS exercise_groups (
			id          TEXT NOT NULL,
			program_id  TEXT NOT NULL,
			week_id     TEXT NOT NULL,
			session_id  TEXT NOT NULL,
			order_index INTEGER NOT NULL,
			PRIMARY KEY (program_id, week_id, id)
		);

		CREATE TABLE IF NOT EXISTS group_items (
			id          TEXT NOT NULL,
			program_id  TEXT NOT NULL,
			week_id     TEXT NOT NULL,
			group_id    TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			order_index INTEGER NOT NULL,
			unparsed    TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (program_id, week_id, id)
		);

		CREATE TABLE IF NOT EXISTS series (
			program_id      TEXT NOT NULL,
			week_id         TEXT NOT NULL,
			item_id         TEXT NOT NULL,
			order_index     INTEGER NOT NULL,
			reps            INTEGER,
			reps_max        INTEGER,
			is_amrap        INTEGER NOT NULL DEFAULT 0,
			intensity_type  TEXT NOT NULL DEFAULT '',
			intensity_value REAL,
			intensity_unit  TEXT NOT NULL DEFAULT '',
			unilateral_unit TEXT NOT NULL DEFAULT '',
			tempo           TEXT NOT NULL DEFAULT '',
			rest_seconds    INTEGER,
			PRIMARY KEY (program_id, week_id, item_id, order_index)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_week ON sessions(program_id, week_id);
		CREATE INDEX IF NOT EXISTS idx_group_items_group ON group_items(program_id, week_id, group_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating program tables: %w", err)
	}

	return nil
}
