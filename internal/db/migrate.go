package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS project_cache (
		base_url    TEXT    NOT NULL,
		project_id  INTEGER NOT NULL CHECK(project_id > 0),
		name        TEXT    NOT NULL,
		client_name TEXT    NOT NULL DEFAULT '',
		position    INTEGER NOT NULL,
		fetched_at  TEXT    NOT NULL,
		PRIMARY KEY (base_url, project_id)
	)`,
	`CREATE TABLE IF NOT EXISTS entry_journal (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		submitted_at TEXT    NOT NULL,
		source       TEXT    NOT NULL CHECK(source IN ('tui','automation','cli')),
		entry_date   TEXT    NOT NULL,
		project_id   INTEGER NOT NULL,
		description  TEXT    NOT NULL,
		minutes      INTEGER NOT NULL,
		is_billable  INTEGER NOT NULL DEFAULT 1,
		error        TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entry_journal_submitted ON entry_journal(submitted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_project_cache_position ON project_cache(base_url, position)`,
}
