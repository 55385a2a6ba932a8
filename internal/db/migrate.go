package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. The schema here backs
// internal/tickets/eventcache: a local cache of ticket event streams
// fetched from an external Ticket Event Provider, keyed by
// repo/ticket so repeated point-in-time reconstructions do not re-hit the
// network.
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
	`CREATE TABLE IF NOT EXISTS ticket_events (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		repo         TEXT NOT NULL,
		ticket_id    TEXT NOT NULL,
		kind         TEXT NOT NULL
		             CHECK(kind IN ('created','labeled','unlabeled','assigned','unassigned','closed','reopened')),
		created_at   TEXT NOT NULL,
		label        TEXT NOT NULL DEFAULT '',
		assignee     TEXT NOT NULL DEFAULT '',
		fetched_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_ticket_events_ticket ON ticket_events(repo, ticket_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_events_created ON ticket_events(repo, ticket_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS ticket_cache_meta (
		repo           TEXT NOT NULL,
		ticket_id      TEXT NOT NULL,
		last_synced_at TEXT NOT NULL,
		PRIMARY KEY (repo, ticket_id)
	)`,
}
