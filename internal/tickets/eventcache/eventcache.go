// Package eventcache persists ticket event streams fetched from an
// external tickets.Provider into the local sqlite database (internal/db),
// so repeated point-in-time reconstructions for the same ticket don't
// re-hit the network.
package eventcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/timelines/internal/db"
	"github.com/alexanderramin/timelines/internal/tickets"
)

// Cache reads and writes cached ticket events through a db.DBTX, so it
// composes with db.UnitOfWork transactions the same way the rest of the
// codebase's repositories do.
type Cache struct {
	conn db.DBTX
}

func New(conn db.DBTX) *Cache {
	return &Cache{conn: conn}
}

// Get returns the cached events for (repo, ticketID), or ok=false if
// nothing has been cached yet.
func (c *Cache) Get(ctx context.Context, repo, ticketID string) ([]tickets.Event, bool, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT kind, created_at, label, assignee FROM ticket_events
		WHERE repo = ? AND ticket_id = ?
		ORDER BY created_at ASC, id ASC`, repo, ticketID)
	if err != nil {
		return nil, false, fmt.Errorf("eventcache: query events: %w", err)
	}
	defer rows.Close()

	var events []tickets.Event
	for rows.Next() {
		var kind, createdAt, label, assignee string
		if err := rows.Scan(&kind, &createdAt, &label, &assignee); err != nil {
			return nil, false, fmt.Errorf("eventcache: scan event: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, false, fmt.Errorf("eventcache: parse created_at %q: %w", createdAt, err)
		}
		events = append(events, tickets.Event{
			Kind:      tickets.EventKind(kind),
			CreatedAt: ts,
			Label:     label,
			Assignee:  assignee,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(events) == 0 {
		return nil, c.hasSynced(ctx, repo, ticketID), nil
	}
	return events, true, nil
}

func (c *Cache) hasSynced(ctx context.Context, repo, ticketID string) bool {
	var lastSynced string
	err := c.conn.QueryRowContext(ctx,
		`SELECT last_synced_at FROM ticket_cache_meta WHERE repo = ? AND ticket_id = ?`,
		repo, ticketID).Scan(&lastSynced)
	return err == nil
}

// Put replaces the cached events for (repo, ticketID) with events and
// records the sync time.
func (c *Cache) Put(ctx context.Context, repo, ticketID string, events []tickets.Event, fetchedAt time.Time) error {
	if _, err := c.conn.ExecContext(ctx,
		`DELETE FROM ticket_events WHERE repo = ? AND ticket_id = ?`, repo, ticketID); err != nil {
		return fmt.Errorf("eventcache: clear events: %w", err)
	}

	for _, e := range events {
		if _, err := c.conn.ExecContext(ctx, `
			INSERT INTO ticket_events (repo, ticket_id, kind, created_at, label, assignee, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			repo, ticketID, string(e.Kind), e.CreatedAt.Format(time.RFC3339), e.Label, e.Assignee,
			fetchedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("eventcache: insert event: %w", err)
		}
	}

	if _, err := c.conn.ExecContext(ctx, `
		INSERT INTO ticket_cache_meta (repo, ticket_id, last_synced_at) VALUES (?, ?, ?)
		ON CONFLICT(repo, ticket_id) DO UPDATE SET last_synced_at = excluded.last_synced_at`,
		repo, ticketID, fetchedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("eventcache: update sync meta: %w", err)
	}
	return nil
}

// FetchThrough returns the cached events for (repo, ticketID), calling
// fetch (typically a tickets.Provider.GetEvents) and populating the cache
// on a miss.
func FetchThrough(ctx context.Context, conn *sql.DB, repo, ticketID string, now time.Time, fetch func(context.Context) ([]tickets.Event, error)) ([]tickets.Event, error) {
	c := New(conn)
	if events, ok, err := c.Get(ctx, repo, ticketID); err != nil {
		return nil, err
	} else if ok {
		return events, nil
	}

	events, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, repo, ticketID, events, now); err != nil {
		return nil, err
	}
	return events, nil
}
