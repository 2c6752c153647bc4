// Package cache persists the most recent ticket fetch to SQLite so the
// viewer can browse offline between explicit syncs. Snapshots are whole
// copies of a fetch, replaced wholesale, mirroring the in-memory store's
// refresh semantics.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mzrithm/zenview/internal/ticket"
)

// ErrNoSnapshot is returned by Load when nothing has been cached yet.
var ErrNoSnapshot = errors.New("no ticket snapshot cached")

// Cache stores ticket snapshots in a local SQLite database.
type Cache struct {
	db *sql.DB
}

// New opens (and if needed creates) the cache database at dbPath.
func New(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id           TEXT PRIMARY KEY,
		taken_at     DATETIME NOT NULL,
		ticket_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tickets (
		snapshot_id  TEXT NOT NULL,
		position     INTEGER NOT NULL,
		id           INTEGER NOT NULL,
		subject      TEXT NOT NULL,
		description  TEXT NOT NULL,
		tags         TEXT NOT NULL,
		requester_id INTEGER NOT NULL DEFAULT 0,
		assignee_id  INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT '',
		priority     TEXT NOT NULL DEFAULT '',
		url          TEXT NOT NULL DEFAULT '',
		created_at   DATETIME,
		updated_at   DATETIME,
		fetched_at   DATETIME,

		PRIMARY KEY (snapshot_id, position),
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Save stores a new snapshot of the given tickets, preserving their order.
func (c *Cache) Save(tickets []ticket.Ticket) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	snapID := uuid.NewString()
	takenAt := time.Now()

	if _, err := tx.Exec(
		`INSERT INTO snapshots (id, taken_at, ticket_count) VALUES (?, ?, ?)`,
		snapID, takenAt, len(tickets),
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO tickets
		(snapshot_id, position, id, subject, description, tags,
		 requester_id, assignee_id, status, priority, url,
		 created_at, updated_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tickets {
		tags, err := json.Marshal(t.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for ticket %d: %w", t.ID, err)
		}
		if _, err := stmt.Exec(
			snapID, i, t.ID, t.Subject, t.Description, string(tags),
			t.RequesterID, t.AssigneeID, t.Status, t.Priority, t.URL,
			t.CreatedAt, t.UpdatedAt, t.FetchedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load returns the tickets of the most recent snapshot in their stored
// order, along with when the snapshot was taken.
func (c *Cache) Load() ([]ticket.Ticket, time.Time, error) {
	var snapID string
	var takenAt time.Time

	err := c.db.QueryRow(
		`SELECT id, taken_at FROM snapshots ORDER BY taken_at DESC, id LIMIT 1`,
	).Scan(&snapID, &takenAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := c.db.Query(`SELECT id, subject, description, tags,
		requester_id, assignee_id, status, priority, url,
		created_at, updated_at, fetched_at
		FROM tickets WHERE snapshot_id = ? ORDER BY position`, snapID)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		var t ticket.Ticket
		var tags string
		if err := rows.Scan(&t.ID, &t.Subject, &t.Description, &tags,
			&t.RequesterID, &t.AssigneeID, &t.Status, &t.Priority, &t.URL,
			&t.CreatedAt, &t.UpdatedAt, &t.FetchedAt); err != nil {
			return nil, time.Time{}, err
		}
		if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
			return nil, time.Time{}, fmt.Errorf("decode tags for ticket %d: %w", t.ID, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, takenAt, rows.Err()
}

// Prune deletes all but the newest keep snapshots. Ticket rows cascade.
func (c *Cache) Prune(keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := c.db.Exec(`DELETE FROM snapshots WHERE id NOT IN (
		SELECT id FROM snapshots ORDER BY taken_at DESC, id LIMIT ?)`, keep)
	return err
}


