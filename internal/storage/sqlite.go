package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
	_ "modernc.org/sqlite"
)

// formatTimestamp converts time.Time to SQLite-compatible UTC ISO8601 string
// The Z suffix ensures the Go sqlite driver parses it back as UTC
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

//go:embed schema.sql
var schema string

// Archive is the optional SQLite event history. It only accumulates
// rows; the tracker never reads its own state back from here.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates the archive database at dbPath.
func OpenArchive(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable foreign keys, WAL mode for better performance, and busy timeout for concurrency
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	// Create tables
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

// ArchivedEvent is one row from the events table, with the payload
// flattened to its display form.
type ArchivedEvent struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Player     string    `json:"player,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Detail     string    `json:"detail,omitempty"`
}

// RecordEvents appends a batch of events in one transaction.
func (a *Archive) RecordEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (kind, player, occurred_at, detail) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		player := sql.NullString{String: ev.Player, Valid: ev.Player != ""}
		detail := ev.DetailString()
		if _, err := stmt.ExecContext(ctx, ev.Kind, player, formatTimestamp(ev.Timestamp),
			sql.NullString{String: detail, Valid: detail != ""}); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordLife inserts or updates one life record. Closing a life updates
// the row written when it opened.
func (a *Archive) RecordLife(ctx context.Context, life *domain.LifeRecord) error {
	var endedAt sql.NullString
	if life.EndedAt != nil {
		endedAt = sql.NullString{String: formatTimestamp(*life.EndedAt), Valid: true}
	}
	cause := sql.NullString{String: life.DeathCause, Valid: life.DeathCause != ""}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO lives (id, player, sequence, started_at, ended_at, death_cause,
			kills, distance_tiles, items_crafted, structures_placed, vehicles_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			death_cause = excluded.death_cause,
			kills = excluded.kills,
			distance_tiles = excluded.distance_tiles,
			items_crafted = excluded.items_crafted,
			structures_placed = excluded.structures_placed,
			vehicles_used = excluded.vehicles_used
	`, life.ID, life.Player, life.Sequence, formatTimestamp(life.StartedAt), endedAt, cause,
		life.Kills, life.DistanceTiles, life.ItemsCrafted, life.StructuresPlaced, life.VehiclesUsed)
	return err
}

// RecentEvents returns the newest archived events, newest first.
func (a *Archive) RecentEvents(ctx context.Context, limit int) ([]ArchivedEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, kind, player, occurred_at, detail FROM events
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ArchivedEvent
	for rows.Next() {
		ev, err := scanArchivedEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// PlayerEvents returns the newest archived events for one player.
func (a *Archive) PlayerEvents(ctx context.Context, player string, limit int) ([]ArchivedEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, kind, player, occurred_at, detail FROM events
		WHERE player = ? ORDER BY id DESC LIMIT ?
	`, player, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ArchivedEvent
	for rows.Next() {
		ev, err := scanArchivedEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// LivesForPlayer returns a player's archived lives in sequence order.
func (a *Archive) LivesForPlayer(ctx context.Context, player string) ([]domain.LifeRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, player, sequence, started_at, ended_at, death_cause,
			kills, distance_tiles, items_crafted, structures_placed, vehicles_used
		FROM lives WHERE player = ? ORDER BY sequence
	`, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lives []domain.LifeRecord
	for rows.Next() {
		life, err := scanLifeRow(rows)
		if err != nil {
			return nil, err
		}
		lives = append(lives, *life)
	}
	return lives, rows.Err()
}
