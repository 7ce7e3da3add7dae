// Package journal keeps a local SQLite record of the playlist mutations
// issued through the hm command.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome of a journaled operation
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Journal manages a persistent log of mutations using SQLite
type Journal struct {
	db *sql.DB
}

// Entry represents one mutation sent to the web service
type Entry struct {
	ID         string
	Operation  string
	MemberID   string
	PlaylistID string
	TrackID    string
	Detail     string // Playlist name for create and rename
	Outcome    string
	Error      string
	Timestamp  time.Time
}

// Open creates or opens a journal backed by SQLite
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps in-memory databases consistent across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL,
			member_id TEXT,
			playlist_id TEXT,
			track_id TEXT,
			detail TEXT,
			outcome TEXT NOT NULL,
			error TEXT,
			timestamp INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp);
		CREATE INDEX IF NOT EXISTS idx_entries_playlist ON entries(playlist_id, timestamp);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record stores an entry and returns its ID. A missing ID or timestamp is
// filled in.
func (j *Journal) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}

	query := `
		INSERT INTO entries (id, operation, member_id, playlist_id, track_id, detail, outcome, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := j.db.ExecContext(ctx, query,
		e.ID,
		e.Operation,
		e.MemberID,
		e.PlaylistID,
		e.TrackID,
		e.Detail,
		e.Outcome,
		e.Error,
		e.Timestamp.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}

	return e.ID, nil
}

// List returns the most recent entries first.
// Optionally limits the number of results
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	return j.query(ctx, "", nil, limit)
}

// ListPlaylist returns the entries touching one playlist, most recent first
func (j *Journal) ListPlaylist(ctx context.Context, playlistID string, limit int) ([]Entry, error) {
	return j.query(ctx, "WHERE playlist_id = ?", []interface{}{playlistID}, limit)
}

func (j *Journal) query(ctx context.Context, where string, args []interface{}, limit int) ([]Entry, error) {
	query := `
		SELECT id, operation, COALESCE(member_id, ''), COALESCE(playlist_id, ''), COALESCE(track_id, ''),
			COALESCE(detail, ''), outcome, COALESCE(error, ''), timestamp
		FROM entries
	` + where + `
		ORDER BY timestamp DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var timestamp int64

		err := rows.Scan(
			&e.ID,
			&e.Operation,
			&e.MemberID,
			&e.PlaylistID,
			&e.TrackID,
			&e.Detail,
			&e.Outcome,
			&e.Error,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		e.Timestamp = time.Unix(0, timestamp)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// Cleanup removes entries older than maxAge to prevent unbounded growth
func (j *Journal) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UnixNano()

	result, err := j.db.ExecContext(ctx, "DELETE FROM entries WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Count returns the number of entries in the journal
// If failedOnly is true, only counts failed operations
func (j *Journal) Count(ctx context.Context, failedOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM entries"
	var args []interface{}
	if failedOnly {
		query += " WHERE outcome = ?"
		args = append(args, OutcomeFailed)
	}

	var count int
	if err := j.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}
