// Package runlog persists a ledger of completed ingestion runs backed by
// SQLite. The ledger is an audit trail, not a cache: nothing in the
// pipeline reads it back during a run.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Run statuses recorded in the ledger.
const (
	StatusSucceeded = "succeeded"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// Entry is one recorded run.
type Entry struct {
	ID           int64
	RunID        string
	URL          string
	VideoID      string
	Title        string
	Status       string
	WarningCount int
	ErrorCount   int
	ArtifactPath string
	DurationMS   float64
	CreatedAt    time.Time
}

// Store manages run-history persistence. A file lock alongside the database
// keeps concurrent CLI invocations from interleaving schema migration.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Open initializes or connects to the history database inside dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "history.lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire history lock: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: lock, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,
    url TEXT NOT NULL,
    video_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    warning_count INTEGER NOT NULL DEFAULT 0,
    error_count INTEGER NOT NULL DEFAULT 0,
    artifact_path TEXT NOT NULL DEFAULT '',
    duration_ms REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_video_id ON runs (video_id);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}

// Close releases the database and the ledger lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record appends one run to the ledger.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            run_id, url, video_id, title, status,
            warning_count, error_count, artifact_path, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.URL,
		entry.VideoID,
		entry.Title,
		entry.Status,
		entry.WarningCount,
		entry.ErrorCount,
		entry.ArtifactPath,
		entry.DurationMS,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, run_id, url, video_id, title, status,
        warning_count, error_count, artifact_path, duration_ms, created_at
        FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var createdAt string
		if err := rows.Scan(
			&entry.ID, &entry.RunID, &entry.URL, &entry.VideoID, &entry.Title,
			&entry.Status, &entry.WarningCount, &entry.ErrorCount,
			&entry.ArtifactPath, &entry.DurationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			entry.CreatedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}
