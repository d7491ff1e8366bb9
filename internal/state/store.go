// Package state persists build history between serve-mode runs. The store
// lives in a SQLite database under the state directory and powers the
// skip-if-unchanged check and the recent-builds view.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const dbFileName = "state.db"

// BuildRecord is one row of build history.
type BuildRecord struct {
	ID          int64     `json:"id"`
	BuildID     string    `json:"build_id"`
	Outcome     string    `json:"outcome"`
	ContentHash string    `json:"content_hash"`
	Pages       int       `json:"pages"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store records build history in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates the state directory if needed and opens its database.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		pages INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild appends one build to the history.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, outcome, content_hash, pages, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		rec.BuildID, rec.Outcome, rec.ContentHash, rec.Pages, rec.DurationMS, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// LatestHash returns the content hash of the most recent build, or "" when
// the history is empty.
func (s *Store) LatestHash(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT content_hash FROM builds ORDER BY id DESC LIMIT 1",
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query latest hash: %w", err)
	}
	return hash, nil
}

// LatestGoodHash returns the content hash of the most recent build that
// produced a servable site, or "" when no such build exists. Failed builds
// are excluded so an input that once broke the build is always retried.
func (s *Store) LatestGoodHash(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT content_hash FROM builds WHERE outcome IN ('success', 'warning') ORDER BY id DESC LIMIT 1",
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query latest good hash: %w", err)
	}
	return hash, nil
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, outcome, content_hash, pages, duration_ms, created_at FROM builds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var createdUnix int64
		if err := rows.Scan(&rec.ID, &rec.BuildID, &rec.Outcome, &rec.ContentHash, &rec.Pages, &rec.DurationMS, &createdUnix); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.CreatedAt = time.Unix(createdUnix, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
