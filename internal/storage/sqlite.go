package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		name       TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// OpenSQLite opens (or creates) a SQLite database at path with WAL journal
// mode and makes sure the snapshots table exists.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir for %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating snapshots table: %w", err)
	}

	return db, nil
}

// sqliteDSN builds a file: URI for path. The path is percent-escaped so
// characters such as '?' and '#' stay part of the file name.
func sqliteDSN(path string) string {
	escaped := (&url.URL{Path: filepath.ToSlash(path)}).EscapedPath()
	return "file:" + escaped + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// SQLiteSnapshot stores a named snapshot in a local SQLite file.
type SQLiteSnapshot struct {
	db   *sql.DB
	name string
}

// NewSQLiteSnapshot constructs a SQLiteSnapshot over an opened database.
func NewSQLiteSnapshot(db *sql.DB, name string) *SQLiteSnapshot {
	return &SQLiteSnapshot{db: db, name: name}
}

// LoadSnapshot returns the stored payload, or nil, nil when no row exists.
func (s *SQLiteSnapshot) LoadSnapshot(ctx context.Context) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE name = ?`, s.name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying snapshot %s: %w", s.name, err)
	}
	return []byte(payload), nil
}

// SaveSnapshot replaces the stored payload.
func (s *SQLiteSnapshot) SaveSnapshot(ctx context.Context, blob []byte) error {
	const q = `
		INSERT INTO snapshots (name, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE
		SET payload    = excluded.payload,
		    updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, q, s.name, string(blob)); err != nil {
		return fmt.Errorf("upserting snapshot %s: %w", s.name, err)
	}
	return nil
}

// Ping verifies the database file is reachable.
func (s *SQLiteSnapshot) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite: %w", err)
	}
	return nil
}
