package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier abstracts the subset of pgxpool.Pool used by PostgresSnapshot.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// PostgresSnapshot stores a named saved-places snapshot in a JSONB column.
type PostgresSnapshot struct {
	q    Querier
	name string
}

// NewPostgresSnapshot constructs a PostgresSnapshot backed by the given pool.
func NewPostgresSnapshot(pool *pgxpool.Pool, name string) *PostgresSnapshot {
	return &PostgresSnapshot{q: pool, name: name}
}

// NewPostgresSnapshotWithQuerier constructs a PostgresSnapshot with a custom Querier (for tests).
func NewPostgresSnapshotWithQuerier(q Querier, name string) *PostgresSnapshot {
	return &PostgresSnapshot{q: q, name: name}
}

// LoadSnapshot returns the stored payload, or nil, nil when no row exists.
func (s *PostgresSnapshot) LoadSnapshot(ctx context.Context) ([]byte, error) {
	const q = `
		SELECT payload
		FROM saved_snapshots
		WHERE name = $1
	`

	var payload []byte
	if err := s.q.QueryRow(ctx, q, s.name).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying snapshot %s: %w", s.name, err)
	}

	return payload, nil
}

// SaveSnapshot replaces the stored payload.
func (s *PostgresSnapshot) SaveSnapshot(ctx context.Context, blob []byte) error {
	const q = `
		INSERT INTO saved_snapshots (name, payload, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE
		SET payload    = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := s.q.Exec(ctx, q, s.name, string(blob)); err != nil {
		return fmt.Errorf("upserting snapshot %s: %w", s.name, err)
	}

	return nil
}

// Ping verifies database connectivity when the Querier supports it.
func (s *PostgresSnapshot) Ping(ctx context.Context) error {
	p, ok := s.q.(pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("pinging postgres: %w", err)
	}
	return nil
}
