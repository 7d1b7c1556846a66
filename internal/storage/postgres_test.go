package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-guide/internal/storage"
)

// ---- mock Querier ----

type mockQuerier struct {
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.queryRowFn(ctx, sql, args...)
}
func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return m.execFn(ctx, sql, args...)
}

type pingingQuerier struct {
	mockQuerier
	pingErr error
}

func (p *pingingQuerier) Ping(_ context.Context) error { return p.pingErr }

// ---- mock pgx.Row ----

type fakeRow struct {
	scanFn func(dest ...any) error
}

func (f *fakeRow) Scan(dest ...any) error { return f.scanFn(dest...) }

// ---- LoadSnapshot ----

func TestPostgresLoadSnapshot_Found(t *testing.T) {
	var capturedArgs []any
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			capturedArgs = args
			return &fakeRow{scanFn: func(dest ...any) error {
				*dest[0].(*[]byte) = []byte(`[{"id":"p1"}]`)
				return nil
			}}
		},
	}

	s := storage.NewPostgresSnapshotWithQuerier(q, "savedPlaces")
	blob, err := s.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(blob))
	assert.Equal(t, []any{"savedPlaces"}, capturedArgs)
}

func TestPostgresLoadSnapshot_NotFound(t *testing.T) {
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	s := storage.NewPostgresSnapshotWithQuerier(q, "savedPlaces")
	blob, err := s.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestPostgresLoadSnapshot_DBError(t *testing.T) {
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(dest ...any) error { return fmt.Errorf("connection reset") }}
		},
	}

	s := storage.NewPostgresSnapshotWithQuerier(q, "savedPlaces")
	_, err := s.LoadSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying snapshot")
}

// ---- SaveSnapshot ----

func TestPostgresSaveSnapshot_Success(t *testing.T) {
	var capturedArgs []any
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			capturedArgs = args
			return pgconn.CommandTag{}, nil
		},
	}

	s := storage.NewPostgresSnapshotWithQuerier(q, "savedPlaces")
	require.NoError(t, s.SaveSnapshot(context.Background(), []byte(`[]`)))
	require.Len(t, capturedArgs, 2)
	assert.Equal(t, "savedPlaces", capturedArgs[0])
	assert.Equal(t, "[]", capturedArgs[1])
}

func TestPostgresSaveSnapshot_DBError(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, fmt.Errorf("db error")
		},
	}

	s := storage.NewPostgresSnapshotWithQuerier(q, "savedPlaces")
	err := s.SaveSnapshot(context.Background(), []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upserting snapshot")
}

// ---- Ping ----

func TestPostgresPing(t *testing.T) {
	ok := storage.NewPostgresSnapshotWithQuerier(&pingingQuerier{}, "x")
	require.NoError(t, ok.Ping(context.Background()))

	down := storage.NewPostgresSnapshotWithQuerier(&pingingQuerier{pingErr: fmt.Errorf("down")}, "x")
	require.Error(t, down.Ping(context.Background()))

	noPing := storage.NewPostgresSnapshotWithQuerier(&mockQuerier{}, "x")
	require.NoError(t, noPing.Ping(context.Background()))
}

func TestNewPostgresSnapshot_NotNil(t *testing.T) {
	assert.NotNil(t, storage.NewPostgresSnapshot(nil, "savedPlaces"))
}
