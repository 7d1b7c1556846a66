package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-guide/internal/storage"
)

func openTestSQLite(t *testing.T, path string) *storage.SQLiteSnapshot {
	t.Helper()
	db, err := storage.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewSQLiteSnapshot(db, "savedPlaces")
}

func TestSQLiteSnapshot_MissingReturnsNil(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "travel.db"))

	blob, err := s.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestSQLiteSnapshot_SaveAndLoad(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "travel.db"))
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, []byte(`[{"id":"p1"}]`)))
	require.NoError(t, s.SaveSnapshot(ctx, []byte(`[{"id":"p2"}]`)))

	blob, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p2"}]`, string(blob), "last write wins")
}

func TestSQLiteSnapshot_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "travel.db")
	ctx := context.Background()

	db, err := storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, storage.NewSQLiteSnapshot(db, "savedPlaces").SaveSnapshot(ctx, []byte(`[]`)))
	require.NoError(t, db.Close())

	s := openTestSQLite(t, path)
	blob, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(blob))
}

func TestSQLiteSnapshot_NamesAreIndependent(t *testing.T) {
	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "travel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	a := storage.NewSQLiteSnapshot(db, "a")
	b := storage.NewSQLiteSnapshot(db, "b")
	require.NoError(t, a.SaveSnapshot(ctx, []byte(`["a"]`)))

	blob, err := b.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestOpenSQLite_PathWithURIMetacharacters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odd name?mode=ro#frag.db")
	ctx := context.Background()

	s := openTestSQLite(t, path)
	require.NoError(t, s.SaveSnapshot(ctx, []byte(`["x"]`)))

	_, err := os.Stat(path)
	require.NoError(t, err, "database file should use the literal path")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "odd name", e.Name())
	}

	blob, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, string(blob))
}

func TestSQLiteSnapshot_Ping(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "travel.db"))
	require.NoError(t, s.Ping(context.Background()))
}
