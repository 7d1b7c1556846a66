package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-guide/internal/config"
)

// isolate runs the test in an empty directory so no stray .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.BackendSQLite, cfg.SnapshotBackend)
	assert.Equal(t, "savedPlaces", cfg.SnapshotName)
	assert.Equal(t, "data/travel.db", cfg.SQLitePath)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Empty(t, cfg.ContentPath)
	assert.Empty(t, cfg.MigrationsDir)
	assert.Equal(t, 5*time.Second, cfg.SnapshotWriteTimeout)

	lat := cfg.Latency()
	assert.Equal(t, 500*time.Millisecond, lat.Catalog)
	assert.Equal(t, 300*time.Millisecond, lat.Search)
	assert.Equal(t, 800*time.Millisecond, lat.Chat)
	assert.Zero(t, lat.FailureRate)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TRAVEL_PORT", "9000")
	t.Setenv("TRAVEL_LOG_FORMAT", "console")
	t.Setenv("TRAVEL_LOG_LEVEL", "debug")
	t.Setenv("TRAVEL_SNAPSHOT_BACKEND", "redis")
	t.Setenv("TRAVEL_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TRAVEL_CHAT_LATENCY", "1s")
	t.Setenv("TRAVEL_FAILURE_RATE", "0.25")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.BackendRedis, cfg.SnapshotBackend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, time.Second, cfg.Latency().Chat)
	assert.InDelta(t, 0.25, cfg.Latency().FailureRate, 1e-9)
}

func TestFromEnv_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"TRAVEL_SNAPSHOT_BACKEND": "s3"}},
		{"redis without url", map[string]string{"TRAVEL_SNAPSHOT_BACKEND": "redis"}},
		{"postgres without url", map[string]string{"TRAVEL_SNAPSHOT_BACKEND": "postgres"}},
		{"failure rate above one", map[string]string{"TRAVEL_FAILURE_RATE": "1.5"}},
		{"bad log format", map[string]string{"TRAVEL_LOG_FORMAT": "xml"}},
		{"port out of range", map[string]string{"TRAVEL_PORT": "70000"}},
		{"zero rate limit", map[string]string{"TRAVEL_RATE_LIMIT": "0"}},
		{"zero write timeout", map[string]string{"TRAVEL_SNAPSHOT_WRITE_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validating config")
		})
	}
}

func TestFromEnv_UnparsableValue(t *testing.T) {
	t.Setenv("TRAVEL_CHAT_LATENCY", "soon")

	_, err := config.FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processing environment variables")
}

func TestFromEnv_MemoryBackendNeedsNoURLs(t *testing.T) {
	t.Setenv("TRAVEL_SNAPSHOT_BACKEND", "memory")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.SnapshotBackend)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := isolate(t)
	// godotenv never overrides variables that are already set, so make sure
	// the keys are unset for this test and restored afterwards.
	t.Setenv("TRAVEL_PORT", "")
	require.NoError(t, os.Unsetenv("TRAVEL_PORT"))
	t.Setenv("TRAVEL_SNAPSHOT_NAME", "")
	require.NoError(t, os.Unsetenv("TRAVEL_SNAPSHOT_NAME"))

	env := "TRAVEL_PORT=7070\nTRAVEL_SNAPSHOT_NAME=trip\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("TRAVEL_PORT")
		_ = os.Unsetenv("TRAVEL_SNAPSHOT_NAME")
	})

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "trip", cfg.SnapshotName)
}
