package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/neexbeast/travel-guide/internal/latency"
)

// Prefix is prepended to every environment variable, e.g. TRAVEL_PORT.
const Prefix = "TRAVEL"

// Snapshot backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the service configuration.
type Config struct {
	Port      int    `envconfig:"PORT" default:"8080" validate:"gte=1,lte=65535"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Saved places snapshot
	SnapshotBackend string `envconfig:"SNAPSHOT_BACKEND" default:"sqlite" validate:"oneof=sqlite redis postgres memory"`
	SnapshotName    string `envconfig:"SNAPSHOT_NAME" default:"savedPlaces" validate:"required"`
	SQLitePath      string `envconfig:"SQLITE_PATH" default:"data/travel.db" validate:"required_if=SnapshotBackend sqlite"`
	RedisURL        string `envconfig:"REDIS_URL" validate:"required_if=SnapshotBackend redis"`
	DatabaseURL     string `envconfig:"DATABASE_URL" validate:"required_if=SnapshotBackend postgres"`
	// Empty means the migrations compiled into the binary.
	MigrationsDir string `envconfig:"MIGRATIONS_DIR"`
	// Upper bound on a single snapshot write.
	SnapshotWriteTimeout time.Duration `envconfig:"SNAPSHOT_WRITE_TIMEOUT" default:"5s" validate:"gt=0"`

	// Empty means the embedded seed catalog.
	ContentPath string `envconfig:"CONTENT_PATH"`

	CatalogLatency time.Duration `envconfig:"CATALOG_LATENCY" default:"500ms" validate:"gte=0"`
	SearchLatency  time.Duration `envconfig:"SEARCH_LATENCY" default:"300ms" validate:"gte=0"`
	ChatLatency    time.Duration `envconfig:"CHAT_LATENCY" default:"800ms" validate:"gte=0"`
	FailureRate    float64       `envconfig:"FAILURE_RATE" default:"0" validate:"gte=0,lte=1"`

	// Requests per minute per client IP.
	RateLimit int `envconfig:"RATE_LIMIT" default:"60" validate:"gte=1"`
}

// Load reads an optional .env file from the working directory and then
// builds the Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
		slog.Debug("no .env file found, using process environment")
	}
	return FromEnv()
}

// FromEnv builds the Config from TRAVEL_* environment variables only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Latency returns the simulated backend settings.
func (c *Config) Latency() latency.Config {
	return latency.Config{
		Catalog:     c.CatalogLatency,
		Search:      c.SearchLatency,
		Chat:        c.ChatLatency,
		FailureRate: c.FailureRate,
	}
}
