package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neexbeast/travel-guide/internal/api"
	"github.com/neexbeast/travel-guide/internal/cache"
	"github.com/neexbeast/travel-guide/internal/catalog"
	"github.com/neexbeast/travel-guide/internal/chat"
	"github.com/neexbeast/travel-guide/internal/config"
	"github.com/neexbeast/travel-guide/internal/content"
	"github.com/neexbeast/travel-guide/internal/latency"
	"github.com/neexbeast/travel-guide/internal/logging"
	"github.com/neexbeast/travel-guide/internal/metrics"
	"github.com/neexbeast/travel-guide/internal/saved"
	"github.com/neexbeast/travel-guide/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		slog.Error("building logger", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	c, err := content.Load(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	log.Info("content loaded", "destinations", len(c.Catalog.Destinations))

	snap, closeSnap, err := openSnapshot(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSnap()

	// Wire dependencies.
	m := metrics.New()
	sim := latency.NewSimulator(cfg.Latency())

	store := saved.NewStore(snap, m, log)
	store.SetWriteTimeout(cfg.SnapshotWriteTimeout)
	if err := store.Initialize(ctx); err != nil {
		return fmt.Errorf("restoring saved places: %w", err)
	}
	m.SetSavedPlaces(store.Len())
	store.Subscribe(func(places []saved.SavedPlace) { m.SetSavedPlaces(len(places)) })
	log.Info("saved places restored", "count", store.Len(), "backend", cfg.SnapshotBackend)

	svc := catalog.NewService(c.Catalog, sim)
	assistant := chat.NewAssistant(chat.NewResolver(c.Responses, nil), chat.NewHistory(), sim, m, log)

	handlers := api.NewHandlers(svc, store, assistant, log)
	router := api.NewRouter(handlers, snap, m.Handler(), cfg.RateLimit, log)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// openSnapshot connects the configured snapshot backend. The returned func
// releases its connection.
func openSnapshot(ctx context.Context, cfg *config.Config, log *slog.Logger) (saved.Snapshotter, func(), error) {
	switch cfg.SnapshotBackend {
	case config.BackendMemory:
		log.Warn("using in-memory snapshot, saved places will not survive a restart")
		return saved.NewMemorySnapshot(), func() {}, nil

	case config.BackendRedis:
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return cache.NewRedisSnapshot(client, cfg.SnapshotName), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		if err := storage.RunMigrations(ctx, pool, migrations(cfg)); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")

		return storage.NewPostgresSnapshot(pool, cfg.SnapshotName), pool.Close, nil

	default:
		db, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return storage.NewSQLiteSnapshot(db, cfg.SnapshotName), func() { _ = db.Close() }, nil
	}
}

func migrations(cfg *config.Config) fs.FS {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir)
	}
	return storage.Migrations()
}
