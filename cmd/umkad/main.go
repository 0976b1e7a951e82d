// Command umkad assembles the scoring engine: it loads the content
// catalog, wires the persistence gateway over the configured snapshot
// stores, optionally connects the progress event producer, and starts a
// game session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/umka-learn/umka/internal/catalog"
	"github.com/umka-learn/umka/internal/config"
	"github.com/umka-learn/umka/internal/events"
	"github.com/umka-learn/umka/internal/exercise"
	"github.com/umka-learn/umka/internal/game"
	"github.com/umka-learn/umka/internal/gateway"
	"github.com/umka-learn/umka/internal/storage/local"
	"github.com/umka-learn/umka/internal/storage/postgres"
	"github.com/umka-learn/umka/internal/storage/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("umkad error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	registry := catalog.NewRegistry(catalog.NewLoader(cfg.ContentPath))
	if err := registry.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	localStore, err := local.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}

	remote, cleanup, err := remoteStore(ctx, cfg)
	if err != nil {
		// remote trouble is not fatal: the gateway degrades to local
		logger.Warn("remote snapshot store unavailable", "error", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	gw := gateway.New(remote, localStore, logger)

	var publisher game.EventPublisher
	if cfg.EventsEnabled {
		conn, err := events.NewConnection(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("event broker unavailable, events disabled", "error", err)
		} else {
			defer conn.Close()
			publisher = events.NewProducer(conn)
		}
	}

	policy := exercise.DefaultPolicy()
	policy.FillBlank = exercise.ParseScorePolicy(cfg.FillBlankPolicy)

	svc := game.NewService(game.Config{
		Catalog: registry,
		Gateway: gw,
		Events:  publisher,
		Logger:  logger,
		Policy:  &policy,
	})

	userKey := os.Getenv("UMKA_USER")
	if userKey == "" {
		userKey = "default"
	}
	profile := svc.StartSession(ctx, userKey)
	logger.Info("session started",
		"user_key", userKey,
		"name", profile.Name,
		"level", profile.Level,
		"points", profile.Points,
		"streak", profile.Streak,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())
	return nil
}

// remoteStore opens the configured higher-durability snapshot tier:
// PostgreSQL when DATABASE_URL is set, otherwise SQLite when
// SQLITE_PATH is set, otherwise none.
func remoteStore(ctx context.Context, cfg *config.Config) (gateway.Snapshotter, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		return postgres.NewSnapshotStore(pool), pool.Close, nil
	}

	if cfg.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqlite.NewSnapshotStore(db), func() { db.Close() }, nil
	}

	return nil, nil, nil
}
