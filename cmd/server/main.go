package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/curiolist/curio/db"
	"github.com/curiolist/curio/internal/cleanup"
	"github.com/curiolist/curio/internal/config"
	"github.com/curiolist/curio/internal/entities"
	"github.com/curiolist/curio/internal/images"
	"github.com/curiolist/curio/internal/storage"
	"github.com/curiolist/curio/internal/tags"
	"github.com/curiolist/curio/pkg/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Application struct {
	config   *config.Config
	logger   *slog.Logger
	entities entities.System
	tags     tags.System
	images   images.System
	cleanup  *cleanup.Handler
	runner   *cleanup.Runner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	conn, err := openDB(&cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.Migrate(conn, logger); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	blobs, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	queue := cleanup.NewQueue(conn, logger)
	runner := cleanup.NewRunner(queue, blobs, logger)
	imageStore := images.NewStore(conn)

	app := &Application{
		config:   cfg,
		logger:   logger,
		entities: entities.New(conn, blobs, queue, logger, cfg.Pagination),
		tags:     tags.New(conn, logger),
		images:   images.New(imageStore, blobs, queue, logger, cfg.Storage.MaxUploadSizeBytes()),
		cleanup:  cleanup.NewHandler(runner, queue, cfg.Cleanup.BatchLimit, logger),
		runner:   runner,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go app.runCleanupLoop(cleanupCtx)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")
		stopCleanup()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	err = <-shutdownError
	if err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func openDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeoutDuration())
	defer cancel()

	if err = conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}
