package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pgale/abn-tracker/internal/common"
	"github.com/pgale/abn-tracker/internal/export"
	"github.com/pgale/abn-tracker/internal/query"
	"github.com/pgale/abn-tracker/internal/repository"
	"github.com/pgale/abn-tracker/internal/server"
)

func main() {
	// Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB pool + ORM handle
	db, pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	// Healthcheck DB on startup
	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	// Read-side services + HTTP surface
	queries := query.NewService(db, logger)
	exporter := export.NewService(queries, logger)
	api := server.New(queries, exporter, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	fmt.Println("stopped.")
}
