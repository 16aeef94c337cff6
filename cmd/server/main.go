package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"polarec/internal/config"
	"polarec/internal/core"
	"polarec/internal/logging"
	"polarec/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dir", cfg.Data.Dir,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Create the study service and load the datasets. Individual files that
	// are missing or broken are reported and served as such; only an
	// unusable data directory is fatal here.
	service := core.NewService(cfg.Data.Dir, core.DefaultConditions())

	ctx := context.Background()
	snap, err := service.Reload(ctx)
	if err != nil {
		slog.Error("failed to load datasets", "dir", cfg.Data.Dir, "error", err)
		os.Exit(1)
	}
	if snap.Report.LoadedCount() == 0 {
		slog.Warn("no datasets loaded, dashboard will show an empty report",
			"dir", cfg.Data.Dir)
	}

	// Create server with config
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
