package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okobah/spillcast/internal/adapter/httpapi"
	"github.com/okobah/spillcast/internal/config"
	"github.com/okobah/spillcast/internal/dataset"
	"github.com/okobah/spillcast/internal/observability"
	"github.com/okobah/spillcast/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loader := dataset.NewLoader(cfg.DataPath, cfg.ZoneNames, logger, metrics)
	p := pipeline.New(loader, logger, metrics, cfg.ForecastHorizon)

	srv := httpapi.NewServer(cfg.HTTPAddr, p, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the dataset cache in the background; the service stays not-ready
	// (but alive) until the first successful load.
	go func() {
		if err := p.Warm(ctx); err != nil {
			logger.Error("dataset warm-up failed", "path", cfg.DataPath, "error", err)
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
