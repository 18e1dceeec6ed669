package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"github.com/tjfontaine/interview-coach/internal/logging"
	"github.com/tjfontaine/interview-coach/internal/pkg/config"
	"github.com/tjfontaine/interview-coach/internal/runtime"
	"github.com/tjfontaine/interview-coach/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	figure.NewFigure("COACH", "", true).Print()

	var shutdownTracer telemetry.ShutdownFunc
	if cfg.Telemetry.Enabled {
		shutdownTracer, err = telemetry.InitTracer(cfg.Telemetry.ServiceName, logger)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
	} else {
		shutdownTracer = telemetry.Disabled(logger)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := runtime.New(ctx, cfg, runtime.WithLogger(logger))
	cancel()
	if err != nil {
		logger.Error("failed to start interview coach", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("interview coach configured",
		slog.String("storage", cfg.Storage.Kind),
		slog.String("events", cfg.Events.Kind),
		slog.String("llm", cfg.LLM.Provider),
		slog.Bool("archive", cfg.Archive.Enabled),
		slog.Bool("auth", cfg.Auth.Enabled),
		slog.Int("question_count", cfg.Interview.QuestionCount),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	// Wait for shutdown signal or a server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
		logger.Info("shutdown signal received, stopping interview coach")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("interview coach shutdown complete")
}
