// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/budget and cmd/budget-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budget/internal/config"
	applog "budget/internal/log"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
