package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"budget/internal/backend"
	"budget/internal/cli"
	apphttp "budget/internal/http"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	if err := backendCfg.Validate(); err != nil {
		logger.Error("Backend configuration validation failed", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", backendCfg.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	b := result.Backend
	srv := apphttp.NewServer(":"+cfg.Port, b.Bills, b.Payments, b.Paychecks)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting budget server", "port", cfg.Port, "backend", backendCfg.Type)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
