package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/cli"
	"budget/internal/export"
	googleexport "budget/internal/export/google"
	memexport "budget/internal/export/memory"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting budget-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ledger destination: Google Sheets when configured, otherwise an
	// in-memory sink useful for local runs.
	var writer export.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := googleexport.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		writer = memexport.New()
		logger.Info("Google Sheets disabled - exporting to memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.PublishTimeout)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(writer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, func(event amqp.Event) error {
			return exportWorker.HandleEvent(gctx, event)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
