package backend

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/ledger"
	"budget/internal/ledger/memory"
	"budget/internal/services"
	"budget/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it writes still land, only export stops.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config.PublishTimeout)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without export", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	cleanup := func() error {
		if amqpClient != nil {
			amqpClient.Close()
		}
		return repo.Close()
	}

	return &BackendResult{
		Backend: assemble(repo, amqpClient),
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store := memory.New()

	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Backend: assemble(store, nil),
		Cleanup: nil,
	}, nil
}

func assemble(store ledger.Store, amqpClient *amqp.Client) *Backend {
	// A nil *amqp.Client must stay a nil interface inside the services.
	var events services.EventPublisher
	if amqpClient != nil {
		events = amqpClient
	}
	return &Backend{
		Bills:     services.NewBillService(store, events),
		Payments:  services.NewPaymentService(store, events),
		Paychecks: store,
	}
}
