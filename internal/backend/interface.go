package backend

import (
	"context"
	"time"

	"budget/internal/ledger"
	"budget/internal/services"
)

// Backend bundles the services the HTTP server depends on.
type Backend struct {
	Bills     *services.BillService
	Payments  *services.PaymentService
	Paychecks ledger.PaycheckStore
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend *Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	AMQPURL        string
	AMQPExchange   string
	AMQPQueue      string
	PublishTimeout time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
