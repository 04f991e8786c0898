package backend

import (
	"context"

	"budget/internal/ledger"
	"budget/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the storage backend, the optional event publisher
// and a cleanup function releasing both.
type BackendResult struct {
	Storage   storage.Backend
	Publisher ledger.Publisher // nil when AMQP is not configured or unreachable
	Cleanup   CleanupFunc
}

// LedgerOptions returns the ledger options matching this result.
func (r *BackendResult) LedgerOptions() []ledger.Option {
	if r.Publisher == nil {
		return nil
	}
	return []ledger.Option{ledger.WithPublisher(r.Publisher)}
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// csv specific
	CSVPath string

	// sqlite specific
	SQLiteDBPath string

	// Transaction events, optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
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
	case CSVBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
