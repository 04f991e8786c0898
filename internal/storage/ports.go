package storage

import (
	"context"

	"budget/internal/core"
)

// Ports for persistence adapters.
type (
	// Loader reads every persisted transaction, oldest first.
	Loader interface {
		Load(ctx context.Context) ([]core.Transaction, error)
	}

	// Appender durably persists a single transaction. It must not return
	// before the write has reached stable storage.
	Appender interface {
		Append(ctx context.Context, t core.Transaction) error
	}

	// Backend is the durable mirror of the ledger.
	Backend interface {
		Loader
		Appender
		Close() error
	}
)

// Header is the column layout of the flat-file ledger.
var Header = []string{"type", "amount", "description", "category", "date"}

const (
	ColType        = "type"
	ColAmount      = "amount"
	ColDescription = "description"
	ColCategory    = "category"
	ColDate        = "date"
)
