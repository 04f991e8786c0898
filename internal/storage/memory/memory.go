package memory

import (
	"context"
	"sync"

	"budget/internal/core"
	"budget/internal/storage"
)

// Store keeps transactions in process memory only. Useful for tests and
// dry runs; nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var _ storage.Backend = (*Store)(nil)

func New(seed ...core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), seed...)}
}

// Load returns a copy of everything appended so far.
func (s *Store) Load(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...), nil
}

// Append stores the transaction.
func (s *Store) Append(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Close() error {
	return nil
}
