// Package ledger owns the in-memory transaction sequence and keeps it in step
// with its durable mirror.
package ledger

import (
	"context"
	"fmt"
	"time"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/storage"

	"github.com/shopspring/decimal"
)

// Publisher is notified after a transaction has been durably recorded.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, t core.Transaction) error
}

// Backend is the durable mirror the Store loads from and appends to.
type Backend interface {
	storage.Loader
	storage.Appender
}

// Store is the authoritative list of transactions. It is not safe for
// concurrent use; the ledger assumes a single writer.
type Store struct {
	backend      Backend
	publisher    Publisher
	logger       *log.Logger
	now          func() time.Time
	transactions []core.Transaction
}

type Option func(*Store)

// WithClock overrides the capture time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPublisher enables transaction events. A nil publisher is ignored.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New loads every persisted transaction and returns a ready Store. On any
// load error no Store is returned.
func New(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Nop()
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)

	txs, err := backend.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load ledger", log.FieldOperation, log.OpLoad, log.FieldError, err)
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	s.transactions = txs

	s.logger.DebugContext(ctx, "Ledger loaded", log.FieldCount, len(txs))
	return s, nil
}

// AddIncome records an income captured now under the fixed "income" category.
func (s *Store) AddIncome(ctx context.Context, amount decimal.Decimal, description string) (core.Transaction, error) {
	return s.record(ctx, core.NewIncome(amount, description, s.now()))
}

// AddExpense records an expense captured now under the given category.
func (s *Store) AddExpense(ctx context.Context, amount decimal.Decimal, description, category string) (core.Transaction, error) {
	return s.record(ctx, core.NewExpense(amount, description, category, s.now()))
}

// record writes first and only then extends the in-memory sequence, so a
// failed write leaves both sides unchanged.
func (s *Store) record(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	fields := log.NewFields().
		WithOperation(log.OpAppend).
		WithTransaction(t.Kind.String(), t.Amount.String(), t.Category, t.Date)

	if err := s.backend.Append(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist transaction", fields.WithError(err).ToSlice()...)
		return core.Transaction{}, fmt.Errorf("append %s: %w", t.Kind, err)
	}
	s.transactions = append(s.transactions, t)
	s.logger.InfoContext(ctx, "Transaction recorded", fields.ToSlice()...)

	if s.publisher != nil {
		// The ledger is authoritative; a lost event is not a failed write.
		if err := s.publisher.PublishTransactionRecorded(ctx, t); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish transaction event",
				log.FieldOperation, log.OpPublish, log.FieldError, err)
		}
	}
	return t, nil
}

// Transactions returns a copy of the sequence, oldest first.
func (s *Store) Transactions() []core.Transaction {
	return append([]core.Transaction(nil), s.transactions...)
}

func (s *Store) Len() int {
	return len(s.transactions)
}

// Summarizer returns an aggregator over the current sequence.
func (s *Store) Summarizer() Summarizer {
	return NewSummarizer(s.transactions)
}

// Summary computes totals and the category breakdown from memory only.
func (s *Store) Summary() core.Summary {
	return s.Summarizer().Summary()
}
