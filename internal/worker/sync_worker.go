package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/cache"
	"budget/internal/log"
	"budget/internal/sheets"
)

// SyncWorker mirrors recorded transactions into Google Sheets.
type SyncWorker struct {
	sheets sheets.TransactionWriter
	synced *cache.Recent[string]
}

// NewSyncWorker creates a worker. synced remembers message IDs already
// mirrored so redelivered messages do not produce duplicate rows; it may be nil.
func NewSyncWorker(sheets sheets.TransactionWriter, synced *cache.Recent[string]) *SyncWorker {
	return &SyncWorker{
		sheets: sheets,
		synced: synced,
	}
}

// HandleTransactionRecorded processes a single transaction event from AMQP.
func (w *SyncWorker) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing transaction message",
		log.FieldMessageID, msg.ID,
		log.FieldKind, msg.Kind)

	if w.synced != nil {
		if ref, ok := w.synced.Get(msg.ID); ok {
			slog.InfoContext(ctx, "Transaction already mirrored, skipping",
				log.FieldMessageID, msg.ID,
				log.FieldSheetsRef, ref)
			return nil
		}
	}

	tx, err := msg.Transaction()
	if err != nil {
		return fmt.Errorf("%w: invalid transaction: %w", amqp.ErrDiscard, err)
	}

	ref, err := w.sheets.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	if w.synced != nil {
		w.synced.Set(msg.ID, ref)
	}

	slog.InfoContext(ctx, "Successfully mirrored transaction",
		log.FieldOperation, log.OpSync,
		log.FieldMessageID, msg.ID,
		log.FieldSheetsRef, ref,
		log.FieldKind, tx.Kind,
		log.FieldAmount, tx.Amount.String(),
		log.FieldCategory, tx.Category)

	return nil
}
