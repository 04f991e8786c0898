package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"budget/internal/amqp"
	"budget/internal/cache"
	"budget/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	appended []core.Transaction
	err      error
}

func (f *fakeWriter) Append(_ context.Context, t core.Transaction) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, t)
	return fmt.Sprintf("Transactions!A%d:E%d", len(f.appended)+1, len(f.appended)+1), nil
}

func expenseMessage() *amqp.TransactionRecordedMessage {
	return &amqp.TransactionRecordedMessage{
		ID:          "b8c5a0f2-6f0e-4d7e-9a1c-0e2f7f1d9b11",
		Kind:        "expense",
		Amount:      "50.25",
		Description: "Lunch",
		Category:    "Food",
		Date:        "2025-01-01 13:00:00",
		Timestamp:   time.Now(),
	}
}

func TestHandleTransactionRecorded(t *testing.T) {
	w := &fakeWriter{}
	worker := NewSyncWorker(w, nil)

	require.NoError(t, worker.HandleTransactionRecorded(context.Background(), expenseMessage()))
	require.Len(t, w.appended, 1)

	got := w.appended[0]
	assert.Equal(t, core.Expense, got.Kind)
	assert.Equal(t, "50.25", got.Amount.String())
	assert.Equal(t, "Lunch", got.Description)
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, "2025-01-01 13:00:00", got.Date)
}

func TestHandleTransactionRecorded_InvalidMessageIsDiscarded(t *testing.T) {
	w := &fakeWriter{}
	worker := NewSyncWorker(w, nil)

	msg := expenseMessage()
	msg.Amount = "abc"

	err := worker.HandleTransactionRecorded(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, amqp.ErrDiscard)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Empty(t, w.appended)
}

func TestHandleTransactionRecorded_SheetsFailureIsRetryable(t *testing.T) {
	sheetsErr := errors.New("quota exceeded")
	worker := NewSyncWorker(&fakeWriter{err: sheetsErr}, cache.NewRecent[string](10, time.Hour))

	err := worker.HandleTransactionRecorded(context.Background(), expenseMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, sheetsErr)
	assert.False(t, errors.Is(err, amqp.ErrDiscard))
}

func TestHandleTransactionRecorded_SkipsRedelivery(t *testing.T) {
	w := &fakeWriter{}
	synced := cache.NewRecent[string](10, time.Hour)
	worker := NewSyncWorker(w, synced)
	msg := expenseMessage()

	require.NoError(t, worker.HandleTransactionRecorded(context.Background(), msg))
	require.NoError(t, worker.HandleTransactionRecorded(context.Background(), msg))

	assert.Len(t, w.appended, 1)
	ref, ok := synced.Get(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "Transactions!A2:E2", ref)
}
