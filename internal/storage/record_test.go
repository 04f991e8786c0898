package storage

import (
	"errors"
	"testing"

	"budget/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	tx := core.Transaction{
		Kind:        core.Expense,
		Amount:      decimal.RequireFromString("50.255"),
		Description: "Lunch, with \"friends\"",
		Category:    "Food",
		Date:        "2025-01-02 12:30:00",
	}

	rec := RecordOf(tx)
	assert.Equal(t, []string{"expense", "50.255", "Lunch, with \"friends\"", "Food", "2025-01-02 12:30:00"}, rec.Values())

	got, err := rec.Transaction(2)
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(got.Amount))
	assert.Equal(t, tx.Kind, got.Kind)
	assert.Equal(t, tx.Description, got.Description)
	assert.Equal(t, tx.Category, got.Category)
	assert.Equal(t, tx.Date, got.Date)
}

func TestRecordTransaction_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		rec   Record
		field string
	}{
		{"non numeric amount", Record{Type: "expense", Amount: "abc", Category: "Food"}, ColAmount},
		{"empty amount", Record{Type: "income", Amount: "", Category: "income"}, ColAmount},
		{"unknown type", Record{Type: "refund", Amount: "1", Category: "x"}, ColType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rec.Transaction(7)
			var mre *MalformedRecordError
			require.True(t, errors.As(err, &mre), "expected MalformedRecordError, got %v", err)
			assert.Equal(t, 7, mre.Line)
			assert.Equal(t, tt.field, mre.Field)
		})
	}
}

func TestAccessErrorUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := &AccessError{Op: "append", Path: "ledger.csv", Err: base}
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "ledger.csv")
}
