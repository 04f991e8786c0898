package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"budget/internal/core"
	"budget/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "budget.db")
	repo, err := NewRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestRepository_AppendAndLoadInOrder(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	want := []core.Transaction{
		{Kind: core.Income, Amount: decimal.RequireFromString("1000.00"), Description: "Salary", Category: "income", Date: "2025-01-01 09:00:00"},
		{Kind: core.Expense, Amount: decimal.RequireFromString("50.25"), Description: "Lunch", Category: "Food", Date: "2025-01-01 13:00:00"},
		{Kind: core.Expense, Amount: decimal.Zero, Description: "Free", Category: "Misc", Date: "2025-01-01 14:00:00"},
	}
	for _, tx := range want {
		require.NoError(t, repo.Append(ctx, tx))
	}
	require.NoError(t, repo.Close())

	// Reopening runs migrations again, which must be a no-op.
	reopened, err := NewRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Kind, got[i].Kind)
		assert.True(t, want[i].Amount.Equal(got[i].Amount))
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].Date, got[i].Date)
	}
}

func TestRepository_LoadEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_MalformedAmount(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.db.Exec(`INSERT INTO transactions (kind, amount, description, category, date) VALUES ('expense', 'abc', 'x', 'Food', 'd')`)
	require.NoError(t, err)

	got, err := repo.Load(context.Background())
	assert.Nil(t, got)
	var mre *storage.MalformedRecordError
	require.True(t, errors.As(err, &mre), "expected MalformedRecordError, got %v", err)
	assert.Equal(t, storage.ColAmount, mre.Field)
	assert.Equal(t, 1, mre.Line)
}
