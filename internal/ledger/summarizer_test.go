package ledger

import (
	"fmt"
	"math/rand"
	"testing"

	"budget/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizer_FirstSeenCategoryOrder(t *testing.T) {
	txs := []core.Transaction{
		{Kind: core.Expense, Amount: d("1"), Category: "Zeta"},
		{Kind: core.Income, Amount: d("100"), Category: core.IncomeCategory},
		{Kind: core.Expense, Amount: d("2"), Category: "Alpha"},
		{Kind: core.Expense, Amount: d("3"), Category: "Zeta"},
		{Kind: core.Expense, Amount: d("4"), Category: "Mid"},
	}

	got := NewSummarizer(txs).ExpenseByCategory()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.True(t, d("4").Equal(got[0].Amount))
}

func TestSummarizer_IncomeCategoryNeverInBreakdown(t *testing.T) {
	s := NewSummarizer([]core.Transaction{
		{Kind: core.Income, Amount: d("10"), Category: core.IncomeCategory},
	})
	assert.False(t, s.HasExpenses())
	assert.Empty(t, s.ExpenseByCategory())
	assert.False(t, s.Summary().HasExpenses)
}

func TestSummarizer_ZeroExpenseStillCounts(t *testing.T) {
	s := NewSummarizer([]core.Transaction{
		{Kind: core.Expense, Amount: decimal.Zero, Category: "Free"},
	})
	assert.True(t, s.HasExpenses())
	require.Len(t, s.ExpenseByCategory(), 1)
	assert.True(t, s.TotalExpense().IsZero())
}

func TestSummarizer_NoIntermediateRounding(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 3; i++ {
		txs = append(txs, core.Transaction{Kind: core.Expense, Amount: d("0.004"), Category: "Tiny"})
	}
	s := NewSummarizer(txs)
	assert.True(t, d("0.012").Equal(s.TotalExpense()))
	assert.Equal(t, "0.01", core.FormatAmount(s.TotalExpense()))
}

// Randomized property checks over many add sequences.
func TestSummarizer_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := []string{"Food", "Transport", "Home", "Fun"}

	for round := 0; round < 200; round++ {
		t.Run(fmt.Sprintf("round_%d", round), func(t *testing.T) {
			var txs []core.Transaction
			for i := rng.Intn(30); i > 0; i-- {
				amount := decimal.New(rng.Int63n(10_000_000), -int32(rng.Intn(4)))
				if rng.Intn(2) == 0 {
					txs = append(txs, core.Transaction{Kind: core.Income, Amount: amount, Category: core.IncomeCategory})
				} else {
					txs = append(txs, core.Transaction{Kind: core.Expense, Amount: amount, Category: categories[rng.Intn(len(categories))]})
				}
			}

			s := NewSummarizer(txs)
			assert.True(t, s.TotalIncome().Sub(s.TotalExpense()).Equal(s.Balance()))

			sum := decimal.Zero
			for _, c := range s.ExpenseByCategory() {
				sum = sum.Add(c.Amount)
			}
			assert.True(t, sum.Equal(s.TotalExpense()))

			summary := s.Summary()
			assert.True(t, summary.Balance.Equal(s.Balance()))
			assert.Equal(t, s.HasExpenses(), summary.HasExpenses)
		})
	}
}
