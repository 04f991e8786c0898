package ledger

import (
	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// Summarizer aggregates a transaction sequence. It never mutates or retains
// more than a read-only view of its input.
type Summarizer struct {
	transactions []core.Transaction
}

func NewSummarizer(transactions []core.Transaction) Summarizer {
	return Summarizer{transactions: transactions}
}

// TotalIncome sums the amounts of all income transactions.
func (s Summarizer) TotalIncome() decimal.Decimal {
	return s.total(core.Income)
}

// TotalExpense sums the amounts of all expense transactions.
func (s Summarizer) TotalExpense() decimal.Decimal {
	return s.total(core.Expense)
}

func (s Summarizer) Balance() decimal.Decimal {
	return s.TotalIncome().Sub(s.TotalExpense())
}

func (s Summarizer) HasExpenses() bool {
	for _, t := range s.transactions {
		if t.IsExpense() {
			return true
		}
	}
	return false
}

// ExpenseByCategory sums expenses per category in one pass. Categories keep
// the order in which they first appear.
func (s Summarizer) ExpenseByCategory() []core.CategoryAmount {
	var out []core.CategoryAmount
	index := map[string]int{}
	for _, t := range s.transactions {
		if !t.IsExpense() {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryAmount{Name: t.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

func (s Summarizer) Summary() core.Summary {
	income, expense := s.TotalIncome(), s.TotalExpense()
	byCategory := s.ExpenseByCategory()
	return core.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		ByCategory:   byCategory,
		HasExpenses:  len(byCategory) > 0,
	}
}

func (s Summarizer) total(kind core.Kind) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.transactions {
		if t.Kind == kind {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}
