package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the aggregate view over every recorded transaction.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	// ByCategory lists expense totals in first-seen order.
	ByCategory []CategoryAmount
	// HasExpenses is false when no expense was ever recorded; the category
	// breakdown is not rendered in that case.
	HasExpenses bool
}
