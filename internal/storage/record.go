package storage

import (
	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// Record is the string form of a transaction as every text backend stores it.
type Record struct {
	Type        string
	Amount      string
	Description string
	Category    string
	Date        string
}

// RecordOf converts a transaction into its stored form. The amount keeps its
// full precision; rounding is a display concern.
func RecordOf(t core.Transaction) Record {
	return Record{
		Type:        t.Kind.String(),
		Amount:      t.Amount.String(),
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date,
	}
}

// Values returns the record in Header column order.
func (r Record) Values() []string {
	return []string{r.Type, r.Amount, r.Description, r.Category, r.Date}
}

// Transaction parses the record back. line is only used for error reporting.
func (r Record) Transaction(line int) (core.Transaction, error) {
	kind, err := core.ParseKind(r.Type)
	if err != nil {
		return core.Transaction{}, &MalformedRecordError{Line: line, Field: ColType, Value: r.Type, Err: err}
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return core.Transaction{}, &MalformedRecordError{Line: line, Field: ColAmount, Value: r.Amount, Err: core.ErrInvalidAmount}
	}
	return core.Transaction{
		Kind:        kind,
		Amount:      amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
	}, nil
}
