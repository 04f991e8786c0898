package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// IncomeCategory is the fixed category recorded for every income transaction.
const IncomeCategory = "income"

// TimestampLayout is the capture-time format stored in the ledger's date column.
const TimestampLayout = "2006-01-02 15:04:05"

type (
	Kind string

	Transaction struct {
		Kind        Kind
		Amount      decimal.Decimal
		Description string
		Category    string // "income" for Income, user supplied for Expense
		Date        string // TimestampLayout, captured at creation
	}
)

var (
	ErrInvalidKind    = errors.New("invalid transaction kind")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrEmptyCategory  = errors.New("empty category")
)

// ParseKind maps a stored type column onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(s)); k {
	case Income, Expense:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) Validate() error {
	_, err := ParseKind(string(k))
	return err
}

// FormatTimestamp renders t the way the ledger stores it.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// NewIncome builds an income transaction captured at now.
func NewIncome(amount decimal.Decimal, description string, now time.Time) Transaction {
	return Transaction{
		Kind:        Income,
		Amount:      amount,
		Description: description,
		Category:    IncomeCategory,
		Date:        FormatTimestamp(now),
	}
}

// NewExpense builds an expense transaction captured at now.
func NewExpense(amount decimal.Decimal, description, category string, now time.Time) Transaction {
	return Transaction{
		Kind:        Expense,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        FormatTimestamp(now),
	}
}

func (t Transaction) IsIncome() bool {
	return t.Kind == Income
}

func (t Transaction) IsExpense() bool {
	return t.Kind == Expense
}

// Validate checks the invariants a freshly captured transaction must hold.
func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.Kind == Income && t.Category != IncomeCategory {
		return fmt.Errorf("income category must be %q, got %q", IncomeCategory, t.Category)
	}
	if t.Kind == Expense && strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
