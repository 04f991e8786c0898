// Package console runs the interactive budget menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"budget/internal/core"
	"budget/internal/log"

	"github.com/shopspring/decimal"
)

// Ledger is the part of ledger.Store the menu drives.
type Ledger interface {
	AddIncome(ctx context.Context, amount decimal.Decimal, description string) (core.Transaction, error)
	AddExpense(ctx context.Context, amount decimal.Decimal, description, category string) (core.Transaction, error)
	Summary() core.Summary
}

const (
	choiceIncome  = "1"
	choiceExpense = "2"
	choiceSummary = "3"
	choiceExit    = "4"
)

// Console reads menu choices line by line from in and writes to out.
type Console struct {
	ledger Ledger
	in     io.Reader
	out    io.Writer
	logger *log.Logger

	lines   chan string
	readErr error // set before lines is closed
}

func New(ledger Ledger, in io.Reader, out io.Writer, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.Nop()
	}
	return &Console{
		ledger: ledger,
		in:     in,
		out:    out,
		logger: logger.WithComponent(log.ComponentConsole),
	}
}

// Run loops until the user exits or input ends, returning nil, or until ctx
// is cancelled, returning ctx.Err() even while a prompt is waiting. Invalid
// input is reported and the menu shown again; storage failures and input
// read errors are returned.
func (c *Console) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	c.startReader(done)

	for {
		c.printMenu()
		choice, err := c.prompt(ctx, "Choose an option: ")
		if err != nil {
			return c.stopped(err)
		}

		switch choice {
		case choiceIncome:
			err = c.addIncome(ctx)
		case choiceExpense:
			err = c.addExpense(ctx)
		case choiceSummary:
			fmt.Fprintln(c.out)
			RenderSummary(c.out, c.ledger.Summary())
		case choiceExit:
			fmt.Fprintln(c.out, "Exiting Budget Tracker. Goodbye!")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please select a valid option.")
		}
		if err != nil {
			return c.stopped(err)
		}
	}
}

// startReader feeds lines from in to c.lines until input ends or done closes.
func (c *Console) startReader(done <-chan struct{}) {
	c.lines = make(chan string)
	go func() {
		defer close(c.lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case c.lines <- strings.TrimSpace(scanner.Text()):
			case <-done:
				return
			}
		}
		c.readErr = scanner.Err()
	}()
}

// stopped maps the end of input onto a clean exit.
func (c *Console) stopped(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Budget Tracker")
	fmt.Fprintln(c.out, "1. Add Income")
	fmt.Fprintln(c.out, "2. Add Expense")
	fmt.Fprintln(c.out, "3. Show Summary")
	fmt.Fprintln(c.out, "4. Exit")
}

func (c *Console) addIncome(ctx context.Context) error {
	amount, ok, err := c.promptAmount(ctx, "Enter income amount: ")
	if !ok {
		return err
	}
	description, err := c.prompt(ctx, "Enter income description: ")
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := c.ledger.AddIncome(ctx, amount, description)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, IncomeAdded(t))
	return nil
}

func (c *Console) addExpense(ctx context.Context) error {
	amount, ok, err := c.promptAmount(ctx, "Enter expense amount: ")
	if !ok {
		return err
	}
	description, err := c.prompt(ctx, "Enter expense description: ")
	if err != nil {
		return err
	}
	category, err := c.prompt(ctx, "Enter expense category: ")
	if err != nil {
		return err
	}
	if category == "" {
		fmt.Fprintln(c.out, "Invalid category: it cannot be empty.")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := c.ledger.AddExpense(ctx, amount, description, category)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, ExpenseAdded(t))
	return nil
}

// promptAmount returns ok=false with a nil error when the amount was invalid
// and has been reported.
func (c *Console) promptAmount(ctx context.Context, label string) (decimal.Decimal, bool, error) {
	raw, err := c.prompt(ctx, label)
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, err := core.ParseAmount(raw)
	if err != nil {
		c.logger.Debug("Rejected amount", log.FieldError, err)
		fmt.Fprintf(c.out, "Invalid amount %q: enter a non-negative number.\n", raw)
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

// prompt returns the next trimmed line, io.EOF when input ended, the read
// error if reading failed, or ctx.Err() once ctx is cancelled.
func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)
	select {
	case line, ok := <-c.lines:
		if !ok {
			if c.readErr != nil {
				return "", c.readErr
			}
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// IncomeAdded is the confirmation printed after an income is recorded.
func IncomeAdded(t core.Transaction) string {
	return fmt.Sprintf("Income added: %s - %s", core.FormatAmount(t.Amount), t.Description)
}

// ExpenseAdded is the confirmation printed after an expense is recorded.
func ExpenseAdded(t core.Transaction) string {
	return fmt.Sprintf("Expense added: %s - %s - %s", core.FormatAmount(t.Amount), t.Description, t.Category)
}
