package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/console"
	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/ledger"
	"budget/internal/log"

	urfave "github.com/urfave/cli/v2"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	err := newApp(os.Stdin, os.Stdout, os.Stderr).RunContext(ctx, os.Args)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr)
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, "budget:", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *urfave.App {
	return &urfave.App{
		Name:      "budget",
		Usage:     "record income and expenses and summarize them",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []urfave.Flag{
			&urfave.StringFlag{
				Name:  "backend",
				Usage: "storage backend: " + strings.Join(backend.GetBackendTypeStrings(), ", ") + " (overrides DATA_BACKEND)",
			},
			&urfave.StringFlag{
				Name:  "file",
				Usage: "ledger location for the csv or sqlite backend",
			},
		},
		Action: func(c *urfave.Context) error {
			return withLedger(c, func(ctx context.Context, store *ledger.Store, logger *log.Logger) error {
				return console.New(store, c.App.Reader, c.App.Writer, logger).Run(ctx)
			})
		},
		Commands: []*urfave.Command{
			{
				Name:  "add-income",
				Usage: "record an income",
				Flags: []urfave.Flag{
					&urfave.StringFlag{Name: "amount", Required: true},
					&urfave.StringFlag{Name: "description"},
				},
				Action: func(c *urfave.Context) error {
					amount, err := core.ParseAmount(c.String("amount"))
					if err != nil {
						return err
					}
					return withLedger(c, func(ctx context.Context, store *ledger.Store, _ *log.Logger) error {
						t, err := store.AddIncome(ctx, amount, c.String("description"))
						if err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, console.IncomeAdded(t))
						return nil
					})
				},
			},
			{
				Name:  "add-expense",
				Usage: "record an expense",
				Flags: []urfave.Flag{
					&urfave.StringFlag{Name: "amount", Required: true},
					&urfave.StringFlag{Name: "description"},
					&urfave.StringFlag{Name: "category", Required: true},
				},
				Action: func(c *urfave.Context) error {
					amount, err := core.ParseAmount(c.String("amount"))
					if err != nil {
						return err
					}
					category := c.String("category")
					if category == "" {
						return core.ErrEmptyCategory
					}
					return withLedger(c, func(ctx context.Context, store *ledger.Store, _ *log.Logger) error {
						t, err := store.AddExpense(ctx, amount, c.String("description"), category)
						if err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, console.ExpenseAdded(t))
						return nil
					})
				},
			},
			{
				Name:  "summary",
				Usage: "print totals and the expense breakdown",
				Action: func(c *urfave.Context) error {
					return withLedger(c, func(_ context.Context, store *ledger.Store, _ *log.Logger) error {
						console.RenderSummary(c.App.Writer, store.Summary())
						return nil
					})
				},
			},
			{
				Name:  "export",
				Usage: "write every transaction as json or yaml",
				Flags: []urfave.Flag{
					&urfave.StringFlag{Name: "format", Value: "json", Usage: "json or yaml"},
					&urfave.StringFlag{Name: "output", Usage: "file to write, stdout when empty"},
				},
				Action: func(c *urfave.Context) error {
					if _, err := export.EncoderFor(c.String("format")); err != nil {
						return err
					}
					return withLedger(c, func(ctx context.Context, store *ledger.Store, logger *log.Logger) error {
						return exportLedger(ctx, c, store, logger)
					})
				},
			},
		},
	}
}

func exportLedger(ctx context.Context, c *urfave.Context, store *ledger.Store, logger *log.Logger) error {
	format, output := c.String("format"), c.String("output")

	if output == "" {
		if err := export.Write(c.App.Writer, format, store.Transactions()); err != nil {
			return err
		}
	} else if err := exportFile(output, format, store); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Ledger exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, store.Len(),
		log.FieldPath, output)
	return nil
}

// exportFile writes the export to path. The close error is returned since a
// failed flush leaves a truncated file.
func exportFile(path, format string, store *ledger.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(f, format, store.Transactions()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// withLedger resolves configuration, opens the configured backend, loads the
// ledger and hands it to fn. Resources are released when fn returns.
func withLedger(c *urfave.Context, fn func(ctx context.Context, store *ledger.Store, logger *log.Logger) error) error {
	ctx := c.Context

	cfg, err := cli.LoadAndValidateConfig(func(cfg *config.Config) {
		applyFlags(c, cfg)
	})
	if err != nil {
		return err
	}

	logger, err := cli.SetupLogger(cfg.LogLevel, c.App.ErrWriter)
	if err != nil {
		return err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Failed to release backend", log.FieldOperation, log.OpShutdown, log.FieldError, err)
		}
	}()

	opts := append(result.LedgerOptions(), ledger.WithLogger(logger))
	store, err := ledger.New(ctx, result.Storage, opts...)
	if err != nil {
		return err
	}
	return fn(ctx, store, logger)
}

// applyFlags lets --backend and --file win over the environment.
func applyFlags(c *urfave.Context, cfg *config.Config) {
	if b := c.String("backend"); b != "" {
		cfg.DataBackend = b
	}
	if f := c.String("file"); f != "" {
		switch cfg.DataBackend {
		case string(backend.SQLiteBackend):
			cfg.SQLiteDBPath = f
		default:
			cfg.CSVPath = f
		}
	}
}
