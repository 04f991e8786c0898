package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/storage"

	_ "modernc.org/sqlite"
)

// Repository persists the ledger in a single SQLite table. Rows are read back
// in insertion order.
type Repository struct {
	db   *sql.DB
	path string
}

var _ storage.Backend = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, &storage.AccessError{Op: "mkdir", Path: filepath.Dir(dbPath), Err: err}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &storage.AccessError{Op: "open", Path: dbPath, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &storage.AccessError{Op: "ping", Path: dbPath, Err: err}
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, path: dbPath}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements storage.Loader
func (r *Repository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, amount, description, category, date FROM transactions ORDER BY id`)
	if err != nil {
		return nil, &storage.AccessError{Op: "query", Path: r.path, Err: err}
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			id  int64
			rec storage.Record
		)
		if err := rows.Scan(&id, &rec.Type, &rec.Amount, &rec.Description, &rec.Category, &rec.Date); err != nil {
			return nil, &storage.AccessError{Op: "scan", Path: r.path, Err: err}
		}
		tx, err := rec.Transaction(int(id))
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.AccessError{Op: "query", Path: r.path, Err: err}
	}
	return out, nil
}

// Append implements storage.Appender
func (r *Repository) Append(ctx context.Context, t core.Transaction) error {
	rec := storage.RecordOf(t)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (kind, amount, description, category, date) VALUES (?, ?, ?, ?, ?)`,
		rec.Type, rec.Amount, rec.Description, rec.Category, rec.Date)
	if err != nil {
		return &storage.AccessError{Op: "insert", Path: r.path, Err: err}
	}

	id, _ := res.LastInsertId()
	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", id,
		log.FieldKind, rec.Type,
		log.FieldAmount, rec.Amount,
		log.FieldCategory, rec.Category)

	return nil
}
