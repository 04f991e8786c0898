// Package csvfile stores the ledger as an append-only CSV file with the
// header type,amount,description,category,date.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/storage"
)

type Store struct {
	path string

	// initialized is set once the checks below have been made.
	initialized bool
	// needsHeader is true while the file is missing or empty.
	needsHeader bool
	// needsNewline is true when the last row has no line terminator.
	needsNewline bool
}

var _ storage.Backend = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads every row in file order. A missing file is an empty ledger.
func (s *Store) Load(ctx context.Context) ([]core.Transaction, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file not found, starting empty", log.FieldPath, s.path)
		return nil, nil
	}
	if err != nil {
		return nil, &storage.AccessError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, s.readError(err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}
	r.FieldsPerRecord = len(header)

	var out []core.Transaction
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, s.readError(err)
		}
		line, _ := r.FieldPos(0)
		tx, err := cols.record(rec).Transaction(line)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}

	slog.DebugContext(ctx, "Ledger file loaded", log.FieldPath, s.path, log.FieldCount, len(out))
	return out, nil
}

// Append writes one row and syncs the file before returning. The header is
// written first when the file was found missing or empty.
func (s *Store) Append(ctx context.Context, t core.Transaction) error {
	if err := s.init(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &storage.AccessError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &storage.AccessError{Op: "open", Path: s.path, Err: err}
	}

	if s.needsNewline {
		if _, err := f.WriteString("\n"); err != nil {
			f.Close()
			return &storage.AccessError{Op: "write", Path: s.path, Err: err}
		}
	}

	w := csv.NewWriter(f)
	if s.needsHeader {
		if err := w.Write(storage.Header); err != nil {
			f.Close()
			return &storage.AccessError{Op: "write header", Path: s.path, Err: err}
		}
	}
	if err := w.Write(storage.RecordOf(t).Values()); err != nil {
		f.Close()
		return &storage.AccessError{Op: "write", Path: s.path, Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &storage.AccessError{Op: "write", Path: s.path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &storage.AccessError{Op: "sync", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &storage.AccessError{Op: "close", Path: s.path, Err: err}
	}

	s.needsHeader, s.needsNewline = false, false
	slog.DebugContext(ctx, "Transaction appended to ledger file",
		log.FieldPath, s.path,
		log.FieldKind, t.Kind,
		log.FieldAmount, t.Amount.String(),
		log.FieldCategory, t.Category)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// init decides once whether the header is still owed and whether the last
// row lacks its line terminator, as a truncated or hand-edited file may.
func (s *Store) init() error {
	if s.initialized {
		return nil
	}
	f, err := os.Open(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.needsHeader, s.initialized = true, true
		return nil
	case err != nil:
		return &storage.AccessError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &storage.AccessError{Op: "stat", Path: s.path, Err: err}
	}
	if info.Size() == 0 {
		s.needsHeader, s.initialized = true, true
		return nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return &storage.AccessError{Op: "read", Path: s.path, Err: err}
	}
	s.needsHeader = false
	s.needsNewline = last[0] != '\n'
	s.initialized = true
	return nil
}

func (s *Store) readError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &storage.MalformedRecordError{Line: pe.Line, Err: pe.Err}
	}
	return &storage.AccessError{Op: "read", Path: s.path, Err: err}
}

type columns map[string]int

func columnIndex(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	var missing []string
	for _, name := range storage.Header {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &storage.MalformedRecordError{
			Line: 1,
			Err:  fmt.Errorf("header missing column(s) %s; got %v", strings.Join(missing, ","), header),
		}
	}
	return cols, nil
}

func (c columns) record(rec []string) storage.Record {
	return storage.Record{
		Type:        rec[c[storage.ColType]],
		Amount:      rec[c[storage.ColAmount]],
		Description: rec[c[storage.ColDescription]],
		Category:    rec[c[storage.ColCategory]],
		Date:        rec[c[storage.ColDate]],
	}
}
