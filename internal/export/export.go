// Package export writes the ledger in interchange formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"budget/internal/core"
	"budget/internal/storage"

	"gopkg.in/yaml.v3"
)

// Row is one exported transaction. Amounts keep full precision.
type Row struct {
	Type        string `json:"type" yaml:"type"`
	Amount      string `json:"amount" yaml:"amount"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Date        string `json:"date" yaml:"date"`
}

// Encoder turns rows into bytes in one format.
type Encoder interface {
	Encode(w io.Writer, rows []Row) error
}

type JSONEncoder struct{}

func (JSONEncoder) Encode(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

type YAMLEncoder struct{}

func (YAMLEncoder) Encode(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return err
	}
	return enc.Close()
}

// Formats lists the accepted --format values.
var Formats = []string{"json", "yaml"}

// EncoderFor returns the encoder for a format name ("yml" is accepted too).
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONEncoder{}, nil
	case "yaml", "yml":
		return YAMLEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q: must be one of %v", format, Formats)
	}
}

// Rows converts transactions in order, using the same text as the ledger file.
func Rows(txs []core.Transaction) []Row {
	rows := make([]Row, 0, len(txs))
	for _, t := range txs {
		r := storage.RecordOf(t)
		rows = append(rows, Row{
			Type:        r.Type,
			Amount:      r.Amount,
			Description: r.Description,
			Category:    r.Category,
			Date:        r.Date,
		})
	}
	return rows
}

// Write encodes txs to w in the named format.
func Write(w io.Writer, format string, txs []core.Transaction) error {
	enc, err := EncoderFor(format)
	if err != nil {
		return err
	}
	if err := enc.Encode(w, Rows(txs)); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
