package google

import (
	"context"
	"errors"
	"strings"
	"testing"

	"budget/internal/config"
	"budget/internal/core"

	"github.com/shopspring/decimal"
)

func TestNewFromConfig_MissingSpreadsheetID(t *testing.T) {
	_, err := NewFromConfig(context.Background(), &config.Config{})
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFromConfig_MissingCredentials(t *testing.T) {
	_, err := NewFromConfig(context.Background(), &config.Config{GoogleSpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing Google credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestNewFromConfig_InvalidOAuthClient(t *testing.T) {
	// Fails on the client JSON before any network access.
	_, err := NewFromConfig(context.Background(), &config.Config{
		GoogleSpreadsheetID:   "id",
		GoogleOAuthClientJSON: "invalid-json",
		GoogleOAuthTokenJSON:  `{"access_token":"test"}`,
	})
	if err == nil || !strings.Contains(err.Error(), "oauth config") {
		t.Fatalf("expected oauth config error, got %v", err)
	}
}

func TestNewFromConfig_MissingServiceAccountFile(t *testing.T) {
	_, err := NewFromConfig(context.Background(), &config.Config{
		GoogleSpreadsheetID:      "id",
		GoogleServiceAccountFile: "/non/existent/sa.json",
	})
	if err == nil || !strings.Contains(err.Error(), "read service account") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestClient_AppendValidatesFirst(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: "Transactions"} // svc is nil

	_, err := c.Append(context.Background(), core.Transaction{Kind: "refund", Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}

	_, err = c.Append(context.Background(), core.Transaction{Kind: core.Income, Amount: decimal.NewFromInt(1), Category: core.IncomeCategory})
	if err == nil || err.Error() != "sheets service not initialized" {
		t.Fatalf("expected uninitialized service error, got %v", err)
	}
}

func TestToRow(t *testing.T) {
	row := toRow(core.Transaction{
		Kind:        core.Expense,
		Amount:      decimal.RequireFromString("50.25"),
		Description: "Lunch",
		Category:    "Food",
		Date:        "2025-01-01 13:00:00",
	})
	want := []any{"expense", "50.25", "Lunch", "Food", "2025-01-01 13:00:00"}
	if len(row) != len(want) {
		t.Fatalf("row length %d, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d: got %v, want %v", i, row[i], want[i])
		}
	}
}

func TestToRow_TextIsNeverAFormula(t *testing.T) {
	row := toRow(core.Transaction{
		Kind:        core.Expense,
		Amount:      decimal.RequireFromString("10"),
		Description: `=HYPERLINK("http://example.com")`,
		Category:    "+Food",
		Date:        "2025-01-01 13:00:00",
	})
	if row[2] != `'=HYPERLINK("http://example.com")` {
		t.Errorf("description not quoted: %v", row[2])
	}
	if row[3] != "'+Food" {
		t.Errorf("category not quoted: %v", row[3])
	}
	if row[1] != "10" {
		t.Errorf("amount must stay numeric text, got %v", row[1])
	}

	tests := map[string]string{
		"":        "",
		"Lunch":   "Lunch",
		"-5 off":  "'-5 off",
		"@home":   "'@home",
		"'quoted": "''quoted",
	}
	for in, want := range tests {
		if got := literal(in); got != want {
			t.Errorf("literal(%q) = %q, want %q", in, got, want)
		}
	}
}
