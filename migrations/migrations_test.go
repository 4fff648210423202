package migrations

import (
	"strings"
	"testing"

	"subtracker/internal/money"

	"github.com/shopspring/decimal"
)

func TestFilesAreOrdered(t *testing.T) {
	names, err := Files()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) == 0 || names[0] != "0001_init.sql" {
		t.Fatalf("unexpected files: %v", names)
	}
}

func TestUpStatementsStopAtDownMarker(t *testing.T) {
	statements, err := UpStatements("0001_init.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(statements, "\n")
	if strings.Contains(joined, "DROP TABLE") {
		t.Fatal("down statements must not be applied")
	}
	for _, table := range []string{"users", "subscriptions", "archived_subscriptions", "exchange_rates", "audit_logs"} {
		if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestSplitSQLSkipsComments(t *testing.T) {
	statements := splitSQL("-- header\nCREATE TABLE a (\n  id INT\n);\n\nSELECT 1;\n")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if statements[1] != "SELECT 1;" {
		t.Fatalf("unexpected statement: %q", statements[1])
	}
}

func TestAmountColumnsHoldValidatedPrices(t *testing.T) {
	statements, err := UpStatements("0001_init.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(statements, "\n")
	// NUMERIC(12, 2) tops out at 9999999999.99.
	if !strings.Contains(joined, "price NUMERIC(12, 2)") || money.MaxAmount.String() != "9999999999.99" {
		t.Fatalf("price column and money.MaxAmount disagree")
	}
	// A century of monthly billing at the maximum price must fit total_spent.
	if !strings.Contains(joined, "total_spent NUMERIC(20, 2)") {
		t.Fatal("total_spent column too narrow")
	}
	century := money.MaxAmount.Mul(decimal.NewFromInt(1200))
	if len(century.Truncate(0).String()) > 18 {
		t.Fatalf("total %s exceeds NUMERIC(20, 2)", century)
	}
}
