package memory

import (
	"context"
	"testing"

	"fintrack/internal/core"
)

func TestExporterReplacesSheet(t *testing.T) {
	e := New()
	ctx := context.Background()

	first := []core.Transaction{
		{ID: "a", Type: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2026, 1, 1)},
		{ID: "b", Type: core.Expense, Amount: core.Money{Cents: 200}, Date: core.NewDate(2026, 1, 2)},
	}
	res, err := e.ExportTransactions(ctx, first)
	if err != nil || res.Rows != 2 || res.Range != "mem!A1:G3" {
		t.Fatalf("first export: %+v (err=%v)", res, err)
	}

	if _, err := e.ExportTransactions(ctx, first[:1]); err != nil {
		t.Fatal(err)
	}
	rows := e.Rows()
	if len(rows) != 2 || rows[1][6] != "a" {
		t.Fatalf("second export should replace the sheet, got %v", rows)
	}
	if e.Exports() != 2 {
		t.Errorf("exports = %d", e.Exports())
	}

	rows[0][0] = "mutated"
	if e.Rows()[0][0] != "date" {
		t.Error("Rows must return a copy")
	}
}

func TestExporterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().ExportTransactions(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
}
