package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ports"
	"fintrack/internal/storage/storetest"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.Store { return newTestRepo(t) })
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fintrack.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	tx := core.Transaction{ID: "t1", Category: "Food", Amount: core.Money{Cents: 100}, Date: core.NewDate(2026, 1, 1), Type: core.Expense}
	if err := repo.AppendTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen (migrations must be idempotent): %v", err)
	}
	defer repo.Close()
	got, err := repo.ListTransactions(ctx)
	if err != nil || len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestSQLiteDuplicateTransactionID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	tx := core.Transaction{ID: "dup", Amount: core.Money{Cents: 1}, Date: core.NewDate(2026, 1, 1), Type: core.Income}
	if err := repo.AppendTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendTransaction(ctx, tx); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"
	if got := SQLite.Rebind(q); got != q {
		t.Errorf("sqlite rebind changed query: %s", got)
	}
	if got := Postgres.Rebind(q); got != "INSERT INTO t (a, b) VALUES ($1, $2)" {
		t.Errorf("postgres rebind: %s", got)
	}
}
