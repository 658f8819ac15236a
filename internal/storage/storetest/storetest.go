// Package storetest holds the behaviour every ports.Store must share.
package storetest

import (
	"context"
	"reflect"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

// Run exercises store contracts against fresh stores from newStore.
func Run(t *testing.T, newStore func(t *testing.T) ports.Store) {
	t.Run("empty store", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		txs, err := s.ListTransactions(ctx)
		if err != nil || txs == nil || len(txs) != 0 {
			t.Fatalf("transactions: %v, %v", txs, err)
		}
		rs, err := s.LoadReminders(ctx)
		if err != nil || rs == nil || len(rs) != 0 {
			t.Fatalf("reminders: %v, %v", rs, err)
		}
		us, err := s.LoadUsers(ctx)
		if err != nil || us == nil || len(us) != 0 {
			t.Fatalf("users: %v, %v", us, err)
		}
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})

	t.Run("transactions append in order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := []core.Transaction{
			{ID: "t1", Source: "Salary", Amount: core.Money{Cents: 100000}, Date: core.NewDate(2026, 1, 1), Time: "09:00", Type: core.Income},
			{ID: "t2", Category: "Food", Amount: core.Money{Cents: 1550}, Date: core.NewDate(2025, 12, 31), Type: core.Expense},
		}
		for _, tx := range want {
			if err := s.AppendTransaction(ctx, tx); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		got, err := s.ListTransactions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("reminders round trip and replace", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		first := []core.Reminder{
			{ID: "r1", Title: "Rent", Description: "flat", Amount: core.Money{Cents: 95000}, DueDate: core.NewDate(2026, 2, 1),
				Recurrence: core.Monthly, EmailEnabled: true, UserEmail: "a@b.co", CreatedAt: created},
			{ID: "r2", Title: "Tax", DueDate: core.NewDate(2026, 4, 30), Recurrence: core.Once, EmailSent: true, CreatedAt: created},
		}
		if err := s.SaveReminders(ctx, first); err != nil {
			t.Fatal(err)
		}
		got, err := s.LoadReminders(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !sameReminders(got, first) {
			t.Fatalf("got %+v, want %+v", got, first)
		}

		second := []core.Reminder{first[1]}
		if err := s.SaveReminders(ctx, second); err != nil {
			t.Fatal(err)
		}
		got, _ = s.LoadReminders(ctx)
		if !sameReminders(got, second) {
			t.Fatalf("save should replace the whole set, got %+v", got)
		}
	})

	t.Run("unparseable due date survives save", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		bad := []core.Reminder{{ID: "r1", Title: "Rent", RawDueDate: "2026-02-30", Recurrence: core.Monthly, EmailEnabled: true, UserEmail: "a@b.co"}}
		if err := s.SaveReminders(ctx, bad); err != nil {
			t.Fatal(err)
		}
		got, err := s.LoadReminders(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || !got[0].HasMalformedDueDate() || got[0].RawDueDate != "2026-02-30" {
			t.Fatalf("raw due date lost: %+v", got)
		}
	})

	t.Run("users round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := []core.User{{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}}
		if err := s.SaveUsers(ctx, want); err != nil {
			t.Fatal(err)
		}
		got, err := s.LoadUsers(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Email != want[0].Email || !got[0].CreatedAt.Equal(want[0].CreatedAt) {
			t.Fatalf("got %+v", got)
		}
	})
}

func sameReminders(a, b []core.Reminder) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return false
		}
		x.CreatedAt, y.CreatedAt = time.Time{}, time.Time{}
		if !reflect.DeepEqual(x, y) {
			return false
		}
	}
	return true
}
