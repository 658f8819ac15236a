// Package ports declares the storage contracts the application depends on.
package ports

import (
	"context"

	"fintrack/internal/core"
)

// TransactionStore persists the append-only transaction ledger.
type TransactionStore interface {
	// ListTransactions returns every transaction in insertion order.
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	AppendTransaction(ctx context.Context, t core.Transaction) error
}

// ReminderStore persists the reminder collection as a whole. Load returns
// the last saved sequence verbatim, or an empty one. Save replaces it
// atomically.
type ReminderStore interface {
	LoadReminders(ctx context.Context) ([]core.Reminder, error)
	SaveReminders(ctx context.Context, reminders []core.Reminder) error
}

// UserStore persists registered users with the same whole-set contract as
// ReminderStore.
type UserStore interface {
	LoadUsers(ctx context.Context) ([]core.User, error)
	SaveUsers(ctx context.Context, users []core.User) error
}

// Store is implemented by every backend.
type Store interface {
	TransactionStore
	ReminderStore
	UserStore
	Ping(ctx context.Context) error
	Close() error
}
