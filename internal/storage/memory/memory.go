// Package memory provides the in-process store and the JSON file store.
package memory

import (
	"context"
	"slices"
	"sync"

	"fintrack/internal/core"
)

// Store keeps everything in memory. Reads return copies so callers can
// modify results freely.
type Store struct {
	mu           sync.RWMutex
	transactions []core.Transaction
	reminders    []core.Reminder
	users        []core.User
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) ListTransactions(context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.transactions)), nil
}

func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return nil
}

func (s *Store) LoadReminders(context.Context) ([]core.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.reminders)), nil
}

func (s *Store) SaveReminders(_ context.Context, rs []core.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = slices.Clone(rs)
	return nil
}

func (s *Store) LoadUsers(context.Context) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.users)), nil
}

func (s *Store) SaveUsers(_ context.Context, us []core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = slices.Clone(us)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
