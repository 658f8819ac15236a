package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
)

// Namespace prefixes every data file name.
const Namespace = "fintrack"

const (
	transactionsFile = Namespace + "_transactions.json"
	remindersFile    = Namespace + "_reminders.json"
	usersFile        = Namespace + "_users.json"
)

// FileStore persists each collection as a JSON array in its own file.
// Writes go to a temp file that is renamed over the original.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string { return s.dir }

type transactionRecord struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Source   string `json:"source"`
	Amount   int64  `json:"amount_cents"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
}

type reminderRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Amount       int64     `json:"amount_cents"`
	DueDate      string    `json:"due_date"`
	Recurrence   string    `json:"recurrence"`
	EmailEnabled bool      `json:"email_enabled"`
	UserEmail    string    `json:"user_email"`
	EmailSent    bool      `json:"email_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *FileStore) ListTransactions(context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []transactionRecord
	if err := s.read(transactionsFile, &recs); err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, core.Transaction{
			ID:       r.ID,
			Category: r.Category,
			Source:   r.Source,
			Amount:   core.Money{Cents: r.Amount},
			Date:     core.DateOrZero(r.Date),
			Time:     r.Time,
			Type:     core.TxType(r.Type),
		})
	}
	return out, nil
}

func (s *FileStore) AppendTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []transactionRecord
	if err := s.read(transactionsFile, &recs); err != nil {
		return err
	}
	recs = append(recs, transactionRecord{
		ID:       t.ID,
		Category: t.Category,
		Source:   t.Source,
		Amount:   t.Amount.Cents,
		Date:     t.Date.String(),
		Time:     t.Time,
		Type:     string(t.Type),
	})
	return s.write(transactionsFile, recs)
}

func (s *FileStore) LoadReminders(context.Context) ([]core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []reminderRecord
	if err := s.read(remindersFile, &recs); err != nil {
		return nil, err
	}
	out := make([]core.Reminder, 0, len(recs))
	for _, r := range recs {
		rem := core.Reminder{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Amount:       core.Money{Cents: r.Amount},
			Recurrence:   core.Recurrence(r.Recurrence),
			EmailEnabled: r.EmailEnabled,
			UserEmail:    r.UserEmail,
			EmailSent:    r.EmailSent,
			CreatedAt:    r.CreatedAt,
		}
		rem.SetDueDateText(r.DueDate)
		out = append(out, rem)
	}
	return out, nil
}

func (s *FileStore) SaveReminders(_ context.Context, rs []core.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]reminderRecord, 0, len(rs))
	for _, r := range rs {
		recs = append(recs, reminderRecord{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Amount:       r.Amount.Cents,
			DueDate:      r.DueDateText(),
			Recurrence:   string(r.Recurrence),
			EmailEnabled: r.EmailEnabled,
			UserEmail:    r.UserEmail,
			EmailSent:    r.EmailSent,
			CreatedAt:    r.CreatedAt,
		})
	}
	return s.write(remindersFile, recs)
}

func (s *FileStore) LoadUsers(context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []userRecord
	if err := s.read(usersFile, &recs); err != nil {
		return nil, err
	}
	out := make([]core.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, core.User(r))
	}
	return out, nil
}

func (s *FileStore) SaveUsers(_ context.Context, us []core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]userRecord, 0, len(us))
	for _, u := range us {
		recs = append(recs, userRecord(u))
	}
	return s.write(usersFile, recs)
}

func (s *FileStore) Ping(context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *FileStore) Close() error { return nil }

// read decodes name into v. A missing or blank file leaves v empty.
func (s *FileStore) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
