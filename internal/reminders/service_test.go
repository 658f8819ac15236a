package reminders

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type fakeStore struct {
	mu        sync.Mutex
	reminders []core.Reminder
	saves     int
	loadErr   error
	saveErr   error
}

func (f *fakeStore) LoadReminders(context.Context) ([]core.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return slices.Clone(f.reminders), nil
}

func (f *fakeStore) SaveReminders(_ context.Context, rs []core.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.reminders = slices.Clone(rs)
	f.saves++
	return nil
}

func newTestService(store *fakeStore, now time.Time) *Service {
	s := NewService(store, log.Discard())
	s.now = func() time.Time { return now }
	return s
}

func validReminder() core.Reminder {
	return core.Reminder{
		Title:        "  Rent ",
		Amount:       core.Money{Cents: 95000},
		DueDate:      core.NewDate(2026, 2, 1),
		Recurrence:   core.Monthly,
		EmailEnabled: true,
		UserEmail:    "me@example.com",
	}
}

func TestServiceCreate(t *testing.T) {
	store := &fakeStore{}
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(store, now)

	in := validReminder()
	in.EmailSent = true
	r, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ID == "" || r.Title != "Rent" || r.EmailSent || !r.CreatedAt.Equal(now) {
		t.Fatalf("unexpected reminder %+v", r)
	}
	if len(store.reminders) != 1 || store.reminders[0].ID != r.ID {
		t.Fatalf("not persisted: %+v", store.reminders)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.Reminder)
		field  string
		want   error
	}{
		{"empty title", func(r *core.Reminder) { r.Title = "   " }, "title", core.ErrEmptyTitle},
		{"missing due date", func(r *core.Reminder) { r.DueDate = core.Date{} }, "dueDate", core.ErrInvalidDate},
		{"bad recurrence", func(r *core.Reminder) { r.Recurrence = "weekly" }, "recurrence", core.ErrInvalidRecurrence},
		{"bad email", func(r *core.Reminder) { r.UserEmail = "nope" }, "userEmail", core.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			in := validReminder()
			tt.mutate(&in)

			_, err := newTestService(store, time.Now()).Create(context.Background(), in)
			var ve *core.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field || !errors.Is(err, tt.want) {
				t.Fatalf("expected %s validation error, got %v", tt.field, err)
			}
			if store.saves != 0 {
				t.Fatal("invalid reminder must not be stored")
			}
		})
	}
}

func TestServiceCreateDefaultsToOnce(t *testing.T) {
	in := validReminder()
	in.Recurrence = ""
	r, err := newTestService(&fakeStore{}, time.Now()).Create(context.Background(), in)
	if err != nil || r.Recurrence != core.Once {
		t.Fatalf("got %+v, %v", r, err)
	}
}

func TestServiceUpdateResetsSent(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{reminders: []core.Reminder{
		{ID: "r1", Title: "Rent", DueDate: core.NewDate(2026, 1, 1), Recurrence: core.Once, EmailSent: true, CreatedAt: created},
	}}
	svc := newTestService(store, time.Now())

	upd := validReminder()
	upd.ID = "ignored"
	r, err := svc.Update(context.Background(), "r1", upd)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.ID != "r1" || r.EmailSent || !r.CreatedAt.Equal(created) || r.Title != "Rent" {
		t.Fatalf("unexpected update %+v", r)
	}

	if _, err := svc.Update(context.Background(), "missing", upd); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	store := &fakeStore{reminders: []core.Reminder{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	svc := newTestService(store, time.Now())

	if err := svc.Delete(context.Background(), "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.reminders) != 2 || store.reminders[0].ID != "a" || store.reminders[1].ID != "c" {
		t.Fatalf("unexpected remaining %+v", store.reminders)
	}
	if err := svc.Delete(context.Background(), "b"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceMarkSent(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		recurrence core.Recurrence
		rollover   bool
		wantSent   bool
		wantDue    string
	}{
		{"terminal by default", core.Monthly, false, true, "2026-01-31"},
		{"one-time ignores rollover", core.Once, true, true, "2026-01-31"},
		{"monthly rolls to next future date", core.Monthly, true, false, "2026-03-31"},
		{"quarterly rolls", core.Quarterly, true, false, "2026-04-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{reminders: []core.Reminder{{ID: "r1", DueDate: core.NewDate(2026, 1, 31), Recurrence: tt.recurrence}}}
			r, err := newTestService(store, now).MarkSent(context.Background(), "r1", tt.rollover)
			if err != nil {
				t.Fatalf("MarkSent: %v", err)
			}
			if r.EmailSent != tt.wantSent || r.DueDate.String() != tt.wantDue {
				t.Fatalf("got sent=%v due=%s", r.EmailSent, r.DueDate)
			}
		})
	}
}

func TestServiceLoadError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := newTestService(&fakeStore{loadErr: boom}, time.Now()).List(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}
