package reminders

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/ports"
)

// Service owns the reminder collection. Every read-modify-write of the
// store goes through mu, so the collection has a single writer.
type Service struct {
	store  ports.ReminderStore
	logger *log.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewService creates a reminder service over store.
func NewService(store ports.ReminderStore, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithComponent(log.ComponentReminders),
		now:    time.Now,
	}
}

// List returns every reminder in creation order.
func (s *Service) List(ctx context.Context) ([]core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load(ctx)
	if err != nil {
		return core.Reminder{}, err
	}
	i := indexOf(rs, id)
	if i < 0 {
		return core.Reminder{}, fmt.Errorf("reminder %s: %w", id, core.ErrNotFound)
	}
	return rs[i], nil
}

// Create validates r, assigns id and creation time, and stores it as
// pending.
func (s *Service) Create(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	r = clean(r)
	r.ID = core.NewID()
	r.CreatedAt = s.now().UTC()
	r.EmailSent = false
	if err := r.Validate(); err != nil {
		return core.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load(ctx)
	if err != nil {
		return core.Reminder{}, err
	}
	if err := s.store.SaveReminders(ctx, append(rs, r)); err != nil {
		return core.Reminder{}, fmt.Errorf("save reminders: %w", err)
	}
	s.logger.InfoContext(ctx, "Reminder created", log.FieldReminderID, r.ID, "due_date", r.DueDate.String())
	return r, nil
}

// Update replaces the reminder with the given id. Identity and creation
// time are kept; the notification status is reset to pending.
func (s *Service) Update(ctx context.Context, id string, r core.Reminder) (core.Reminder, error) {
	r = clean(r)
	r.EmailSent = false
	if err := r.Validate(); err != nil {
		return core.Reminder{}, err
	}

	var updated core.Reminder
	err := s.modify(ctx, id, func(rs []core.Reminder, i int) ([]core.Reminder, error) {
		r.ID = rs[i].ID
		r.CreatedAt = rs[i].CreatedAt
		rs[i] = r
		updated = r
		return rs, nil
	})
	if err != nil {
		return core.Reminder{}, err
	}
	s.logger.InfoContext(ctx, "Reminder updated", log.FieldReminderID, id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.modify(ctx, id, func(rs []core.Reminder, i int) ([]core.Reminder, error) {
		return slices.Delete(rs, i, i+1), nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Reminder deleted", log.FieldReminderID, id)
	return nil
}

// MarkSent records a successful notification. With rollover, a recurring
// reminder instead moves to its next future occurrence and stays pending.
func (s *Service) MarkSent(ctx context.Context, id string, rollover bool) (core.Reminder, error) {
	var marked core.Reminder
	err := s.modify(ctx, id, func(rs []core.Reminder, i int) ([]core.Reminder, error) {
		r := rs[i]
		r.EmailSent = true
		if rollover {
			if next, ok := NextDueDate(r, s.now()); ok {
				r.DueDate = next
				r.EmailSent = false
			}
		}
		rs[i] = r
		marked = r
		return rs, nil
	})
	return marked, err
}

func (s *Service) modify(ctx context.Context, id string, fn func(rs []core.Reminder, i int) ([]core.Reminder, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(rs, id)
	if i < 0 {
		return fmt.Errorf("reminder %s: %w", id, core.ErrNotFound)
	}
	rs, err = fn(rs, i)
	if err != nil {
		return err
	}
	if err := s.store.SaveReminders(ctx, rs); err != nil {
		return fmt.Errorf("save reminders: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context) ([]core.Reminder, error) {
	rs, err := s.store.LoadReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	return rs, nil
}

func indexOf(rs []core.Reminder, id string) int {
	return slices.IndexFunc(rs, func(r core.Reminder) bool { return r.ID == id })
}

func clean(r core.Reminder) core.Reminder {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.UserEmail = strings.TrimSpace(r.UserEmail)
	if r.Recurrence == "" {
		r.Recurrence = core.Once
	}
	return r
}
