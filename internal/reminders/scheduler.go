package reminders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/notify"
)

// SchedulerConfig holds configuration for the reminder scheduler
type SchedulerConfig struct {
	// Interval between passes (default: 1h)
	Interval time.Duration

	// MaxAttempts bounds failed deliveries per reminder per process.
	// Zero retries forever.
	MaxAttempts int

	// Rollover advances recurring reminders after a successful send.
	Rollover bool
}

// DefaultSchedulerConfig returns the hourly, unbounded, no-rollover setup.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{Interval: time.Hour}
}

// RunResult counts what one pass did.
type RunResult struct {
	Checked int
	Due     int
	Sent    int
	Failed  int
	Skipped int

	// Malformed counts pending reminders left alone because their stored
	// due date could not be read.
	Malformed int
}

// Scheduler periodically notifies due reminders. Every pass re-evaluates
// IsNotificationDue over the whole collection, so a missed tick only delays
// a notification and EmailSent prevents duplicates.
type Scheduler struct {
	service  *Service
	notifier notify.Notifier
	config   SchedulerConfig
	logger   *log.Logger
	now      func() time.Time

	passMu   sync.Mutex
	attempts map[string]int

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates a scheduler. A non-positive interval falls back to
// the default.
func NewScheduler(service *Service, notifier notify.Notifier, config SchedulerConfig, logger *log.Logger) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultSchedulerConfig().Interval
	}
	return &Scheduler{
		service:  service,
		notifier: notifier,
		config:   config,
		logger:   logger.WithComponent(log.ComponentReminders),
		now:      time.Now,
		attempts: make(map[string]int),
	}
}

// Start begins the polling loop. Returns an error if already running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("reminder scheduler is already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.runLoop(ctx)

	s.logger.InfoContext(ctx, "Reminder scheduler started",
		"interval", s.config.Interval,
		"max_attempts", s.config.MaxAttempts,
		"rollover", s.config.Rollover)
	return nil
}

// Stop signals the loop and waits for the current pass to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	select {
	case <-stopCh:
	default:
		close(stopCh)
	}

	select {
	case <-doneCh:
		s.logger.InfoContext(ctx, "Reminder scheduler stopped gracefully")
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "Reminder scheduler stop timed out")
		return ctx.Err()
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return nil
}

// IsRunning returns whether the loop is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Reminder pass failed", log.FieldError, err)
	}
}

// RunOnce performs a single pass: every due reminder is sent and, on
// success, marked sent. Delivery failures leave the reminder pending.
func (s *Scheduler) RunOnce(ctx context.Context) (RunResult, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	var res RunResult
	rs, err := s.service.List(ctx)
	if err != nil {
		return res, err
	}
	now := s.now()
	res.Checked = len(rs)

	for _, r := range rs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if r.HasMalformedDueDate() {
			if r.EmailEnabled && !r.EmailSent {
				res.Malformed++
				s.logger.WarnContext(ctx, "Skipping reminder with unreadable due date",
					log.FieldReminderID, r.ID,
					log.FieldError, fmt.Errorf("%w: due date %q", core.ErrMalformedRecord, r.RawDueDate))
			}
			continue
		}
		if !IsNotificationDue(r, now) {
			continue
		}
		res.Due++

		if s.config.MaxAttempts > 0 && s.attempts[r.ID] >= s.config.MaxAttempts {
			res.Skipped++
			continue
		}

		if err := s.notifier.Send(ctx, notify.FromReminder(r)); err != nil {
			s.attempts[r.ID]++
			res.Failed++
			s.logFailure(ctx, r.ID, err)
			continue
		}

		if _, err := s.service.MarkSent(ctx, r.ID, s.config.Rollover); err != nil {
			res.Failed++
			s.logger.ErrorContext(ctx, "Notification sent but status not saved",
				log.FieldReminderID, r.ID, log.FieldError, err)
			continue
		}
		delete(s.attempts, r.ID)
		res.Sent++
		s.logger.InfoContext(ctx, "Reminder notification sent", log.FieldReminderID, r.ID)
	}

	if res.Due > 0 || res.Malformed > 0 {
		s.logger.InfoContext(ctx, "Reminder pass complete",
			"checked", res.Checked, "due", res.Due, "sent", res.Sent,
			"failed", res.Failed, log.FieldSkipped, res.Skipped, "malformed", res.Malformed)
	}
	return res, nil
}

func (s *Scheduler) logFailure(ctx context.Context, id string, err error) {
	attempt := s.attempts[id]
	if errors.Is(err, notify.ErrNotConfigured) {
		s.logger.WarnContext(ctx, "Reminder left pending",
			log.FieldReminderID, id, log.FieldAttempt, attempt, log.FieldError, err)
		return
	}
	s.logger.ErrorContext(ctx, "Reminder notification failed",
		log.FieldReminderID, id, log.FieldAttempt, attempt, log.FieldError, err)
	if s.config.MaxAttempts > 0 && attempt >= s.config.MaxAttempts {
		s.logger.ErrorContext(ctx, "Reminder notification gave up after max attempts",
			log.FieldReminderID, id, "attempts", attempt)
	}
}
