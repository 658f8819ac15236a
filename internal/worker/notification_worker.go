// Package worker delivers reminder notifications taken off the queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
	"fintrack/internal/notify"
)

// Config tunes the notification worker.
type Config struct {
	// MaxAge drops messages queued longer than this. Zero keeps all.
	MaxAge time.Duration
	// RetryDelay paces redelivery after a failed send, since the broker
	// requeues immediately.
	RetryDelay time.Duration
}

func DefaultConfig() Config {
	return Config{MaxAge: 7 * 24 * time.Hour, RetryDelay: 5 * time.Second}
}

// NotificationWorker hands queued notifications to a delivery channel.
type NotificationWorker struct {
	sender notify.Notifier
	config Config
	logger *log.Logger
	now    func() time.Time

	delivered int64
	dropped   int64
	failed    int64
}

func NewNotificationWorker(sender notify.Notifier, config Config, logger *log.Logger) *NotificationWorker {
	return &NotificationWorker{
		sender: sender,
		config: config,
		logger: logger.WithComponent(log.ComponentNotify),
		now:    time.Now,
	}
}

// HandleReminderNotification delivers one message. A nil return acks it;
// an error requeues it.
func (w *NotificationWorker) HandleReminderNotification(ctx context.Context, msg *amqp.ReminderNotificationMessage) error {
	logger := w.logger.With(log.FieldReminderID, msg.ReminderID)

	if msg.ReminderID == "" {
		atomic.AddInt64(&w.dropped, 1)
		logger.WarnContext(ctx, "Dropping notification without reminder id")
		return nil
	}
	if w.config.MaxAge > 0 && !msg.Timestamp.IsZero() && w.now().Sub(msg.Timestamp) > w.config.MaxAge {
		atomic.AddInt64(&w.dropped, 1)
		logger.WarnContext(ctx, "Dropping stale notification", "queued_at", msg.Timestamp)
		return nil
	}

	err := w.sender.Send(ctx, msg.Message)
	switch {
	case err == nil:
		atomic.AddInt64(&w.delivered, 1)
		logger.InfoContext(ctx, "Notification delivered", log.FieldOperation, log.OpNotify)
		return nil
	case errors.Is(err, notify.ErrNotConfigured):
		atomic.AddInt64(&w.dropped, 1)
		return nil
	}

	atomic.AddInt64(&w.failed, 1)
	if w.config.RetryDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(w.config.RetryDelay):
		}
	}
	return fmt.Errorf("deliver reminder %s: %w", msg.ReminderID, err)
}

// Stats reports delivered, dropped and failed counts.
type Stats struct {
	Delivered int64
	Dropped   int64
	Failed    int64
}

func (w *NotificationWorker) Stats() Stats {
	return Stats{
		Delivered: atomic.LoadInt64(&w.delivered),
		Dropped:   atomic.LoadInt64(&w.dropped),
		Failed:    atomic.LoadInt64(&w.failed),
	}
}
