// Package notify turns due reminders into messages and delivers them over
// the configured channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

const dueDateLayout = "January 02, 2006"

// ErrNotConfigured is returned by senders that have no delivery channel.
// The reminder stays pending.
var ErrNotConfigured = errors.New("notification channel not configured")

// Message is a rendered reminder notification.
type Message struct {
	ReminderID  string `json:"reminder_id"`
	To          string `json:"to"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Recurrence  string `json:"recurrence"`
}

// Notifier delivers a message.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

func (f NotifierFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// FromReminder renders the notification for r.
func FromReminder(r core.Reminder) Message {
	return Message{
		ReminderID:  r.ID,
		To:          r.UserEmail,
		Title:       r.Title,
		Description: r.Description,
		Amount:      FormatAmount(r.Amount),
		DueDate:     FormatDueDate(r.DueDate),
		Recurrence:  r.Recurrence.Label(),
	}
}

// FormatAmount renders m as "$1,234.50", or "N/A" when no amount was set.
func FormatAmount(m core.Money) string {
	if m.Cents == 0 {
		return "N/A"
	}
	sign := ""
	if m.Cents < 0 {
		sign = "-"
	}
	f, _ := m.Decimal().Abs().Float64()
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// FormatDueDate renders d as "January 02, 2006".
func FormatDueDate(d core.Date) string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format(dueDateLayout)
}

// Subject is the one-line summary used by email and chat senders.
func (m Message) Subject() string {
	return "Payment reminder: " + m.Title
}

// Body renders the plain-text notification body.
func (m Message) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", m.Title)
	if m.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", m.Description)
	}
	fmt.Fprintf(&b, "Amount: %s\n", m.Amount)
	fmt.Fprintf(&b, "Due date: %s\n", m.DueDate)
	fmt.Fprintf(&b, "Recurrence: %s\n", m.Recurrence)
	return b.String()
}

// LogSender logs the message instead of delivering it and reports
// ErrNotConfigured.
type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	return &LogSender{logger: logger.WithComponent(log.ComponentNotify)}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.WarnContext(ctx, "No notification channel configured, reminder left pending",
		log.FieldReminderID, msg.ReminderID,
		"to", msg.To,
		"subject", msg.Subject())
	return ErrNotConfigured
}
