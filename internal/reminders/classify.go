// Package reminders classifies payment reminders by urgency, manages the
// reminder collection and runs the notification scheduler.
package reminders

import (
	"time"

	"fintrack/internal/core"
)

// DueSoonDays is the inclusive horizon for DueSoon.
const DueSoonDays = 3

// Urgency is the display bucket of a reminder relative to today.
type Urgency string

const (
	Overdue  Urgency = "overdue"
	DueSoon  Urgency = "due_soon"
	Upcoming Urgency = "upcoming"

	// InvalidDate marks a stored reminder whose due date could not be read.
	InvalidDate Urgency = "invalid_date"
)

// DaysUntil counts whole calendar days from now's date to due. Time of day
// is ignored on both sides.
func DaysUntil(due core.Date, now time.Time) int {
	return core.DateOf(now).DaysUntil(due)
}

// Classify buckets r: overdue before today, due soon within DueSoonDays,
// upcoming after that.
func Classify(r core.Reminder, now time.Time) Urgency {
	if r.HasMalformedDueDate() {
		return InvalidDate
	}
	return urgencyFor(DaysUntil(r.DueDate, now))
}

func urgencyFor(days int) Urgency {
	switch {
	case days < 0:
		return Overdue
	case days <= DueSoonDays:
		return DueSoon
	default:
		return Upcoming
	}
}

// IsNotificationDue reports whether r should be notified now: email is on,
// nothing was sent yet and the due date has been reached. A reminder
// without a readable due date is never due.
func IsNotificationDue(r core.Reminder, now time.Time) bool {
	if r.HasMalformedDueDate() {
		return false
	}
	return r.EmailEnabled && !r.EmailSent && DaysUntil(r.DueDate, now) <= 0
}

// Status is the reminder as shown in lists. DaysUntil is zero for
// InvalidDate.
type Status struct {
	core.Reminder
	DaysUntil int
	Urgency   Urgency
}

// Describe computes the list view of every reminder, preserving order.
func Describe(rs []core.Reminder, now time.Time) []Status {
	out := make([]Status, 0, len(rs))
	for _, r := range rs {
		if r.HasMalformedDueDate() {
			out = append(out, Status{Reminder: r, Urgency: InvalidDate})
			continue
		}
		days := DaysUntil(r.DueDate, now)
		out = append(out, Status{Reminder: r, DaysUntil: days, Urgency: urgencyFor(days)})
	}
	return out
}
