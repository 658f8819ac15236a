package reminders

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// Stepper computes the nth occurrence after a due date. Stepping n periods
// at once keeps the original day of month where an earlier step clamped it.
type Stepper interface {
	Next(due core.Date, n int) core.Date
}

// MonthStep advances by a fixed number of months, clamping the day to the
// end of the target month.
type MonthStep struct {
	Months int
}

func (s MonthStep) Next(due core.Date, n int) core.Date {
	return due.AddMonths(s.Months * n)
}

// steppers maps recurring kinds to their step. One-time reminders have none.
var steppers = map[core.Recurrence]Stepper{
	core.Monthly:   MonthStep{Months: 1},
	core.Quarterly: MonthStep{Months: 3},
	core.Yearly:    MonthStep{Months: 12},
}

// GetStepper returns the stepper for a recurring kind.
func GetStepper(r core.Recurrence) (Stepper, error) {
	s, ok := steppers[r]
	if !ok {
		return nil, fmt.Errorf("%w: %q does not repeat", core.ErrInvalidRecurrence, r)
	}
	return s, nil
}

// NextDueDate returns the first occurrence of r after the day of now,
// and false for one-time reminders. Each occurrence is stepped from the
// original due date so a month-end day is not lost to earlier clamping.
func NextDueDate(r core.Reminder, now time.Time) (core.Date, bool) {
	step, err := GetStepper(r.Recurrence)
	if err != nil {
		return core.Date{}, false
	}
	n := 1
	due := step.Next(r.DueDate, n)
	for DaysUntil(due, now) <= 0 {
		n++
		due = step.Next(r.DueDate, n)
	}
	return due, true
}
