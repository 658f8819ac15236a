package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/query"
)

// Period names accepted by ResolvePeriod.
const (
	Week   = "week"
	Month  = "month"
	Year   = "year"
	Custom = "custom"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

// Period is a named, inclusive calendar-day interval.
type Period struct {
	Name  string
	Start core.Date
	End   core.Date
}

// Contains reports whether d falls within the period, both ends included.
func (p Period) Contains(d core.Date) bool {
	return p.Range().Contains(d)
}

// Range converts the period into filter criteria bounds.
func (p Period) Range() *query.Range {
	return &query.Range{Start: p.Start, End: p.End}
}

// Key identifies the period bounds, e.g. for caching.
func (p Period) Key() string {
	return p.Start.String() + ".." + p.End.String()
}

// ResolvePeriod returns the week, month or year containing now. The week
// begins on weekStart. Unknown names resolve to the month.
func ResolvePeriod(name string, now time.Time, weekStart time.Weekday) Period {
	today := core.DateOf(now)
	y, m, _ := today.Date()

	switch strings.ToLower(strings.TrimSpace(name)) {
	case Week:
		offset := (int(today.Weekday()) - int(weekStart) + 7) % 7
		start := core.Date{Time: today.AddDate(0, 0, -offset)}
		return Period{Name: Week, Start: start, End: core.Date{Time: start.AddDate(0, 0, 6)}}
	case Year:
		return Period{Name: Year, Start: core.NewDate(y, 1, 1), End: core.NewDate(y, 12, 31)}
	default:
		start := core.NewDate(y, int(m), 1)
		return Period{Name: Month, Start: start, End: core.Date{Time: start.AddMonths(1).AddDate(0, 0, -1)}}
	}
}

// CustomPeriod builds a period from explicit bounds.
func CustomPeriod(from, to core.Date) (Period, error) {
	r, err := query.NewRange(from, to)
	if err != nil {
		return Period{}, err
	}
	return Period{Name: Custom, Start: r.Start, End: r.End}, nil
}

// ParseWeekday maps an English weekday name to time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}
