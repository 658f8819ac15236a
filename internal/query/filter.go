// Package query implements the transaction filter used by the transaction
// list, the export endpoints and the analytics period scoping.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"fintrack/internal/core"
)

// All is the sentinel accepted for the type and month criteria.
const All = "all"

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Range is an inclusive calendar-day interval.
type Range struct {
	Start core.Date
	End   core.Date
}

// Contains reports whether d falls within [Start, End].
func (r Range) Contains(d core.Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}

// Criteria selects transactions. The zero value matches everything.
type Criteria struct {
	Search string
	Type   core.TxType // empty means all types
	Month  time.Month  // 0 means all months
	Range  *Range
}

// IsPeriodScoped reports whether the criteria depend on transaction dates.
func (c Criteria) IsPeriodScoped() bool {
	return c.Month != 0 || c.Range != nil
}

// ParseCriteria builds Criteria from raw user input. Type and month accept
// the "all" sentinel; month names are English and case-insensitive.
func ParseCriteria(search, typ, month string) (Criteria, error) {
	c := Criteria{Search: strings.TrimSpace(search)}

	if typ = strings.TrimSpace(typ); typ != "" && !strings.EqualFold(typ, All) {
		t, err := core.ParseTxType(typ)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: type %q", ErrInvalidCriteria, typ)
		}
		c.Type = t
	}

	if month = strings.TrimSpace(month); month != "" && !strings.EqualFold(month, All) {
		m, ok := ParseMonth(month)
		if !ok {
			return Criteria{}, fmt.Errorf("%w: month %q", ErrInvalidCriteria, month)
		}
		c.Month = m
	}
	return c, nil
}

// ParseMonth maps an English month name ("january", "March") to time.Month.
func ParseMonth(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}

// NewRange validates that start is not after end.
func NewRange(start, end core.Date) (*Range, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: range needs both start and end", ErrInvalidCriteria)
	}
	if start.After(end.Time) {
		return nil, fmt.Errorf("%w: range start %s after end %s", ErrInvalidCriteria, start, end)
	}
	return &Range{Start: start, End: end}, nil
}

// Filter returns the records matching every active criterion, in input
// order. Records without a usable date are dropped from period-scoped
// queries and reported in skipped, wrapping core.ErrMalformedRecord.
func Filter(records []core.Transaction, c Criteria) (matched []core.Transaction, skipped []error) {
	fold := cases.Fold() // a Caser must not be shared between goroutines
	needle := fold.String(c.Search)
	matched = make([]core.Transaction, 0, len(records))

	for _, t := range records {
		if c.Type != "" && t.Type != c.Type {
			continue
		}
		if needle != "" && !matchesSearch(fold, t, needle) {
			continue
		}
		if c.IsPeriodScoped() {
			if t.Date.IsZero() {
				skipped = append(skipped, fmt.Errorf("%w: transaction %s has no valid date", core.ErrMalformedRecord, t.ID))
				continue
			}
			if c.Month != 0 && t.Date.Month() != c.Month {
				continue
			}
			if c.Range != nil && !c.Range.Contains(t.Date) {
				continue
			}
		}
		matched = append(matched, t)
	}
	return matched, skipped
}

func matchesSearch(fold cases.Caser, t core.Transaction, needle string) bool {
	return strings.Contains(fold.String(t.Source), needle) ||
		strings.Contains(fold.String(t.Category), needle) ||
		strings.Contains(fold.String(string(t.Type)), needle)
}
