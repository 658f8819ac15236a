// Package analytics aggregates transactions into totals, category
// breakdowns and per-day trends, and resolves reporting periods.
package analytics

import (
	"cmp"
	"slices"
	"strings"

	"fintrack/internal/core"
)

// Summarize totals income and expense. Balance is income minus expense in
// exact integer cents.
func Summarize(records []core.Transaction) core.Summary {
	var s core.Summary
	for _, t := range records {
		switch t.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// GroupByCategory sums expense magnitudes per category, in order of first
// occurrence. Categories without expenses are not listed.
func GroupByCategory(records []core.Transaction) []core.CategoryAmount {
	index := make(map[string]int)
	var out []core.CategoryAmount
	for _, t := range records {
		if t.Type != core.Expense {
			continue
		}
		name := t.Category
		if name == "" {
			name = core.DefaultCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, core.CategoryAmount{Name: name})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// SortByAmount orders categories by descending amount, ties by name.
func SortByAmount(cats []core.CategoryAmount) {
	slices.SortStableFunc(cats, func(a, b core.CategoryAmount) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// SortByName orders categories alphabetically, case-insensitively.
func SortByName(cats []core.CategoryAmount) {
	slices.SortStableFunc(cats, func(a, b core.CategoryAmount) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// DailyTotal is the income and expense booked on one calendar day.
type DailyTotal struct {
	Date    core.Date
	Income  core.Money
	Expense core.Money
}

// TrendByDate groups records by exact date and returns the days in
// chronological order. Records without a date are left out.
func TrendByDate(records []core.Transaction) []DailyTotal {
	byDay := make(map[int64]*DailyTotal)
	for _, t := range records {
		if t.Date.IsZero() {
			continue
		}
		key := t.Date.Unix()
		d, ok := byDay[key]
		if !ok {
			d = &DailyTotal{Date: t.Date}
			byDay[key] = d
		}
		switch t.Type {
		case core.Income:
			d.Income = d.Income.Add(t.Amount)
		case core.Expense:
			d.Expense = d.Expense.Add(t.Amount)
		}
	}

	out := make([]DailyTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b DailyTotal) int {
		return a.Date.Compare(b.Date.Time)
	})
	return out
}

// Bar is one entry of a labelled comparison chart.
type Bar struct {
	Label  string
	Amount core.Money
}

// IncomeVsExpense returns the two-bar income/expense comparison.
func IncomeVsExpense(s core.Summary) []Bar {
	return []Bar{
		{Label: "Income", Amount: s.TotalIncome},
		{Label: "Expense", Amount: s.TotalExpense},
	}
}
