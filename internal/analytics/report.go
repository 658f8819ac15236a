package analytics

import (
	"fintrack/internal/core"
	"fintrack/internal/query"
)

// Report is everything the analytics view shows for one period.
type Report struct {
	Period     Period
	Summary    core.Summary
	Categories []core.CategoryAmount
	Trend      []DailyTotal
	Comparison []Bar
	Count      int
}

// BuildReport scopes records to p and aggregates them. Records that could
// not be placed in the period are returned as diagnostics.
func BuildReport(records []core.Transaction, p Period) (Report, []error) {
	scoped, skipped := query.Filter(records, query.Criteria{Range: p.Range()})
	summary := Summarize(scoped)
	return Report{
		Period:     p,
		Summary:    summary,
		Categories: GroupByCategory(scoped),
		Trend:      TrendByDate(scoped),
		Comparison: IncomeVsExpense(summary),
		Count:      len(scoped),
	}, skipped
}
