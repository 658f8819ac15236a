package http

import (
	"net/http"
	"slices"
	"strings"

	"fintrack/internal/analytics"
	"fintrack/internal/log"
)

// handleAnalytics serves the report for ?period=week|month|year or for an
// explicit ?from=&to= range. Reports are cached per period until the next
// transaction is created or the TTL passes.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var p analytics.Period
	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from != "" || to != "" {
		rng, err := parseRange(from, to)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p = analytics.Period{Name: analytics.Custom, Start: rng.Start, End: rng.End}
	} else {
		p = analytics.ResolvePeriod(q.Get("period"), s.now(), s.weekStart)
	}

	key := p.Name + ":" + p.Key()
	report, ok := s.reports.Get(key)
	if !ok {
		gen := s.reportGeneration()
		records, err := s.store.ListTransactions(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		var skipped []error
		report, skipped = analytics.BuildReport(records, p)
		if len(skipped) > 0 {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Records skipped in report",
				log.FieldPeriod, key,
				log.FieldSkipped, len(skipped))
		}
		s.cacheReport(key, gen, report)
	}

	categories := slices.Clone(report.Categories)
	switch strings.ToLower(q.Get("sort")) {
	case "amount":
		analytics.SortByAmount(categories)
	case "name":
		analytics.SortByName(categories)
	}
	writeJSON(w, http.StatusOK, toReportResponse(report, categories))
}
