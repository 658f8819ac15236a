package http

import (
	"fmt"
	"net/http"
	"strings"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/query"
)

// criteriaFromRequest reads search, type, month, from and to. from and to
// must be given together.
func criteriaFromRequest(r *http.Request) (query.Criteria, error) {
	q := r.URL.Query()
	c, err := query.ParseCriteria(q.Get("search"), q.Get("type"), q.Get("month"))
	if err != nil {
		return query.Criteria{}, badRequest(err)
	}

	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from == "" && to == "" {
		return c, nil
	}
	rng, err := parseRange(from, to)
	if err != nil {
		return query.Criteria{}, err
	}
	c.Range = rng
	return c, nil
}

func parseRange(from, to string) (*query.Range, error) {
	if from == "" || to == "" {
		return nil, badRequest(fmt.Errorf("%w: from and to must be given together", query.ErrInvalidCriteria))
	}
	start, err := core.ParseDate(from)
	if err != nil {
		return nil, badRequest(err)
	}
	end, err := core.ParseDate(to)
	if err != nil {
		return nil, badRequest(err)
	}
	rng, err := query.NewRange(start, end)
	if err != nil {
		return nil, badRequest(err)
	}
	return rng, nil
}

// filtered loads every transaction and applies the request's criteria.
// Records skipped for malformed dates are logged.
func (s *Server) filtered(r *http.Request) ([]core.Transaction, int, error) {
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		return nil, 0, err
	}
	all, err := s.store.ListTransactions(r.Context())
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	matched, skipped := query.Filter(all, criteria)
	for _, e := range skipped {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Skipped malformed transaction", log.FieldError, e)
	}
	return matched, len(skipped), nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	matched, skipped, err := s.filtered(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := transactionListResponse{
		Transactions: make([]transactionResponse, 0, len(matched)),
		Summary:      toSummaryResponse(analytics.Summarize(matched)),
		Skipped:      skipped,
	}
	for _, t := range matched {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := req.input()
	if in.Date.IsZero() {
		in.Date = core.DateOf(s.now())
	}

	t, err := core.NormalizeTransaction(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.AppendTransaction(r.Context(), t); err != nil {
		writeError(w, r, fmt.Errorf("append transaction: %w", err))
		return
	}
	s.invalidateReports()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithTransaction(t.ID, string(t.Type), t.Category, t.Amount.Cents).
			ToSlice()...)
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "sheets" {
		writeError(w, r, badRequest(fmt.Errorf("unsupported export format %q", format)))
		return
	}

	matched, _, err := s.filtered(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if format == "sheets" {
		if s.exporter == nil {
			writeError(w, r, errExportUnavailable)
			return
		}
		res, err := s.exporter.ExportTransactions(r.Context(), matched)
		if err != nil {
			writeError(w, r, fmt.Errorf("export to sheets: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fintrack_transactions.csv"`)
	if err := export.WriteCSV(w, matched); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed", log.FieldError, err)
	}
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": core.SuggestedCategories})
}
