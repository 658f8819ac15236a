package http

import (
	"net/http"
	"strings"
	"testing"
)

func seedTransactions(t *testing.T, ts *testServer) {
	t.Helper()
	for _, body := range []string{
		`{"amount": 1000, "type": "income", "source": "Salary", "date": "2026-01-01"}`,
		`{"amount": "-150", "category": "Food", "source": "Market", "date": "2026-01-02"}`,
		`{"amount": "40.5", "type": "expense", "category": "Transport", "date": "2025-12-20"}`,
	} {
		expectStatus(t, ts.do(t, http.MethodPost, "/api/transactions", body), http.StatusCreated)
	}
}

func TestCreateTransaction(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/transactions", `{"amount": "-150", "category": "Food", "date": "2026-01-02"}`)
	expectStatus(t, rr, http.StatusCreated)
	got := decode[transactionResponse](t, rr)
	if got.ID == "" || got.Type != "expense" || got.Amount != "150.00" || got.SignedAmount != "-150.00" {
		t.Fatalf("unexpected transaction %+v", got)
	}

	rr = ts.do(t, http.MethodPost, "/api/transactions", `{"amount": "12", "type": "expense"}`)
	expectStatus(t, rr, http.StatusCreated)
	if got := decode[transactionResponse](t, rr); got.Date.String() != "2026-01-15" || got.Category != "Others" {
		t.Errorf("missing date should default to today and category to Others: %+v", got)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"zero amount", `{"amount": 0, "type": "income", "date": "2026-01-01"}`, http.StatusUnprocessableEntity, "amount"},
		{"negative income", `{"amount": -5, "type": "income", "date": "2026-01-01"}`, http.StatusUnprocessableEntity, "amount"},
		{"bad type", `{"amount": 5, "type": "transfer", "date": "2026-01-01"}`, http.StatusUnprocessableEntity, "type"},
		{"bad date", `{"amount": 5, "date": "yesterday"}`, http.StatusBadRequest, ""},
		{"not json", `amount=5`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rr := ts.do(t, http.MethodPost, "/api/transactions", tt.body)
			expectStatus(t, rr, tt.status)
			if body := decode[errorBody](t, rr); body.Field != tt.field || body.Error == "" {
				t.Errorf("unexpected error body %+v", body)
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	ts := newTestServer(t)
	seedTransactions(t, ts)

	tests := []struct {
		name    string
		query   string
		count   int
		balance string
	}{
		{"all", "", 3, "809.50"},
		{"january", "?month=january", 2, "850.00"},
		{"expenses", "?type=expense", 2, "-190.50"},
		{"search", "?search=MARKET", 1, "-150.00"},
		{"range", "?from=2025-12-01&to=2026-01-01", 2, "959.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodGet, "/api/transactions"+tt.query, "")
			expectStatus(t, rr, http.StatusOK)
			got := decode[transactionListResponse](t, rr)
			if len(got.Transactions) != tt.count || got.Summary.Balance != tt.balance {
				t.Fatalf("got %d transactions, balance %s", len(got.Transactions), got.Summary.Balance)
			}
		})
	}

	rr := ts.do(t, http.MethodGet, "/api/transactions?month=january", "")
	got := decode[transactionListResponse](t, rr)
	if got.Summary.TotalIncome != "1000.00" || got.Summary.TotalExpense != "150.00" {
		t.Errorf("january summary = %+v", got.Summary)
	}
}

func TestListTransactionsBadCriteria(t *testing.T) {
	ts := newTestServer(t)
	for _, q := range []string{"?type=transfer", "?month=smarch", "?from=2026-01-01", "?from=2026-02-01&to=2026-01-01", "?from=x&to=y"} {
		expectStatus(t, ts.do(t, http.MethodGet, "/api/transactions"+q, ""), http.StatusBadRequest)
	}
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t)
	seedTransactions(t, ts)

	rr := ts.do(t, http.MethodGet, "/api/transactions/export?type=income", "")
	expectStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 || lines[0] != "date,type,amount,category,source,time,id" || !strings.HasPrefix(lines[1], "2026-01-01,income,1000.00,,Salary,,") {
		t.Fatalf("unexpected csv:\n%s", rr.Body.String())
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/api/transactions/export?format=xml", ""), http.StatusBadRequest)
}

func TestExportSheets(t *testing.T) {
	ts := newTestServer(t)
	seedTransactions(t, ts)

	rr := ts.do(t, http.MethodGet, "/api/transactions/export?format=sheets&type=expense", "")
	expectStatus(t, rr, http.StatusOK)
	if rows := ts.exporter.Rows(); len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %v", rows)
	}

	unconfigured := newTestServer(t, func(o *Options) { o.Exporter = nil })
	expectStatus(t, unconfigured.do(t, http.MethodGet, "/api/transactions/export?format=sheets", ""), http.StatusServiceUnavailable)
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/api/categories", "")
	expectStatus(t, rr, http.StatusOK)
	if got := decode[map[string][]string](t, rr)["categories"]; len(got) != 7 || got[0] != "Food" {
		t.Errorf("categories = %v", got)
	}
}
