package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/storage/memory"
)

// gatedStore pauses the first ListTransactions after taking its snapshot.
type gatedStore struct {
	*memory.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	records, err := g.Store.ListTransactions(ctx)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return records, err
}

func TestAnalyticsMonth(t *testing.T) {
	ts := newTestServer(t)
	seedTransactions(t, ts)

	rr := ts.do(t, http.MethodGet, "/api/analytics?period=month", "")
	expectStatus(t, rr, http.StatusOK)
	got := decode[reportResponse](t, rr)

	if got.Period.Name != "month" || got.Period.Start.String() != "2026-01-01" || got.Period.End.String() != "2026-01-31" {
		t.Fatalf("period = %+v", got.Period)
	}
	if got.Count != 2 || got.Summary.Balance != "850.00" {
		t.Fatalf("count %d summary %+v", got.Count, got.Summary)
	}
	if len(got.Categories) != 1 || got.Categories[0] != (amountEntry{Name: "Food", Amount: "150.00"}) {
		t.Errorf("categories = %+v", got.Categories)
	}
	if len(got.Trend) != 2 || got.Trend[0].Date.String() != "2026-01-01" {
		t.Errorf("trend = %+v", got.Trend)
	}
	if len(got.Comparison) != 2 {
		t.Errorf("comparison = %+v", got.Comparison)
	}
}

func TestAnalyticsCacheInvalidatedOnCreate(t *testing.T) {
	ts := newTestServer(t)
	seedTransactions(t, ts)

	first := decode[reportResponse](t, ts.do(t, http.MethodGet, "/api/analytics?period=year", ""))
	if ts.reports.Size() != 1 {
		t.Fatalf("report should be cached, size %d", ts.reports.Size())
	}

	expectStatus(t, ts.do(t, http.MethodPost, "/api/transactions", `{"amount": "-10", "category": "Health", "date": "2026-01-10"}`), http.StatusCreated)
	if ts.reports.Size() != 0 {
		t.Fatal("creating a transaction should purge cached reports")
	}

	second := decode[reportResponse](t, ts.do(t, http.MethodGet, "/api/analytics?period=year", ""))
	if second.Count != first.Count+1 {
		t.Fatalf("count %d after create, was %d", second.Count, first.Count)
	}
}

func TestAnalyticsCustomRangeAndSort(t *testing.T) {
	ts := newTestServer(t)
	seedTransactions(t, ts)

	rr := ts.do(t, http.MethodGet, "/api/analytics?from=2025-12-01&to=2026-01-31&sort=amount", "")
	expectStatus(t, rr, http.StatusOK)
	got := decode[reportResponse](t, rr)
	if got.Period.Name != "custom" || got.Count != 3 {
		t.Fatalf("period %+v count %d", got.Period, got.Count)
	}
	if len(got.Categories) != 2 || got.Categories[0].Name != "Food" || got.Categories[1].Name != "Transport" {
		t.Errorf("sorted by amount = %+v", got.Categories)
	}

	byName := decode[reportResponse](t, ts.do(t, http.MethodGet, "/api/analytics?from=2025-12-01&to=2026-01-31&sort=name", ""))
	if byName.Categories[0].Name != "Food" {
		t.Errorf("sorted by name = %+v", byName.Categories)
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/api/analytics?from=2026-01-31&to=2026-01-01", ""), http.StatusBadRequest)
}

func TestAnalyticsWeekAndUnknownPeriod(t *testing.T) {
	ts := newTestServer(t)

	week := decode[reportResponse](t, ts.do(t, http.MethodGet, "/api/analytics?period=week", ""))
	if week.Period.Start.String() != "2026-01-12" || week.Period.End.String() != "2026-01-18" {
		t.Errorf("week = %+v", week.Period)
	}

	unknown := decode[reportResponse](t, ts.do(t, http.MethodGet, "/api/analytics?period=decade", ""))
	if unknown.Period.Name != "month" {
		t.Errorf("unknown period should fall back to month, got %+v", unknown.Period)
	}
}

func TestAnalyticsDoesNotCacheReportBuiltBeforeCreate(t *testing.T) {
	store := &gatedStore{Store: memory.NewStore(), entered: make(chan struct{}), release: make(chan struct{})}
	ts := newTestServer(t, func(o *Options) { o.Store = store })

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- ts.do(t, http.MethodGet, "/api/analytics?period=year", "") }()
	<-store.entered

	expectStatus(t, ts.do(t, http.MethodPost, "/api/transactions", `{"amount": "100", "type": "income", "date": "2026-01-10"}`), http.StatusCreated)
	close(store.release)

	stale := <-done
	expectStatus(t, stale, http.StatusOK)
	if ts.reports.Size() != 0 {
		t.Fatal("a report built before the create must not be cached")
	}

	fresh := decode[reportResponse](t, ts.do(t, http.MethodGet, "/api/analytics?period=year", ""))
	if fresh.Count != 1 || fresh.Summary.TotalIncome != "100.00" {
		t.Fatalf("stale report served: count %d summary %+v", fresh.Count, fresh.Summary)
	}
}
