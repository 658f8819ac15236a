// Package http serves the JSON API over transactions, analytics, reminders
// and accounts.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/ports"
	"fintrack/internal/reminders"
	"fintrack/internal/sheets"
	"fintrack/internal/users"
)

const (
	reportCacheSize = 64
	maxBodyBytes    = 1 << 20
)

// Options wires the server to its collaborators. Exporter may be nil when
// no spreadsheet is configured.
type Options struct {
	Addr           string
	Store          ports.Store
	Reminders      *reminders.Service
	Users          *users.Service
	Exporter       sheets.TransactionExporter
	Logger         *log.Logger
	WeekStart      time.Weekday
	ReportCacheTTL time.Duration
	RateLimitRPM   int
}

type Server struct {
	http.Server
	store     ports.Store
	reminders *reminders.Service
	users     *users.Service
	exporter  sheets.TransactionExporter
	logger    *log.Logger
	weekStart time.Weekday
	now       func() time.Time

	reports      cache.Cache[analytics.Report]
	cacheManager *cache.Manager

	// reportGen counts ledger writes. A report built from a snapshot older
	// than the current generation is not cached.
	reportMu  sync.Mutex
	reportGen uint64

	limiter      *ratelimit.Limiter
	detector     *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Call Shutdown to release its background goroutines.
func NewServer(opts Options) *Server {
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	reports := cache.NewLRUCache[analytics.Report](reportCacheSize, opts.ReportCacheTTL)
	manager := cache.NewManager(logger)
	manager.Register(reports)
	if opts.ReportCacheTTL > 0 {
		manager.StartCleanup(opts.ReportCacheTTL)
	}

	s := &Server{
		store:        opts.Store,
		reminders:    opts.Reminders,
		users:        opts.Users,
		exporter:     opts.Exporter,
		logger:       logger,
		weekStart:    opts.WeekStart,
		now:          time.Now,
		reports:      reports,
		cacheManager: manager,
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM}),
		detector:     security.NewDetector(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/export", s.handleExportTransactions)
	mux.HandleFunc("GET /api/categories", handleCategories)

	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)

	mux.HandleFunc("GET /api/reminders", s.handleListReminders)
	mux.HandleFunc("POST /api/reminders", s.handleCreateReminder)
	mux.HandleFunc("GET /api/reminders/{id}", s.handleGetReminder)
	mux.HandleFunc("PUT /api/reminders/{id}", s.handleUpdateReminder)
	mux.HandleFunc("DELETE /api/reminders/{id}", s.handleDeleteReminder)

	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	tracer := trace.NewMiddleware(logger, s.detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded, try again later"})
	})

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           tracer.Middleware(headers.Middleware(s.inspect(limit(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) reportGeneration() uint64 {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	return s.reportGen
}

// cacheReport stores report unless the ledger changed since gen was read.
func (s *Server) cacheReport(key string, gen uint64, report analytics.Report) {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	if gen == s.reportGen {
		s.reports.Set(key, report)
	}
}

// invalidateReports drops cached reports after a ledger write.
func (s *Server) invalidateReports() {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	s.reportGen++
	s.reports.Purge()
}

// inspect logs requests that look like scans. They are still served.
func (s *Server) inspect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				log.FieldPath, r.URL.Path,
				"user_agent", r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background cleanup and gracefully shuts down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
