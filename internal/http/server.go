// Package http exposes the JSON API: report endpoints backed by the
// aggregation engine plus the ledger and plan write operations.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/cache"
	"bilancio/internal/export"
	"bilancio/internal/report"
	"bilancio/internal/services"
)

// Store is the read surface the export endpoint needs beyond the engine.
type Store interface {
	report.EntryProvider
	report.AccountProvider
	report.CategoryProvider
}

type Server struct {
	http.Server
	engine      *report.Engine
	ledger      *services.LedgerService
	plans       *services.PlanService
	store       Store
	exporter    *export.Exporter
	rateLimiter *rateLimiter

	// Report responses are cached per owner+window. Every ledger write
	// flushes both caches: a stale report is worse than a recomputed one.
	dashboardCache *cache.LRUCache[*report.DashboardReport]
	summaryCache   *cache.LRUCache[report.Summary]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
	stopCleanup  context.CancelFunc
}

func NewServer(addr string, engine *report.Engine, ledger *services.LedgerService, plans *services.PlanService, store Store, exporter *export.Exporter) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		engine:         engine,
		ledger:         ledger,
		plans:          plans,
		store:          store,
		exporter:       exporter,
		rateLimiter:    newRateLimiter(),
		dashboardCache: cache.NewLRUCache[*report.DashboardReport](100, 5*time.Minute),
		summaryCache:   cache.NewLRUCache[report.Summary](200, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.summaryCache)
	cleanupCtx, cancel := context.WithCancel(context.Background())
	s.stopCleanup = cancel
	s.cacheManager.StartCleanup(cleanupCtx, 10*time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/reports/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("GET /api/reports/trend", s.withMiddleware(s.handleTrend))
	mux.HandleFunc("GET /api/reports/budget", s.withMiddleware(s.handleBudget))
	mux.HandleFunc("GET /api/reports/networth", s.withMiddleware(s.handleNetWorth))
	mux.HandleFunc("GET /api/reports/flows", s.withMiddleware(s.handleFlows))
	mux.HandleFunc("GET /api/reports/insights", s.withMiddleware(s.handleInsights))
	mux.HandleFunc("GET /api/reports/dashboard", s.withMiddleware(s.handleDashboard))

	mux.HandleFunc("GET /api/entries", s.withMiddleware(s.handleListEntries))
	mux.HandleFunc("POST /api/entries", s.withMiddleware(s.handleCreateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.withMiddleware(s.handleDeleteEntry))
	mux.HandleFunc("POST /api/entries/{id}/complete", s.withMiddleware(s.handleCompleteEntry))
	mux.HandleFunc("GET /api/accounts", s.withMiddleware(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withMiddleware(s.handleCreateAccount))
	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))

	mux.HandleFunc("GET /api/plans/{owner}/{period}", s.withMiddleware(s.handleGetPlan))
	mux.HandleFunc("PUT /api/plans/{owner}/{period}", s.withMiddleware(s.handleSavePlan))
	mux.HandleFunc("POST /api/plans/{owner}/{period}/generate", s.withMiddleware(s.handleGeneratePlan))

	mux.HandleFunc("GET /api/export", s.withMiddleware(s.handleExport))

	return s
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCleanup != nil {
			s.stopCleanup()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, write rate limiting and request
// logging with a request id.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := uuid.NewString()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateReportCaches drops every cached report. Called on each ledger
// or plan write.
func (s *Server) invalidateReportCaches() {
	s.dashboardCache.Flush()
	s.summaryCache.Flush()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
