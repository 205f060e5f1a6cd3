package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
)

// ExpenseService is the application state the handlers operate on.
type ExpenseService interface {
	List(filters core.Filters, order analysis.SortOrder) []core.Expense
	Get(id string) (core.Expense, error)
	Create(ctx context.Context, in services.ExpenseInput) (core.Expense, error)
	Update(ctx context.Context, id string, in services.ExpenseInput) (core.Expense, error)
	Delete(ctx context.Context, id string) []core.Expense
	Clear(ctx context.Context) error
	Summary() core.Summary
	Export(filters core.Filters) (services.Export, error)
}

type Server struct {
	http.Server
	svc         ExpenseService
	logger      *log.Logger
	events      *log.StructuredLogger
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	rateLimit   int
	started     time.Time

	shutdownOnce sync.Once
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRateLimit sets the number of mutating requests allowed per client IP
// per minute.
func WithRateLimit(perMinute int) ServerOption {
	return func(s *Server) { s.rateLimit = perMinute }
}

func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentHTTP)
		}
	}
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc ExpenseService, opts ...ServerOption) *Server {
	s := &Server{
		svc:       svc,
		logger:    log.Discard(),
		metrics:   &securityMetrics{},
		rateLimit: 60,
		started:   time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = log.NewStructuredLogger(s.logger)
	s.rateLimiter = newRateLimiter(s.rateLimit)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses", s.handleClearExpenses)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/categories", handleCategories)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           withRequestID(log.Middleware(s.logger, requestIDFrom)(s.withSecurity(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurity adds security headers, rate limiting and request logging.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		requestID := requestIDFrom(r)
		clientIP := extractClientIP(r)

		s.metrics.addRequest()
		s.events.LogHTTPStart(ctx, r, requestID, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			log.FromContext(ctx).WarnContext(ctx, "Suspicious request detected",
				log.FieldComponent, log.ComponentSecurity,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			log.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				log.FieldComponent, log.ComponentRateLimit,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			TooManyRequestsError().Write(rw)
		} else {
			next.ServeHTTP(rw, r)
		}

		s.events.LogHTTPEnd(ctx, r, requestID, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
