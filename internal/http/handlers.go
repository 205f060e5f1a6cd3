package http

import (
	"fmt"
	"net/http"
	"time"

	"expensetracker/internal/core"
)

// handleHealth performs basic liveness check
func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().Text("text/plain; charset=utf-8", "ok").Write(w)
}

// handleReady reports readiness once the service is wired.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
		return
	}
	NewResponse().JSON(map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]any{
			"rate_limiter": map[string]any{
				"active_clients": s.rateLimiter.ActiveClients(),
				"status":         "ok",
			},
		},
	}).Write(w)
}

// handleMetrics provides request and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	total, rateLimited, suspicious := s.metrics.snapshot()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", total)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimited)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", suspicious)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.rateLimiter.ActiveClients())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}

// handleCategories lists the categories with their display attributes.
func handleCategories(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(core.CategoryInfos()).Write(w)
}
