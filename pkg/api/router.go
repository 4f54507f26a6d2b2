// Package api serves the HTTP side of a long-running replay: a liveness
// check and the Prometheus endpoint.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/sftpbridge/internal/logger"
)

// NewRouter creates the chi router with its middleware and routes.
//
// Routes:
//   - GET /health  - Liveness check
//   - GET /metrics - Prometheus text format, served by metricsHandler
//
// A nil metricsHandler answers 404 on /metrics.
func NewRouter(info Info, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	health := NewHealthHandler(info)
	r.Get("/health", health.Liveness)

	if metricsHandler == nil {
		metricsHandler = http.NotFoundHandler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger logs each request with the internal logger: start at DEBUG,
// completion at DEBUG for /metrics and /health, INFO otherwise.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("HTTP request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		args := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.DurationMs(logger.Duration(start)),
		}
		if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
			logger.Debug("HTTP request completed", args...)
			return
		}
		logger.Info("HTTP request completed", args...)
	})
}
