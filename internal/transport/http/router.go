// Package http assembles the request pipeline. Every route passes the
// same middleware chain; session resolution runs once per request and
// handlers read the resulting identity from context.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hacklabconnect/internal/platform/metrics"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/session"
)

const requestTimeout = 30 * time.Second

// Registrar mounts a feature's routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the middleware chain and mounts every feature handler.
// Order matters: recovery wraps everything, the request id exists before
// the first log line, and session resolution happens before any route
// can consult the identity.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, sessions *session.Service, handlers ...Registrar) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))
	r.Use(session.Middleware(sessions, logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
