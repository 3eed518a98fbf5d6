// Package httptransport assembles the HTTP surface: common middleware,
// domain handler registration, operational endpoints and static proof files.
package httptransport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fundbook/internal/platform/metrics"
	"fundbook/internal/platform/middleware"
	"fundbook/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// RouteRegistrar mounts a set of endpoints on a router. Each domain handler
// implements this and applies its own auth gates.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Config carries the router's cross-cutting dependencies.
type Config struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	UploadDir string
}

// NewRouter builds the full application router. All /api/v1 routes share the
// common middleware chain; handlers add their own gates per route group.
func NewRouter(cfg Config, handlers ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		for _, h := range handlers {
			h.Register(api)
		}
	})

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Proof files are served by their opaque names only; directory
	// listings stay closed.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
