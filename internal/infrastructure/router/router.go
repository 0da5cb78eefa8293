package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"acme-explorer-service/pkg/logger"
)

// APIRoutes registers the versioned API on a sub-router
type APIRoutes interface {
	Routes(r chi.Router)
}

// Options configures the HTTP router
type Options struct {
	CORSOrigins []string
	Gatherer    prometheus.Gatherer
	Logger      logger.Logger
}

// New builds the root handler: /health, /metrics and the API under /v1
func New(api APIRoutes, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(opts.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(NewCORSHandler(opts.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", api.Routes)
	return r
}
