package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"GameStore/internal/catalog"
	"GameStore/internal/order"
	"GameStore/pkg/kit"
)

type Deps struct {
	Catalog *catalog.Server
	Orders  *order.Server

	// Per-IP create-order limit; 0 disables the limiter.
	CreateOrderLimit         int
	CreateOrderWindowSeconds int
}

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

const readyTimeout = 1 * time.Second

// NewHandler assembles the whole public surface: the /api storefront
// routes, the download gate, and the operational endpoints.
func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/products", deps.Catalog.ListHandler())

		create := ar.With()
		if deps.CreateOrderLimit > 0 {
			limiter := kit.NewIPRateLimiter(deps.CreateOrderLimit, deps.CreateOrderWindowSeconds)
			create = ar.With(limiter.Middleware)
		}
		create.Post("/create-order", deps.Orders.CreateHandler())

		ar.Post("/webhook", deps.Orders.WebhookHandler())
	})

	r.Get("/download/{token}", deps.Orders.DownloadHandler())

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry, deps.Service)
	r.Use(metrics.Middleware(kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := deps.Catalog.Store.Ping(ctx); err != nil {
			notReady(w, r, log, "catalog store", err)
			return
		}
		if err := deps.Orders.Store.Ping(ctx); err != nil {
			notReady(w, r, log, "order store", err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func notReady(w http.ResponseWriter, r *http.Request, log *zap.Logger, what string, err error) {
	if log != nil {
		log.Warn("readyz failed", zap.String("store", what), zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready")
}
