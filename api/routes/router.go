package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lanort/pedidos/api/controllers"
	"github.com/lanort/pedidos/api/middleware"
	"github.com/lanort/pedidos/pkg/config"
	"github.com/lanort/pedidos/pkg/logger"
)

// Storefront is everything the HTTP surface needs from the application.
type Storefront interface {
	controllers.ReadinessChecker
	controllers.CatalogService
	controllers.CartService
	controllers.SelectionService
	controllers.OrderService
}

// NewRouter mounts health, metrics and the v1 API. A nil registry disables /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	app Storefront,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, app, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(app, logg))
			r.Get("/brands", controllers.CatalogBrands(app, logg))
			r.Get("/users", controllers.CatalogUsers(app, logg))
			r.Get("/payment-terms", controllers.CatalogPaymentTerms(app, logg))
			r.Post("/reload", controllers.CatalogReload(app, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(app, logg))
			r.Delete("/", controllers.CartClear(app, logg))
			r.Post("/items", controllers.CartAddItem(app, logg))
			r.Patch("/items/{index}", controllers.CartUpdateItem(app, logg))
			r.Delete("/items/{index}", controllers.CartRemoveItem(app, logg))
		})

		r.Put("/selections/{code}", controllers.SelectionUpdate(app, logg))
		r.Delete("/selections", controllers.SelectionClear(app, logg))
		r.Post("/orders", controllers.OrderSubmit(app, logg))
		r.Get("/orders/last", controllers.OrderLast(app, logg))
	})

	return r
}
