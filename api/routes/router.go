package routes

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rb-dev78/tillpos/api/controllers"
	"github.com/rb-dev78/tillpos/api/middleware"
	"github.com/rb-dev78/tillpos/internal/catalog"
	"github.com/rb-dev78/tillpos/internal/register"
	"github.com/rb-dev78/tillpos/pkg/config"
	"github.com/rb-dev78/tillpos/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	catalogService catalog.Service,
	registerService register.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// One register, one operator: serialize every core call.
		var mu sync.Mutex
		r.Use(middleware.Serialize(&mu))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogList(catalogService, logg))
			r.Post("/products", controllers.CatalogRegister(catalogService, logg))
			r.Get("/products/{productId}", controllers.CatalogGet(catalogService, logg))
			r.Post("/products/{productId}/restock", controllers.CatalogRestock(catalogService, logg))
			r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(registerService, logg))
			r.Post("/items", controllers.CartAddItem(registerService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(registerService, logg))
			r.Post("/discount", controllers.CartDiscount(registerService, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/open", controllers.TransactionOpen(registerService, logg))
			r.Post("/checkout", controllers.Checkout(registerService, logg))
			r.Get("/receipts/last", controllers.LastReceipt(registerService, logg))
			r.Get("/count", controllers.TransactionCount(registerService, logg))
		})
	})

	return r
}
