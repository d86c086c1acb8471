package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/jhumka-storefront/api/controllers"
	"github.com/angelmondragon/jhumka-storefront/api/middleware"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

// NewRouter wires the storefront HTTP surface. gatherer may be nil, in which
// case /metrics is not mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sf *storefront.Storefront,
	gatherer prometheus.Gatherer,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, sf))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(sf, logg))
			r.Get("/{productId}", controllers.ProductDetail(sf, logg))
		})
		r.Get("/categories", controllers.Categories(sf))

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", controllers.CollectionsList(sf))
			r.Get("/{collectionId}", controllers.CollectionDetail(sf, logg))
		})
		r.Route("/regions", func(r chi.Router) {
			r.Get("/", controllers.RegionsList(sf))
			r.Get("/{regionId}", controllers.RegionDetail(sf, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(sf))
			r.Delete("/", controllers.CartClear(sf))
			r.Post("/items", controllers.CartAddItem(sf, logg))
			r.Post("/items/{productId}/increment", controllers.CartIncrement(sf, logg))
			r.Post("/items/{productId}/decrement", controllers.CartDecrement(sf, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(sf, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(sf))
			r.Delete("/", controllers.WishlistClear(sf))
			r.Get("/events", controllers.WishlistEvents(sf, logg))
			r.Post("/toggle", controllers.WishlistToggle(sf, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(sf, logg))
			r.Post("/{productId}/move-to-cart", controllers.WishlistMoveToCart(sf, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/summary", controllers.CheckoutSummary(sf))
			r.Post("/", controllers.CheckoutSubmit(sf, logg))
		})
		r.Post("/contact", controllers.ContactSubmit(sf, logg))
	})

	return r
}
