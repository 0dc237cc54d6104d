package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ordena-app/ordena-backend/api/controllers"
	"github.com/ordena-app/ordena-backend/api/middleware"
	orderitem "github.com/ordena-app/ordena-backend/internal/orderitems"
	ordersvc "github.com/ordena-app/ordena-backend/internal/orders"
	org "github.com/ordena-app/ordena-backend/internal/orgs"
	"github.com/ordena-app/ordena-backend/internal/pricing"
	productsvc "github.com/ordena-app/ordena-backend/internal/products"
	"github.com/ordena-app/ordena-backend/pkg/config"
	"github.com/ordena-app/ordena-backend/pkg/db"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	orgService org.Service,
	productService productsvc.Service,
	orderService ordersvc.Service,
	orderItemService orderitem.Service,
	pricingService pricing.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())

		r.Route("/orgs", func(r chi.Router) {
			r.Post("/", controllers.OrgCreate(orgService, logg))
			r.Get("/", controllers.OrgList(orgService, logg))
			r.Get("/{orgId}", controllers.OrgGet(orgService, logg))
		})

		r.Route("/units", func(r chi.Router) {
			r.Post("/", controllers.UnitCreate(productService, logg))
			r.Get("/", controllers.UnitList(productService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(productService, logg))
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductGet(productService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(productService, logg))

			r.Route("/{productId}/zone-adjustments", func(r chi.Router) {
				r.Post("/", controllers.ZoneAdjustmentCreate(pricingService, logg))
				r.Get("/", controllers.ZoneAdjustmentList(pricingService, logg))
			})
			r.Route("/{productId}/quantity-tiers", func(r chi.Router) {
				r.Post("/", controllers.QuantityTierCreate(pricingService, logg))
				r.Get("/", controllers.QuantityTierList(pricingService, logg))
			})
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Post("/quote", controllers.PricingQuote(pricingService, logg))
			r.Post("/zone-adjustments/{adjustmentId}/deactivate", controllers.ZoneAdjustmentDeactivate(pricingService, logg))
			r.Post("/quantity-tiers/{tierId}/deactivate", controllers.QuantityTierDeactivate(pricingService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderId}", controllers.OrderGet(orderService, logg))
			r.Post("/{orderId}/status", controllers.OrderUpdateStatus(orderService, logg))

			r.Route("/{orderId}/items", func(r chi.Router) {
				r.Post("/", controllers.OrderItemCreate(orderItemService, logg))
				r.Get("/", controllers.OrderItemList(orderItemService, logg))
			})
		})

		r.Route("/order-items", func(r chi.Router) {
			r.Get("/{itemId}", controllers.OrderItemGet(orderItemService, logg))
			r.Post("/{itemId}/override-price", controllers.OrderItemOverridePrice(orderItemService, logg))
			r.Post("/{itemId}/status", controllers.OrderItemUpdateStatus(orderItemService, logg))
			r.Get("/{itemId}/history", controllers.OrderItemHistory(orderItemService, logg))
		})
	})

	return r
}
