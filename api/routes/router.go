package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buahsegar/storefront-backend/api/controllers"
	"github.com/buahsegar/storefront-backend/api/middleware"
	"github.com/buahsegar/storefront-backend/internal/auth"
	"github.com/buahsegar/storefront-backend/internal/cart"
	checkoutsvc "github.com/buahsegar/storefront-backend/internal/checkout"
	"github.com/buahsegar/storefront-backend/internal/orders"
	"github.com/buahsegar/storefront-backend/internal/products"
	"github.com/buahsegar/storefront-backend/pkg/auth/session"
	"github.com/buahsegar/storefront-backend/pkg/config"
	"github.com/buahsegar/storefront-backend/pkg/db"
	"github.com/buahsegar/storefront-backend/pkg/logger"
	"github.com/buahsegar/storefront-backend/pkg/metrics"
	"github.com/buahsegar/storefront-backend/pkg/redis"
	"github.com/buahsegar/storefront-backend/pkg/storage/cloudinary"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	productService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	uploader *cloudinary.Client,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
				Post("/register", controllers.AuthRegister(registerService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AuthLogin(authService, logg))
			r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		})

		r.Get("/products", controllers.ProductsList(productService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(productService, logg))
		r.Get("/shipping-options", controllers.ShippingOptions(checkoutService, logg))
		r.Post("/webhooks/payment", controllers.PaymentNotification(checkoutService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

			r.Get("/me", controllers.Me(authService, logg))
			r.Patch("/me", controllers.MeUpdate(authService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
				Post("/auth/register", controllers.AdminAuthRegister(registerService, logg))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminProductsList(productService, logg))
				r.Post("/", controllers.AdminProductCreate(productService, logg))
				r.Put("/{productId}", controllers.AdminProductUpdate(productService, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(productService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrdersList(ordersService, logg))
				r.Get("/summary", controllers.AdminOrdersSummary(ordersService, logg))
				r.Patch("/{orderId}", controllers.AdminOrderUpdateStatus(ordersService, logg))
			})

			// A typed nil would slip past the controller's interface check.
			uploadHandler := controllers.AdminUpload(nil, cfg.Cloudinary, logg)
			if uploader != nil {
				uploadHandler = controllers.AdminUpload(uploader, cfg.Cloudinary, logg)
			}
			r.Post("/uploads", uploadHandler)
		})
	})

	return r
}
