package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nhc-marketplace/storefront/api/controllers"
	"github.com/nhc-marketplace/storefront/api/middleware"
	"github.com/nhc-marketplace/storefront/pkg/config"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// Deps are the process-wide collaborators the router needs.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Workspaces middleware.WorkspaceResolver
	// RateLimits is nil unless the redis driver is configured.
	RateLimits middleware.RateLimitStore
	Pingers    map[string]controllers.Pinger
	Metrics    http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Workspace(deps.Workspaces, middleware.WorkspaceCookie{
			Name:   cfg.Workspace.CookieName,
			MaxAge: cfg.Workspace.CookieMaxAge,
			Secure: cfg.App.IsProd(),
		}, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionGet(logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimits, logg)).Post("/login", controllers.SessionLogin(logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimits, logg)).Post("/register", controllers.SessionRegister(logg))
			r.Put("/token", controllers.SessionSaveToken(logg))
			r.Post("/logout", controllers.SessionLogout(logg))
		})

		r.Get("/locale", controllers.LocaleGet(logg))
		r.Put("/locale", controllers.LocaleSwitch(logg))

		r.Get("/notifications", controllers.NotificationsDrain(logg))
		r.Delete("/notifications/{toastId}", controllers.NotificationsDismiss(logg))

		r.Get("/products/{productId}", controllers.ProductGet(logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Post("/", controllers.CatalogMount(logg))
			r.Get("/", controllers.CatalogGet(logg))
			r.Delete("/", controllers.CatalogUnmount(logg))
			r.Put("/search", controllers.CatalogSearch(logg))
			r.Put("/category", controllers.CatalogCategory(logg))
			r.Put("/brand", controllers.CatalogBrand(logg))
			r.Put("/price", controllers.CatalogPriceRange(logg))
			r.Put("/in-stock", controllers.CatalogInStock(logg))
			r.Put("/featured", controllers.CatalogFeatured(logg))
			r.Put("/sort", controllers.CatalogSort(logg))
			r.Put("/page-size", controllers.CatalogPageSize(logg))
			r.Put("/page", controllers.CatalogGoToPage(logg))
			r.Post("/page/next", controllers.CatalogNextPage(logg))
			r.Post("/page/prev", controllers.CatalogPrevPage(logg))
			r.Delete("/filters", controllers.CatalogClearFilters(logg))
			r.Post("/categories/expand-all", controllers.CatalogExpandAll(logg))
			r.Post("/categories/{categoryId}/toggle", controllers.CatalogToggleCategory(logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(logg))
				r.Post("/load", controllers.CartLoad(logg))
				r.Delete("/", controllers.CartClear(logg))
				r.Post("/items", controllers.CartAdd(logg))
				r.Patch("/items/{productId}", controllers.CartStep(logg))
				r.Put("/items/{productId}", controllers.CartSetQuantity(logg))
				r.Delete("/items/{productId}", controllers.CartRemove(logg))
				r.Post("/pending-removal/confirm", controllers.CartConfirmRemoval(logg))
				r.Delete("/pending-removal", controllers.CartCancelRemoval(logg))
				r.Post("/promo", controllers.CartApplyPromo(logg))
				r.Delete("/promo", controllers.CartRemovePromo(logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(logg))
				r.Post("/{productId}/toggle", controllers.WishlistToggle(logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrdersPlace(logg))
				r.Get("/", controllers.OrdersMine(logg))
				r.Get("/{orderId}", controllers.OrdersGet(logg))
				r.Post("/{orderId}/cancel", controllers.OrdersCancel(logg))
			})
		})

		r.Route("/admin/promo-codes", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Get("/", controllers.AdminPromoCodesList(logg))
			r.Post("/", controllers.AdminPromoCodesCreate(logg))
			r.Post("/{promoId}/toggle", controllers.AdminPromoCodesToggle(logg))
			r.Delete("/{promoId}", controllers.AdminPromoCodesDelete(logg))
		})
	})

	return r
}
