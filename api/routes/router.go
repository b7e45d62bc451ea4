package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendemais/vendemais-backend/api/controllers"
	"github.com/vendemais/vendemais-backend/api/middleware"
	"github.com/vendemais/vendemais-backend/internal/banners"
	cartsvc "github.com/vendemais/vendemais-backend/internal/cart"
	"github.com/vendemais/vendemais-backend/internal/checkout"
	"github.com/vendemais/vendemais-backend/internal/products"
	"github.com/vendemais/vendemais-backend/internal/realtime"
	"github.com/vendemais/vendemais-backend/internal/reservation"
	"github.com/vendemais/vendemais-backend/internal/stores"
	"github.com/vendemais/vendemais-backend/internal/wishlist"
	"github.com/vendemais/vendemais-backend/pkg/config"
	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/logger"
	"github.com/vendemais/vendemais-backend/pkg/redis"
)

// RouterParams packages everything the HTTP surface depends on.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis *redis.Client

	Stores   *stores.Service
	Products *products.Service
	Banners  *banners.Service
	Cart     *cartsvc.Service
	Wishlist *wishlist.Service
	Checkout *checkout.Service
	Sweeper  *reservation.Sweeper

	Hub    *realtime.Hub
	Bridge *realtime.Bridge
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	var events controllers.EventPublisher
	if params.Bridge != nil {
		events = params.Bridge
	}

	var redisP redis.Pinger
	if params.Redis != nil {
		redisP = params.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, redisP))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(params.Stores, cfg.JWT, logg))
		r.Post("/login", controllers.AuthLogin(params.Stores, cfg.JWT, logg))
	})

	// Shopper-facing surface. The tenant middleware maps the Host header
	// (or the X-Store-Slug fallback) to a store and blocks storefronts
	// whose domain configuration cannot render.
	r.Route("/api/v1/storefront", func(r chi.Router) {
		r.Use(middleware.Tenant(params.Stores, logg))
		r.Use(middleware.Session(logg))

		r.Get("/", controllers.StorefrontProfile(logg))
		r.Get("/banners", controllers.StorefrontBanners(params.Banners, logg))
		r.Get("/products", controllers.StorefrontProducts(params.Products, logg))
		r.Get("/products/{productId}", controllers.StorefrontProductDetail(params.Products, logg))
		r.Get("/events", controllers.StorefrontEvents(params.Hub, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(params.Cart, logg))
			r.Post("/items", controllers.CartAddItem(params.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(params.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(params.Cart, logg))
			r.Delete("/", controllers.CartClear(params.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(params.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(params.Wishlist, params.Products, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(params.Wishlist, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(params.Checkout, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.StoreContext(logg))

		r.Get("/store", controllers.StoreProfile(params.Stores, logg))
		r.Put("/store/domain", controllers.StoreDomainUpdate(params.Stores, events, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(params.Products, logg))
			r.Post("/", controllers.AdminProductCreate(params.Products, events, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(params.Products, events, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(params.Products, events, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.AdminBannerList(params.Banners, logg))
			r.Post("/", controllers.AdminBannerCreate(params.Banners, logg))
			r.Patch("/{bannerId}", controllers.AdminBannerUpdate(params.Banners, logg))
			r.Delete("/{bannerId}", controllers.AdminBannerDelete(params.Banners, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(params.Checkout, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(params.Checkout, logg))
			r.Post("/{orderId}/confirm", controllers.AdminOrderConfirm(params.Checkout, logg))
			r.Post("/{orderId}/cancel", controllers.AdminOrderCancel(params.Checkout, logg))
		})
	})

	r.Route("/internal/v1", func(r chi.Router) {
		r.Use(middleware.InternalToken(cfg.Internal.Token, logg))
		r.Post("/reservations/release-expired", controllers.ReleaseExpiredReservations(params.Sweeper, logg))
	})

	return r
}
