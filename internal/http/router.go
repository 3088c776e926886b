package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Sessions           SessionResolver
	Catalog            Catalog
	Tracker            Tracker
	Uploader           ProductUploader
	Assistant          Assistant
	Describe           func(error) string
	Logger             *zap.Logger
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// NewRouter wires every storefront route under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Describe == nil {
		cfg.Describe = func(err error) string { return err.Error() }
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = 1 << 20
	}

	products := NewProductHandler(cfg.Catalog, cfg.RequestTimeout)
	carts := NewCartHandler(cfg.Catalog, cfg.RequestTimeout)
	checkouts := NewCheckoutHandler(cfg.RequestTimeout)
	orders := NewOrdersHandler(cfg.Tracker, cfg.RequestTimeout)
	auth := NewAuthHandler(cfg.Describe, cfg.RequestTimeout)
	admin := NewAdminHandler(cfg.Uploader, cfg.Describe, cfg.RequestTimeout)
	assistant := NewAssistantHandler(cfg.Assistant, cfg.Catalog, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/{id}", products.GetProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{id}/tracking", orders.GetTracking)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/health", admin.Health)
			r.With(SessionMiddleware(cfg.Sessions)).Post("/products", admin.AddProducts)
		})

		r.Route("/assistant", func(r chi.Router) {
			r.Post("/chat", assistant.Chat)
			r.Post("/recommend", assistant.Recommend)
			r.Get("/products/{id}/pitch", assistant.Pitch)
		})

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Sessions))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", carts.GetCart)
				r.Delete("/", carts.ClearCart)
				r.Post("/items", carts.AddItem)
				r.Put("/items/{id}", carts.UpdateQuantity)
				r.Delete("/items/{id}", carts.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkouts.GetCheckout)
				r.Post("/begin", checkouts.Begin)
				r.Put("/address", checkouts.SetAddress)
				r.Patch("/address", checkouts.UpdateAddressField)
				r.Post("/address/confirm", checkouts.ConfirmAddress)
				r.Post("/back", checkouts.Back)
				r.Put("/payment", checkouts.SelectPayment)
				r.Post("/place", checkouts.PlaceOrder)
				r.Post("/reset", checkouts.Reset)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", auth.Login)
				r.Post("/register", auth.Register)
				r.Post("/logout", auth.Logout)
				r.Get("/me", auth.Me)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
