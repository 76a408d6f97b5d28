package api

import (
	"net/http"
	"time"

	"pinshop/internal/api/handler"
	"pinshop/internal/api/middleware"
	"pinshop/internal/app/service"
	"pinshop/internal/common/security"
	"pinshop/internal/platform/logging"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	AllowedOrigins []string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
}

func NewRouter(
	accountService *service.AccountService,
	catalogService *service.CatalogService,
	cartService *service.CartService,
	sessions security.SessionStore,
	log logging.Logger,
	opts RouterOptions,
) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("E-Commerce backend running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authn := middleware.Authenticator(sessions, log)

	handler.NewAuthHandler(accountService, opts.SessionTTL).RegisterRoutes(r)
	handler.NewProductHandler(catalogService).RegisterRoutes(r, authn)

	cartHandler := handler.NewCartHandler(cartService)
	r.Route("/cart", func(cart chi.Router) {
		cart.Use(authn)
		cartHandler.RegisterRoutes(cart)
	})

	return r
}
