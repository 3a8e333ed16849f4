package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/snaplink/snaplink/internal/middleware"
)

// RouterConfig holds the handlers and middleware settings for NewRouter.
type RouterConfig struct {
	Links     *LinkHandler
	Redirects *RedirectHandler
	Health    *HealthHandler
	Metrics   *MetricsHandler

	Logger             *slog.Logger
	Security           middleware.SecurityConfig
	CORS               middleware.CORSConfig
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
// Fixed routes are matched before /{shortCode}; codes that would collide
// with them are refused at creation.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	r.Route("/shorturls", func(r chi.Router) {
		r.Post("/", cfg.Links.Create)
		r.Get("/", cfg.Links.List)
		r.Get("/{shortcode}", cfg.Links.Get)
	})

	r.Get("/{shortCode}", cfg.Redirects.Redirect)

	return r
}
