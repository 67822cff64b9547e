package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Wishlist-Squad/Wishlist/pkg/health"
	"github.com/Wishlist-Squad/Wishlist/pkg/middleware"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	ServiceName    string
	SessionCookie  string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates a chi router with the console page, the JSON action API
// and the operational endpoints. ctx bounds the rate limiter's cleanup loop.
func NewRouter(
	ctx context.Context,
	actions Dispatcher,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	h := NewConsoleHandler(actions, logger)
	limit := middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	formLimit := middleware.RateLimitWith(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger,
		http.HandlerFunc(h.TooManyRequests))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.SessionCookie))
		r.Use(middleware.RequestLogger(logger))

		r.Get("/", h.Index)
		r.With(formLimit).Post("/actions/{action}", h.SubmitForm)

		r.Route("/api/v1/actions", func(r chi.Router) {
			r.Use(limit)
			r.Use(ContentTypeJSON)
			r.Post("/{action}", h.SubmitJSON)
		})
	})

	return r
}
