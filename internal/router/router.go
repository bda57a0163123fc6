package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mingle/internal/config"
	"mingle/internal/handler"
	"mingle/internal/middleware"
	"mingle/internal/middleware/metrics"
	"mingle/internal/middleware/ratelimiter"
)

// New assembles the route table. Everything under the authenticated group
// redirects anonymous visitors to /login; credential endpoints are limited
// per IP, content writes per user.
func New(h *handler.Handler, auth *middleware.Auth, cfg config.Public) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders(cfg.SecureCookies))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// burst of 5 login/register attempts, then one every 2 seconds
	credentialLimiter := ratelimiter.New(0.5, 5, time.Hour)
	// posts, comments and messages share one per-user budget
	contentLimiter := ratelimiter.New(1, 10, time.Hour)

	r.Group(func(r chi.Router) {
		r.Get("/login", h.LoginGet)
		r.Get("/register", h.RegisterGet)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(credentialLimiter, middleware.ByIP))
			r.Post("/login", h.LoginPost)
			r.Post("/register", h.RegisterPost)
		})

		r.Get("/health", h.Health)
		r.Get("/ready", h.Ready)
		r.Handle("/metrics", promhttp.Handler())
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth())

		r.Get("/", h.FeedGet)
		r.Get("/chat/{userId}", h.ChatGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(contentLimiter, middleware.ByUser))
			r.Post("/posts", h.PostCreate)
			r.Post("/posts/{postId}/comments", h.CommentCreate)
			r.Post("/chat/{userId}", h.ChatPost)
		})
	})

	return r
}
