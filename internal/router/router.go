// Package router sets up all HTTP routes and middleware chains for the
// ProViewz API. Routes are grouped into public reads, authenticated
// writes, and rate-limited auth and engagement endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"proviewz/internal/handlers"
	"proviewz/internal/metrics"
	"proviewz/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter and m may be nil.
func New(tokens middleware.TokenVerifier, limiter *middleware.RateLimiter, m *metrics.Metrics, auth *handlers.Auth, posts *handlers.Posts, notes *handlers.Notifications) chi.Router {
	r := chi.NewRouter()

	limit := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		limit = limiter.Middleware
	}

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger(m))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Authenticate(tokens))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(limit).Post("/register", auth.Register)
		r.With(limit).Post("/login", auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCaller)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)
		})
	})

	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/", auth.GetUser)

		// Owner checks happen in the service.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCaller)
			r.Put("/", auth.UpdateUser)
			r.Delete("/", auth.DeleteUser)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", posts.List)
		r.Get("/categories", posts.Categories)
		r.Get("/{id}", posts.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCaller)
			r.Post("/", posts.Create)
			r.Put("/{id}", posts.Update)
			r.Delete("/{id}", posts.Delete)

			// Engagement
			r.Group(func(r chi.Router) {
				r.Use(limit)
				r.Post("/{id}/like", posts.Like)
				r.Post("/{id}/comment", posts.Comment)
				r.Post("/{id}/rate", posts.Rate)
			})
		})
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireCaller)
		r.Get("/", notes.List)
		r.Get("/unread-count", notes.UnreadCount)
		r.Post("/{id}/read", notes.MarkRead)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
