package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/auth/me", func(r chi.Router) {
				r.Get("/", s.handleMe)
				r.Put("/password", s.handleChangePassword)
				r.Put("/phone", s.handleSetPhone)
			})

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", s.handleListTodos)
				r.Post("/", s.handleCreateTodo)

				// Static segment, so it wins over /{id}
				r.With(s.adminOnlyMiddleware).Get("/all", s.handleListAllTodos)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetTodo)
					r.Patch("/", s.handleUpdateTodo)
					r.Delete("/", s.handleDeleteTodo)
				})
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(s.adminOnlyMiddleware)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", s.handleListUsers)
					r.Post("/", s.handleCreateUser)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", s.handleGetUser)
						r.Patch("/", s.handleUpdateUser)
						r.Delete("/", s.handleDeleteUser)
					})
				})

				r.Get("/audit", s.handleListAuditEntries)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
