package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/v1/register", h.register)
		r.Post("/api/v1/login", h.login)
		r.Post("/api/v1/resetpw/code", h.confirmPasswordReset)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/v1/resetpw/{username}", h.requestPasswordReset)
		r.Delete("/api/v1/users/{username}", h.deleteUser)
		r.Put("/api/v1/users", h.updateUser)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
