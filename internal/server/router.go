// Package server assembles the HTTP surface and runs it.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/paylock/docs"
	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/contact"
	"github.com/fkhayef/paylock/internal/debt"
	"github.com/fkhayef/paylock/internal/link"
	"github.com/fkhayef/paylock/internal/location"
	"github.com/fkhayef/paylock/internal/lock"
	"github.com/fkhayef/paylock/internal/notification"
	"github.com/fkhayef/paylock/pkg/response"
)

// Handlers are the feature handlers mounted under /api
type Handlers struct {
	Accounts      *account.Handler
	Links         *link.Handler
	Locations     *location.Handler
	Debts         *debt.Handler
	Locks         *lock.Handler
	Contacts      *contact.Handler
	Notifications *notification.Handler
}

// NewRouter builds the API router. requireAuth guards every route except
// registration, login, health and the API docs.
func NewRouter(h Handlers, requireAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", h.Accounts.Routes(requireAuth))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			links := h.Links.Routes()
			links.Mount("/location", h.Locations.Routes())
			links.Mount("/debt", h.Debts.Routes())
			r.Mount("/link", links)

			r.Mount("/payments", h.Debts.PaymentRoutes())
			r.Mount("/lock", h.Locks.Routes())
			r.Mount("/contacts", h.Contacts.Routes())
			r.Mount("/notifications", h.Notifications.Routes())
		})
	})

	return r
}
