/*
server.go - HTTP router configuration

PURPOSE:
  Wires the chi router: middleware stack, CORS, and every route the POS
  front end calls. Routes are grouped by resource.

SEE ALSO:
  - handlers.go: the handler implementations
  - cmd/server/main.go: server lifecycle
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP router over the given handler.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Order item mutations - the core surface.
	r.Route("/order-items", func(r chi.Router) {
		r.Post("/", h.CreateOrderItem)
		r.Put("/{id}/quantity", h.UpdateOrderItemQuantity)
		r.Delete("/{id}", h.DeleteOrderItem)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/cancel", h.CancelOrder)
	})

	r.Route("/promos", func(r chi.Router) {
		r.Get("/", h.ListPromos)
		r.Post("/", h.CreatePromo)
		r.Get("/{id}", h.GetPromo)
		r.Delete("/{id}", h.DeletePromo)
	})

	r.Route("/menu-items", func(r chi.Router) {
		r.Get("/", h.ListMenuItems)
		r.Post("/", h.CreateMenuItem)
	})

	r.Route("/stock", func(r chi.Router) {
		r.Get("/", h.ListStockItems)
		r.Post("/", h.CreateStockItem)
		r.Get("/low", h.LowStock)
	})

	// Demo data. Development/demo environments only.
	r.Route("/scenarios", func(r chi.Router) {
		r.Get("/", h.ListScenarios)
		r.Post("/load", h.LoadScenario)
	})

	return r
}
