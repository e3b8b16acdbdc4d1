// Package handler exposes the HTTP surface of the catalog API: request
// decoding and field validation, delegation to the domain services, and the
// mapping of domain errors onto status codes and localized message bodies.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labecommerce/catalog-api/internal/domain/product"
	"github.com/labecommerce/catalog-api/internal/domain/purchase"
	"github.com/labecommerce/catalog-api/internal/domain/user"
)

// Handler wires the HTTP routes to the domain services.
type Handler struct {
	users     *user.Service
	products  *product.Service
	purchases *purchase.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	users *user.Service,
	products *product.Service,
	purchases *purchase.Service,
) *Handler {
	return &Handler{
		users:     users,
		products:  products,
		purchases: purchases,
	}
}

// Routes returns the router for the whole API surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/ping", h.Ping)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.Route("/purchases", func(r chi.Router) {
		r.Get("/", h.ListPurchases)
		r.Post("/", h.CreatePurchase)
		r.Get("/{id}", h.GetPurchase)
		r.Delete("/{id}", h.DeletePurchase)
	})

	return r
}

// Ping answers a plain connectivity check.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Pong!")
}
