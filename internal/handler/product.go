package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/labecommerce/catalog-api/internal/domain/product"
	"github.com/labecommerce/catalog-api/internal/validate"
)

var productTypeMsgs = map[string]string{
	"id":          "'id' inválido. Deve ser uma string",
	"name":        "'name' inválido. Deve ser uma string",
	"price":       "'price' inválido. Deve ser um number",
	"description": "'description' inválido. Deve ser uma string",
	"imageUrl":    "'imageUrl' inválido. Deve ser uma string",
}

type productReq struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	// Raw so that a quoted number like "120" is still rejected; json.Number
	// accepts those.
	Price       *json.RawMessage `json:"price"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
}

// parsePrice accepts only a bare non-negative JSON number and converts it
// to a decimal.
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '"' {
		return decimal.Decimal{}, validate.Fail("price", productTypeMsgs["price"])
	}
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return decimal.Decimal{}, validate.Fail("price", productTypeMsgs["price"])
	}
	if d.IsNegative() {
		return decimal.Decimal{}, validate.Fail("price",
			"'price' inválido. Deve ser um number maior ou igual a zero")
	}
	return d, nil
}

// productView is the wire shape of a catalog product. Price goes out as a
// JSON number, not the decimal's string form.
type productView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

func toProductView(p product.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}

func toProductViews(products []product.Product) []productView {
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = toProductView(p)
	}
	return views
}

// ListProducts handles GET /products. With a non-empty "name" query the
// catalog is filtered by substring match on name or description; without it
// the whole catalog is returned.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []product.Product
		err      error
	)
	if !r.URL.Query().Has("name") {
		products, err = h.products.List(r.Context())
	} else {
		q := r.URL.Query().Get("name")
		if verr := validate.MinLen("name", q, 1); verr != nil {
			respondError(r.Context(), w, verr)
			return
		}
		products, err = h.products.Search(r.Context(), q)
	}
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductViews(products))
}

// CreateProduct handles POST /products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := decodeJSON(r, &req, productTypeMsgs); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if req.ID == nil || req.Name == nil || req.Price == nil ||
		req.Description == nil || req.ImageURL == nil {
		respondError(r.Context(), w, validate.Fail("body",
			"O body precisa ter todos os atributos: 'id', 'name', 'price', 'description' e 'imageUrl'"))
		return
	}
	if err := validate.MinLen("id", *req.ID, 4); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := validate.MinLen("name", *req.Name, 2); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	price, err := parsePrice(*req.Price)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if verr := validate.MinLen("description", *req.Description, 2); verr != nil {
		respondError(r.Context(), w, verr)
		return
	}
	if verr := validate.MinLen("imageUrl", *req.ImageURL, 2); verr != nil {
		respondError(r.Context(), w, verr)
		return
	}

	created, err := h.products.Create(r.Context(), product.CreateRequest{
		ID:          *req.ID,
		Name:        *req.Name,
		Price:       price,
		Description: *req.Description,
		ImageURL:    *req.ImageURL,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Produto cadastrado com sucesso",
		"product": toProductView(*created),
	})
}

// UpdateProduct handles PUT /products/{id}. Only the fields present in the
// body are validated and applied; an explicit zero price is applied as-is.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := decodeJSON(r, &req, productTypeMsgs); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	patch := product.Patch{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.ID != nil {
		if err := validate.MinLen("id", *req.ID, 4); err != nil {
			respondError(r.Context(), w, err)
			return
		}
	}
	if req.Name != nil {
		if err := validate.MinLen("name", *req.Name, 2); err != nil {
			respondError(r.Context(), w, err)
			return
		}
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			respondError(r.Context(), w, err)
			return
		}
		patch.Price = &price
	}
	if req.Description != nil {
		if err := validate.MinLen("description", *req.Description, 2); err != nil {
			respondError(r.Context(), w, err)
			return
		}
	}
	if req.ImageURL != nil {
		if err := validate.MinLen("imageUrl", *req.ImageURL, 2); err != nil {
			respondError(r.Context(), w, err)
			return
		}
	}

	if err := h.products.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Produto atualizado com sucesso")
}

// DeleteProduct handles DELETE /products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.IDPrefix(id, 'p'); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Produto apagado com sucesso")
}
