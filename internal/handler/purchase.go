package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/labecommerce/catalog-api/internal/domain/purchase"
	"github.com/labecommerce/catalog-api/internal/validate"
)

var purchaseTypeMsgs = map[string]string{
	"id":        "'id' ou 'buyer' devem ser string",
	"buyer":     "'id' ou 'buyer' devem ser string",
	"productId": "'id' do produto deve ser string",
	"quantity":  "'quantity' deve ser number",
}

type purchaseReq struct {
	ID       *string           `json:"id"`
	Buyer    *string           `json:"buyer"`
	Products []purchaseItemReq `json:"products"`
}

type purchaseItemReq struct {
	ProductID *string `json:"productId"`
	Quantity  *int    `json:"quantity"`
}

type purchaseView struct {
	ID         string    `json:"id"`
	Buyer      string    `json:"buyer"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

type lineView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Quantity    int     `json:"quantity"`
}

type createdPurchaseView struct {
	ID         string     `json:"id"`
	Buyer      string     `json:"buyer"`
	TotalPrice float64    `json:"totalPrice"`
	Products   []lineView `json:"products"`
}

type purchaseDetailsView struct {
	PurchaseID string     `json:"purchaseId"`
	BuyerID    string     `json:"buyerId"`
	BuyerName  string     `json:"buyerName"`
	BuyerEmail string     `json:"buyerEmail"`
	TotalPrice float64    `json:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt"`
	Products   []lineView `json:"products"`
}

func toLineViews(lines []purchase.ProductLine) []lineView {
	views := make([]lineView, len(lines))
	for i, l := range lines {
		views[i] = lineView{
			ID:          l.ID,
			Name:        l.Name,
			Price:       l.Price.InexactFloat64(),
			Description: l.Description,
			ImageURL:    l.ImageURL,
			Quantity:    l.Quantity,
		}
	}
	return views
}

// ListPurchases handles GET /purchases.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchases.List(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	views := make([]purchaseView, len(purchases))
	for i, p := range purchases {
		views[i] = purchaseView{
			ID:         p.ID,
			Buyer:      p.Buyer,
			TotalPrice: p.TotalPrice.InexactFloat64(),
			CreatedAt:  p.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, views)
}

// GetPurchase handles GET /purchases/{id}, returning the purchase joined
// with its buyer and each line item's product fields.
func (h *Handler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.IDPrefix(id, 'p'); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	details, err := h.purchases.GetByID(r.Context(), id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, purchaseDetailsView{
		PurchaseID: details.PurchaseID,
		BuyerID:    details.BuyerID,
		BuyerName:  details.BuyerName,
		BuyerEmail: details.BuyerEmail,
		TotalPrice: details.TotalPrice.InexactFloat64(),
		CreatedAt:  details.CreatedAt,
		Products:   toLineViews(details.Products),
	})
}

// CreatePurchase handles POST /purchases.
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseReq
	if err := decodeJSON(r, &req, purchaseTypeMsgs); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var id, buyer string
	if req.ID != nil {
		id = *req.ID
	}
	if req.Buyer != nil {
		buyer = *req.Buyer
	}
	if id == "" || buyer == "" {
		respondError(r.Context(), w, purchase.ErrMissingFields)
		return
	}
	if len(req.Products) == 0 {
		respondError(r.Context(), w, purchase.ErrEmptyItems)
		return
	}

	items := make([]purchase.Item, len(req.Products))
	for i, item := range req.Products {
		if item.ProductID == nil || *item.ProductID == "" {
			respondError(r.Context(), w, validate.Fail("productId", purchaseTypeMsgs["productId"]))
			return
		}
		if item.Quantity == nil {
			respondError(r.Context(), w, validate.Fail("quantity", purchaseTypeMsgs["quantity"]))
			return
		}
		items[i] = purchase.Item{
			ProductID: *item.ProductID,
			Quantity:  *item.Quantity,
		}
	}

	if err := validate.IDPrefix(id, 'p'); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	created, err := h.purchases.Create(r.Context(), purchase.CreateRequest{
		ID:    id,
		Buyer: buyer,
		Items: items,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Pedido cadastrado com sucesso!",
		"purchased": createdPurchaseView{
			ID:         created.ID,
			Buyer:      created.Buyer,
			TotalPrice: created.TotalPrice.InexactFloat64(),
			Products:   toLineViews(created.Products),
		},
	})
}

// DeletePurchase handles DELETE /purchases/{id}. The purchase and its line
// items go away together.
func (h *Handler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.IDPrefix(id, 'p'); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := h.purchases.Delete(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Pedido apagado com sucesso")
}
