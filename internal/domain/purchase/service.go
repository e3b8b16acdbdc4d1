package purchase

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/labecommerce/catalog-api/internal/domain/product"
	"github.com/labecommerce/catalog-api/internal/domain/user"
)

// CreateRequest holds the input for placing a purchase.
type CreateRequest struct {
	ID    string
	Buyer string
	Items []Item
}

// Service orchestrates the purchase workflows: creation (validate buyer and
// items, price the cart from current catalog prices, persist atomically),
// retrieval (denormalized join view), and deletion (line items before the
// header).
type Service struct {
	purchases Repository
	users     user.Repository
	products  product.Repository
	now       func() time.Time
}

// NewService creates a purchase Service with the required domain dependencies.
func NewService(purchases Repository, users user.Repository, products product.Repository) *Service {
	return &Service{
		purchases: purchases,
		users:     users,
		products:  products,
		now:       time.Now,
	}
}

// List returns every purchase header.
func (s *Service) List(ctx context.Context) ([]Purchase, error) {
	return s.purchases.List(ctx)
}

// Create places a purchase. The total is computed from the product prices
// read from storage at this moment, not from anything in the request, and
// the purchase plus all line items are persisted in a single transaction so
// a failure leaves no partial writes behind.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreatedView, error) {
	if req.ID == "" || req.Buyer == "" {
		return nil, ErrMissingFields
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate the line items before touching storage.
	ids := make([]string, len(req.Items))
	seen := make(map[string]struct{}, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, ErrDuplicateItems
		}
		seen[item.ProductID] = struct{}{}
		ids[i] = item.ProductID
	}

	if _, err := s.purchases.GetByID(ctx, req.ID); err == nil {
		return nil, ErrDuplicateID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check purchase id")
	}

	if _, err := s.users.GetByID(ctx, req.Buyer); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrBuyerNotFound
		}
		return nil, errors.Wrap(err, "get buyer")
	}

	// Batch fetch the referenced products and verify each one exists,
	// reporting the first missing id in request order.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}
	for _, item := range req.Items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
	}

	// Total = Σ quantity × current price, from the rows just read.
	total := decimal.Zero
	lines := make([]ProductLine, len(req.Items))
	items := make([]LineItem, len(req.Items))
	for i, item := range req.Items {
		p := byID[item.ProductID]
		qty := decimal.NewFromInt(int64(item.Quantity))
		total = total.Add(p.Price.Mul(qty))

		lines[i] = ProductLine{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Quantity:    item.Quantity,
		}
		items[i] = LineItem{
			PurchaseID: req.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
		}
	}

	p := &Purchase{
		ID:         req.ID,
		Buyer:      req.Buyer,
		TotalPrice: total.Round(2),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.purchases.Create(ctx, p, items); err != nil {
		return nil, err
	}

	return &CreatedView{
		ID:         p.ID,
		Buyer:      p.Buyer,
		TotalPrice: p.TotalPrice,
		Products:   lines,
	}, nil
}

// GetByID returns the denormalized view of one purchase.
func (s *Service) GetByID(ctx context.Context, id string) (*Details, error) {
	return s.purchases.GetDetails(ctx, id)
}

// Delete removes a purchase and all of its line items.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.purchases.GetByID(ctx, id); err != nil {
		return err
	}
	return s.purchases.Delete(ctx, id)
}
