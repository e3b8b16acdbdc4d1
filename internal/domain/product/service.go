package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// CreateRequest holds the input for adding a product to the catalog.
type CreateRequest struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// Service encapsulates catalog business logic.
type Service struct {
	products Repository
}

// NewService creates a product Service backed by the given repository.
func NewService(products Repository) *Service {
	return &Service{products: products}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.products.List(ctx)
}

// Search returns products matching q on name or description.
func (s *Service) Search(ctx context.Context, q string) ([]Product, error) {
	return s.products.Search(ctx, q)
}

// Create adds a product. The id check runs before the name check so its
// failure wins when both collide; the database constraints remain the
// backstop against concurrent creates.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Product, error) {
	if _, err := s.products.GetByID(ctx, req.ID); err == nil {
		return nil, ErrDuplicateID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check product id")
	}

	if _, err := s.products.GetByName(ctx, req.Name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check product name")
	}

	p := &Product{
		ID:          req.ID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial update. Fields absent from the patch keep their
// stored value, including falsy-but-valid ones like a zero price.
func (s *Service) Update(ctx context.Context, id string, p Patch) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	return s.products.Update(ctx, id, p)
}

// Delete removes the product with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}
