package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("Produto não encontrado")
	ErrDuplicateID   = errors.New("Esse id já existe")
	ErrDuplicateName = errors.New("Esse nome já existe")
)

// Product represents a catalog item available for purchase. Price is a
// decimal to keep money arithmetic exact end to end.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// Patch carries a partial update. Nil means "leave unchanged"; a non-nil
// pointer is applied even when it points at a zero value (empty string,
// zero price).
type Patch struct {
	ID          *string
	Name        *string
	Price       *decimal.Decimal
	Description *string
	ImageURL    *string
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	// Search returns products whose name or description contains q,
	// case-insensitively.
	Search(ctx context.Context, q string) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByName(ctx context.Context, name string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
}
