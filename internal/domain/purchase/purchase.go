package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("'id' do pedido não encontrado")
	ErrDuplicateID    = errors.New("'id' já cadastrada")
	ErrBuyerNotFound  = errors.New("Usuário (buyer) não cadastrado")
	ErrMissingFields  = errors.New("'id' ou 'buyer' devem ser obrigatórios")
	ErrEmptyItems     = errors.New("'products' deve ser obrigatório e não pode estar vazio")
	ErrDuplicateItems = errors.New("'products' não pode conter o mesmo produto mais de uma vez")
)

// ProductNotFoundError identifies which line item referenced a missing product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("O produto %s não foi encontrado", e.ProductID)
}

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("'quantity' inválido para o produto %s. Deve ser um número maior que zero", e.ProductID)
}

// Purchase is an order header. TotalPrice is always derived from the line
// items' quantities and the product prices read at creation time, never
// supplied by the client.
type Purchase struct {
	ID         string
	Buyer      string
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// LineItem is one (product, quantity) row of a purchase. Its identity is the
// (PurchaseID, ProductID) pair.
type LineItem struct {
	PurchaseID string
	ProductID  string
	Quantity   int
}

// Item is a requested (product, quantity) pair before it is persisted.
type Item struct {
	ProductID string
	Quantity  int
}

// ProductLine is a line item joined with its product's catalog fields.
type ProductLine struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
	Quantity    int
}

// CreatedView is the composed response for a freshly created purchase.
type CreatedView struct {
	ID         string
	Buyer      string
	TotalPrice decimal.Decimal
	Products   []ProductLine
}

// Details is the denormalized view of a stored purchase: the header joined
// with its buyer and with each line item's product fields.
type Details struct {
	PurchaseID string
	BuyerID    string
	BuyerName  string
	BuyerEmail string
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	Products   []ProductLine
}

// Repository defines persistence operations for purchases. Create and Delete
// are atomic: either the purchase and all of its line items are written
// (resp. removed), or nothing is.
type Repository interface {
	List(ctx context.Context) ([]Purchase, error)
	GetByID(ctx context.Context, id string) (*Purchase, error)
	GetDetails(ctx context.Context, id string) (*Details, error)
	Create(ctx context.Context, p *Purchase, items []LineItem) error
	Delete(ctx context.Context, id string) error
}
