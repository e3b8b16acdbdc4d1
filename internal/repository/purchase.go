package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/labecommerce/catalog-api/internal/domain/purchase"
)

const (
	listPurchasesSQL = `SELECT id, buyer, total_price, created_at
		FROM purchases ORDER BY created_at, id`

	getPurchaseByIDSQL = `SELECT id, buyer, total_price, created_at
		FROM purchases WHERE id = $1`

	insertPurchaseSQL = `INSERT INTO purchases (id, buyer, total_price, created_at)
		VALUES ($1, $2, $3, $4)`

	insertLineItemSQL = `INSERT INTO purchases_products (purchase_id, product_id, quantity)
		VALUES ($1, $2, $3)`

	deleteLineItemsSQL = `DELETE FROM purchases_products WHERE purchase_id = $1`

	deletePurchaseSQL = `DELETE FROM purchases WHERE id = $1`

	getPurchaseHeaderSQL = `SELECT
			purchases.id, users.id, users.name, users.email,
			purchases.total_price, purchases.created_at
		FROM purchases
		JOIN users ON purchases.buyer = users.id
		WHERE purchases.id = $1`

	getPurchaseLinesSQL = `SELECT
			purchases_products.product_id, products.name, products.price,
			products.description, products.image_url, purchases_products.quantity
		FROM purchases_products
		JOIN products ON purchases_products.product_id = products.id
		WHERE purchases_products.purchase_id = $1
		ORDER BY purchases_products.product_id`
)

var _ purchase.Repository = (*PurchaseRepository)(nil)

// PurchaseRepository implements purchase.Repository backed by PostgreSQL.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository returns a PurchaseRepository that uses the given pool.
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

// List returns all purchase headers in creation order.
func (r *PurchaseRepository) List(ctx context.Context) ([]purchase.Purchase, error) {
	rows, err := r.pool.Query(ctx, listPurchasesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	return pgx.CollectRows(rows, scanPurchase)
}

// GetByID returns a single purchase header by its identifier.
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*purchase.Purchase, error) {
	rows, err := r.pool.Query(ctx, getPurchaseByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting purchase %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPurchase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, purchase.ErrNotFound
		}
		return nil, fmt.Errorf("getting purchase %q: %w", id, err)
	}
	return &p, nil
}

// Create persists the purchase header and all of its line items in a single
// transaction, so no partial write survives a failure. The header goes in
// first because purchases_products carries a foreign key to it; the items
// only become visible together with the header at commit.
func (r *PurchaseRepository) Create(ctx context.Context, p *purchase.Purchase, items []purchase.LineItem) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertPurchaseSQL,
			p.ID, p.Buyer, p.TotalPrice, p.CreatedAt,
		); err != nil {
			return err
		}
		for _, item := range items {
			if _, err := tx.Exec(ctx, insertLineItemSQL,
				item.PurchaseID, item.ProductID, item.Quantity,
			); err != nil {
				return err
			}
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "purchases_pkey"):
		return purchase.ErrDuplicateID
	case isUniqueViolation(err, "purchases_products_pkey"):
		return purchase.ErrDuplicateItems
	default:
		return fmt.Errorf("creating purchase %q: %w", p.ID, err)
	}
}

// GetDetails returns the denormalized view: the header joined with its buyer,
// plus every line item joined with its product.
func (r *PurchaseRepository) GetDetails(ctx context.Context, id string) (*purchase.Details, error) {
	var d purchase.Details
	err := r.pool.QueryRow(ctx, getPurchaseHeaderSQL, id).Scan(
		&d.PurchaseID, &d.BuyerID, &d.BuyerName, &d.BuyerEmail,
		&d.TotalPrice, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, purchase.ErrNotFound
		}
		return nil, fmt.Errorf("getting purchase details %q: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, getPurchaseLinesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting purchase lines %q: %w", id, err)
	}
	lines, err := pgx.CollectRows(rows, scanProductLine)
	if err != nil {
		return nil, fmt.Errorf("getting purchase lines %q: %w", id, err)
	}
	d.Products = lines

	return &d, nil
}

// Delete removes a purchase's line items and then the purchase itself,
// child before parent, inside one transaction.
func (r *PurchaseRepository) Delete(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteLineItemsSQL, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, deletePurchaseSQL, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return purchase.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, purchase.ErrNotFound) {
			return purchase.ErrNotFound
		}
		return fmt.Errorf("deleting purchase %q: %w", id, err)
	}
	return nil
}

func scanPurchase(row pgx.CollectableRow) (purchase.Purchase, error) {
	var (
		p     purchase.Purchase
		total decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Buyer, &total, &p.CreatedAt)
	p.TotalPrice = total
	return p, err
}

func scanProductLine(row pgx.CollectableRow) (purchase.ProductLine, error) {
	var (
		l     purchase.ProductLine
		price decimal.Decimal
	)
	err := row.Scan(&l.ID, &l.Name, &price, &l.Description, &l.ImageURL, &l.Quantity)
	l.Price = price
	return l, err
}
