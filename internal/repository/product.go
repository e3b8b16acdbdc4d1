package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/labecommerce/catalog-api/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, price, description, image_url
		FROM products ORDER BY id`

	searchProductsSQL = `SELECT id, name, price, description, image_url
		FROM products
		WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY id`

	getProductByIDSQL = `SELECT id, name, price, description, image_url
		FROM products WHERE id = $1`

	getProductByNameSQL = `SELECT id, name, price, description, image_url
		FROM products WHERE name = $1`

	getProductsByIDsSQL = `SELECT id, name, price, description, image_url
		FROM products WHERE id = ANY($1)`

	insertProductSQL = `INSERT INTO products (id, name, price, description, image_url)
		VALUES ($1, $2, $3, $4, $5)`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Search returns products whose name or description contains q,
// case-insensitively. The pattern is assembled in SQL from a bind
// parameter, so q is never interpolated into the statement.
func (r *ProductRepository) Search(ctx context.Context, q string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, searchProductsSQL, q)
	if err != nil {
		return nil, fmt.Errorf("searching products %q: %w", q, err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	return r.getOne(ctx, getProductByIDSQL, id)
}

// GetByName returns a single product by its exact name.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*product.Product, error) {
	return r.getOne(ctx, getProductByNameSQL, name)
}

func (r *ProductRepository) getOne(ctx context.Context, sql, arg string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", arg, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", arg, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create persists a new product, mapping unique violations to the domain's
// conflict error.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, insertProductSQL,
		p.ID, p.Name, p.Price, p.Description, p.ImageURL,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "products_pkey"):
		return product.ErrDuplicateID
	default:
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
}

// Update applies only the fields present in the patch.
func (r *ProductRepository) Update(ctx context.Context, id string, p product.Patch) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.ID != nil {
		set("id", *p.ID)
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Price != nil {
		set("price", *p.Price)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.ImageURL != nil {
		set("image_url", *p.ImageURL)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, sql, args...)
	switch {
	case isUniqueViolation(err, "products_pkey"):
		return product.ErrDuplicateID
	case err != nil:
		return fmt.Errorf("updating product %q: %w", id, err)
	case tag.RowsAffected() == 0:
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Name, &price, &p.Description, &p.ImageURL)
	p.Price = price
	return p, err
}
