package purchase

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labecommerce/catalog-api/internal/domain/product"
	"github.com/labecommerce/catalog-api/internal/domain/user"
)

// --- Mock implementations ---

type mockPurchaseRepo struct {
	byID      map[string]*Purchase
	details   map[string]*Details
	created   *Purchase
	items     []LineItem
	deletedID string
	createErr error
}

func newPurchaseRepo(purchases ...Purchase) *mockPurchaseRepo {
	m := &mockPurchaseRepo{
		byID:    make(map[string]*Purchase, len(purchases)),
		details: make(map[string]*Details),
	}
	for i := range purchases {
		m.byID[purchases[i].ID] = &purchases[i]
	}
	return m
}

func (m *mockPurchaseRepo) List(_ context.Context) ([]Purchase, error) {
	out := make([]Purchase, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPurchaseRepo) GetByID(_ context.Context, id string) (*Purchase, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPurchaseRepo) GetDetails(_ context.Context, id string) (*Details, error) {
	d, ok := m.details[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockPurchaseRepo) Create(_ context.Context, p *Purchase, items []LineItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = p
	m.items = items
	return nil
}

func (m *mockPurchaseRepo) Delete(_ context.Context, id string) error {
	m.deletedID = id
	return nil
}

type mockUserRepo struct {
	byID map[string]*user.User
}

func newUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{byID: make(map[string]*user.User, len(users))}
	for i := range users {
		m.byID[users[i].ID] = &users[i]
	}
	return m
}

func (m *mockUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) Create(_ context.Context, _ *user.User) error            { return nil }
func (m *mockUserRepo) Update(_ context.Context, _ string, _ user.Patch) error  { return nil }
func (m *mockUserRepo) Delete(_ context.Context, _ string) error                { return nil }

type mockProductRepo struct {
	byID map[string]*product.Product
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	m := &mockProductRepo{byID: make(map[string]*product.Product, len(products))}
	for i := range products {
		m.byID[products[i].ID] = &products[i]
	}
	return m
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error)           { return nil, nil }
func (m *mockProductRepo) Search(_ context.Context, _ string) ([]product.Product, error) { return nil, nil }

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByName(_ context.Context, _ string) (*product.Product, error) {
	return nil, product.ErrNotFound
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error            { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ string, _ product.Patch) error     { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ string) error                      { return nil }

// --- Helpers ---

func testBuyer() user.User {
	return user.User{ID: "u001", Name: "Fulano", Email: "fulano@gmail.com"}
}

func testProduct(id, name, price string) product.Product {
	return product.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Description: "desc " + name,
		ImageURL:    "https://picsum.photos/seed/" + id + "/400",
	}
}

func newService(purchases *mockPurchaseRepo, products ...product.Product) *Service {
	return NewService(purchases, newUserRepo(testBuyer()), newProductRepo(products...))
}

// --- Tests ---

func TestCreatePurchase(t *testing.T) {
	repo := newPurchaseRepo()
	svc := newService(repo, testProduct("prod001", "Mouse gamer", "250"))

	view, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{{ProductID: "prod001", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "p001", view.ID)
	assert.Equal(t, "u001", view.Buyer)
	assert.True(t, decimal.RequireFromString("500").Equal(view.TotalPrice),
		"totalPrice must be quantity × current price, got %s", view.TotalPrice)

	require.Len(t, view.Products, 1)
	assert.Equal(t, "Mouse gamer", view.Products[0].Name)
	assert.Equal(t, 2, view.Products[0].Quantity)

	require.NotNil(t, repo.created)
	require.Len(t, repo.items, 1)
	assert.Equal(t, LineItem{PurchaseID: "p001", ProductID: "prod001", Quantity: 2}, repo.items[0])
}

func TestCreatePurchase_MultipleItems(t *testing.T) {
	repo := newPurchaseRepo()
	svc := newService(repo,
		testProduct("prod001", "Mouse gamer", "250"),
		testProduct("prod002", "Monitor", "900"),
	)

	view, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{
			{ProductID: "prod001", Quantity: 2},
			{ProductID: "prod002", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1400").Equal(view.TotalPrice))
	assert.Len(t, repo.items, 2)
}

func TestCreatePurchase_MissingFields(t *testing.T) {
	svc := newService(newPurchaseRepo())

	_, err := svc.Create(context.Background(), CreateRequest{Buyer: "u001", Items: []Item{{ProductID: "prod001", Quantity: 1}}})
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Create(context.Background(), CreateRequest{ID: "p001", Items: []Item{{ProductID: "prod001", Quantity: 1}}})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestCreatePurchase_EmptyItems(t *testing.T) {
	svc := newService(newPurchaseRepo())

	_, err := svc.Create(context.Background(), CreateRequest{ID: "p001", Buyer: "u001"})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestCreatePurchase_InvalidQuantity(t *testing.T) {
	svc := newService(newPurchaseRepo(), testProduct("prod001", "Mouse gamer", "250"))

	_, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{{ProductID: "prod001", Quantity: 0}},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "prod001", iqErr.ProductID)
}

func TestCreatePurchase_DuplicateItems(t *testing.T) {
	svc := newService(newPurchaseRepo(), testProduct("prod001", "Mouse gamer", "250"))

	_, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{
			{ProductID: "prod001", Quantity: 1},
			{ProductID: "prod001", Quantity: 2},
		},
	})
	require.ErrorIs(t, err, ErrDuplicateItems)
}

func TestCreatePurchase_DuplicateID(t *testing.T) {
	existing := Purchase{ID: "p001", Buyer: "u001"}
	svc := newService(newPurchaseRepo(existing), testProduct("prod001", "Mouse gamer", "250"))

	_, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{{ProductID: "prod001", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestCreatePurchase_BuyerNotFound(t *testing.T) {
	repo := newPurchaseRepo()
	svc := newService(repo, testProduct("prod001", "Mouse gamer", "250"))

	_, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u404",
		Items: []Item{{ProductID: "prod001", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrBuyerNotFound)
	assert.Nil(t, repo.created, "no purchase may be written for an unknown buyer")
	assert.Nil(t, repo.items, "no line items may be written for an unknown buyer")
}

func TestCreatePurchase_ProductNotFound(t *testing.T) {
	repo := newPurchaseRepo()
	svc := newService(repo, testProduct("prod001", "Mouse gamer", "250"))

	_, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{
			{ProductID: "prod001", Quantity: 1},
			{ProductID: "prod999", Quantity: 3},
		},
	})

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "prod999", pnfErr.ProductID)
	assert.Nil(t, repo.items, "a failed validation must not leave line items behind")
}

func TestCreatePurchase_RetryAfterFix(t *testing.T) {
	repo := newPurchaseRepo()
	svc := newService(repo,
		testProduct("prod001", "Mouse gamer", "250"),
		testProduct("prod002", "Monitor", "900"),
	)

	// First attempt references an unknown product and fails.
	_, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{{ProductID: "prod999", Quantity: 1}},
	})
	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)

	// Retrying with the same id after fixing the bad item succeeds and
	// carries only the fixed items.
	view, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{{ProductID: "prod002", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("900").Equal(view.TotalPrice))
	require.Len(t, repo.items, 1)
	assert.Equal(t, "prod002", repo.items[0].ProductID)
}

func TestCreatePurchase_RepoError(t *testing.T) {
	repo := newPurchaseRepo()
	repo.createErr = errors.New("db write failed")
	svc := newService(repo, testProduct("prod001", "Mouse gamer", "250"))

	_, err := svc.Create(context.Background(), CreateRequest{
		ID:    "p001",
		Buyer: "u001",
		Items: []Item{{ProductID: "prod001", Quantity: 1}},
	})
	require.Error(t, err)
}

func TestGetPurchaseByID(t *testing.T) {
	repo := newPurchaseRepo()
	repo.details["p001"] = &Details{
		PurchaseID: "p001",
		BuyerID:    "u001",
		BuyerName:  "Fulano",
		BuyerEmail: "fulano@gmail.com",
		TotalPrice: decimal.RequireFromString("500"),
		Products: []ProductLine{
			{ID: "prod001", Name: "Mouse gamer", Price: decimal.RequireFromString("250"), Quantity: 2},
		},
	}
	svc := newService(repo)

	d, err := svc.GetByID(context.Background(), "p001")
	require.NoError(t, err)
	assert.Equal(t, "Fulano", d.BuyerName)
	require.Len(t, d.Products, 1)
	assert.Equal(t, 2, d.Products[0].Quantity)
}

func TestGetPurchaseByID_NotFound(t *testing.T) {
	svc := newService(newPurchaseRepo())

	_, err := svc.GetByID(context.Background(), "p404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePurchase(t *testing.T) {
	existing := Purchase{ID: "p001", Buyer: "u001"}
	repo := newPurchaseRepo(existing)
	svc := newService(repo)

	require.NoError(t, svc.Delete(context.Background(), "p001"))
	assert.Equal(t, "p001", repo.deletedID)
}

func TestDeletePurchase_NotFound(t *testing.T) {
	repo := newPurchaseRepo()
	svc := newService(repo)

	err := svc.Delete(context.Background(), "p404")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, repo.deletedID)
}
