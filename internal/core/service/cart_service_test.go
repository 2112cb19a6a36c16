package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

type cartFixture struct {
	users    *stubUserRepo
	products *stubProductRepo
	svc      *CartService
	userID   string
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	users := newStubUserRepo()
	products := newStubProductRepo()
	u, err := users.Create(context.Background(), &domain.User{Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	return &cartFixture{
		users:    users,
		products: products,
		svc:      NewCartService(users, products, testValidator, discardLogger),
		userID:   u.ID,
	}
}

func (f *cartFixture) product(t *testing.T, title string, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), &domain.Product{
		Title: title, Description: "described", Price: price, StockQuantity: stock, Reviews: []domain.Review{},
	})
	require.NoError(t, err)
	return p
}

func (f *cartFixture) cart() []domain.CartLine {
	return f.users.byID[f.userID].Cart
}

func TestCartService_AddItem_DefaultsQuantity(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)

	lines, err := f.svc.AddItem(context.Background(), f.userID, ports.AddCartItemInput{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.NotEmpty(t, lines[0].ID)
}

func TestCartService_AddItem_MergesSameProduct(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	lines, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 5, f.cart()[0].Quantity)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)

	_, err := f.svc.AddItem(context.Background(), f.userID, ports.AddCartItemInput{ProductID: p.ID, Quantity: 6})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "stock level is low: 5")
	assert.Empty(t, f.cart(), "cart must be unchanged")
}

func TestCartService_AddItem_MergedQuantityExceedsStock(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: p.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: p.ID, Quantity: 2})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 4, f.cart()[0].Quantity)
}

func TestCartService_AddItem_NotFound(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.svc.AddItem(ctx, "ghost", ports.AddCartItemInput{ProductID: p.ID})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), f.userID, ports.AddCartItemInput{})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "productId is required")

	_, err = f.svc.AddItem(context.Background(), f.userID, ports.AddCartItemInput{ProductID: "x", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartService_ListItems_JoinsProducts(t *testing.T) {
	f := newCartFixture(t)
	kettle := f.product(t, "Kettle", 25, 5)
	lamp := f.product(t, "Lamp", 15, 5)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: kettle.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: lamp.ID})
	require.NoError(t, err)

	items, err := f.svc.ListItems(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Kettle", items[0].Product.Title)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Lamp", items[1].Product.Title)
}

func TestCartService_ListItems_MissingProduct(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: p.ID})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, p.ID))

	items, err := f.svc.ListItems(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Product)
}

func TestCartService_ListItems_EmptyCart(t *testing.T) {
	f := newCartFixture(t)

	items, err := f.svc.ListItems(context.Background(), f.userID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCartService_UpdateItem(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)
	ctx := context.Background()

	lines, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: p.ID})
	require.NoError(t, err)
	lineID := lines[0].ID

	line, err := f.svc.UpdateItem(ctx, f.userID, lineID, ports.UpdateCartItemInput{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)

	items, err := f.svc.ListItems(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 4, items[0].Quantity)

	_, err = f.svc.UpdateItem(ctx, f.userID, lineID, ports.UpdateCartItemInput{Quantity: 6})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 4, f.cart()[0].Quantity)

	_, err = f.svc.UpdateItem(ctx, f.userID, lineID, ports.UpdateCartItemInput{Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartService_UpdateItem_MissingLine(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.UpdateItem(context.Background(), f.userID, "missing", ports.UpdateCartItemInput{Quantity: 1})
	require.ErrorIs(t, err, domain.ErrCartItemNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartService_RemoveItem_KeepsProduct(t *testing.T) {
	f := newCartFixture(t)
	p := f.product(t, "Kettle", 25, 5)
	ctx := context.Background()

	lines, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: p.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveItem(ctx, f.userID, lines[0].ID))
	assert.Empty(t, f.cart())

	_, err = f.products.FindByID(ctx, p.ID)
	assert.NoError(t, err, "removing a cart line must not delete the product")

	assert.ErrorIs(t, f.svc.RemoveItem(ctx, f.userID, lines[0].ID), domain.ErrCartItemNotFound)
}

func TestCartService_Checkout(t *testing.T) {
	f := newCartFixture(t)
	kettle := f.product(t, "Kettle", 25, 5)
	lamp := f.product(t, "Lamp", 10, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: kettle.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: lamp.ID, Quantity: 3})
	require.NoError(t, err)

	result, err := f.svc.Checkout(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.InDelta(t, 80.0, result.Total, 1e-9)
	assert.Empty(t, f.cart())

	assert.Equal(t, 3, f.products.byID[kettle.ID].StockQuantity)
	assert.Equal(t, 0, f.products.byID[lamp.ID].StockQuantity)
}

func TestCartService_Checkout_RestoresStockOnShortfall(t *testing.T) {
	f := newCartFixture(t)
	kettle := f.product(t, "Kettle", 25, 5)
	lamp := f.product(t, "Lamp", 10, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: kettle.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.userID, ports.AddCartItemInput{ProductID: lamp.ID, Quantity: 3})
	require.NoError(t, err)

	// Stock drops after the lamp was carted.
	require.NoError(t, f.products.SetStock(ctx, lamp.ID, 1))

	_, err = f.svc.Checkout(ctx, f.userID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 5, f.products.byID[kettle.ID].StockQuantity, "applied decrement must be restored")
	assert.Equal(t, 1, f.products.byID[lamp.ID].StockQuantity)
	assert.Len(t, f.cart(), 2, "cart must be kept on failure")
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.userID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
