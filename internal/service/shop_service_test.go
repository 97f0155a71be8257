package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogclock/api/internal/memstore"
	"github.com/dogclock/api/internal/models"
)

func newShopService(t *testing.T) (*ShopService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.Seed(context.Background(), models.DefaultProducts(), models.DefaultUser()))
	return NewShopService(store, discardLogger()), store
}

func TestBalance(t *testing.T) {
	svc, _ := newShopService(t)
	ctx := context.Background()
	id := models.DefaultUserID

	balance, err := svc.IncreaseBalance(ctx, id, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, balance)

	balance, err = svc.DecreaseBalance(ctx, id, 12)
	require.NoError(t, err)
	assert.Equal(t, 18, balance)

	_, err = svc.DecreaseBalance(ctx, id, 19)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	got, err := svc.Balance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 18, got)
}

func TestBalanceRejectsBadInput(t *testing.T) {
	svc, _ := newShopService(t)
	ctx := context.Background()

	_, err := svc.IncreaseBalance(ctx, models.DefaultUserID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.DecreaseBalance(ctx, models.DefaultUserID, -3)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.IncreaseBalance(ctx, 77, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Balance(ctx, 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRename(t *testing.T) {
	svc, _ := newShopService(t)
	ctx := context.Background()

	require.NoError(t, svc.Rename(ctx, models.DefaultUserID, "Alex"))
	name, err := svc.Name(ctx, models.DefaultUserID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", name)

	assert.ErrorIs(t, svc.Rename(ctx, models.DefaultUserID, "  "), ErrInvalidInput)
	assert.ErrorIs(t, svc.Rename(ctx, 8, "Alex"), ErrNotFound)
}

func TestPurchaseStacksByName(t *testing.T) {
	svc, _ := newShopService(t)
	ctx := context.Background()

	product, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)

	item, err := svc.Purchase(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, product.Name, item.Name)
	assert.Equal(t, product.Bonus, item.Bonus)

	item, err = svc.Purchase(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestPurchaseRejectsInvalidProduct(t *testing.T) {
	svc, _ := newShopService(t)
	ctx := context.Background()

	_, err := svc.Purchase(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Purchase(ctx, &models.Product{Type: models.ItemTypeMood})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConsume(t *testing.T) {
	svc, _ := newShopService(t)
	ctx := context.Background()

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)

	item, err := svc.Purchase(ctx, &products[2])
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, &products[2])
	require.NoError(t, err)

	require.NoError(t, svc.Consume(ctx, item.ID))
	left, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, left.Quantity)

	require.NoError(t, svc.Consume(ctx, item.ID))
	_, err = svc.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Consume(ctx, item.ID), ErrNotFound)
}
