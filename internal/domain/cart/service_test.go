// internal/domain/cart/service_test.go
package cart

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

func newTestService() (*Service, storage.Store) {
	store := storage.NewMemoryStore()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(store, logger), store
}

func testProduct(id string, price float64, stock int) *product.Product {
	return &product.Product{
		ID:           id,
		Name:         "Product " + id,
		Image:        "/images/" + id + ".jpg",
		Category:     "Electronics",
		Price:        price,
		CountInStock: stock,
	}
}

func TestAddIncreasesCountByClampedQuantity(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		qty       int
		wantCount int
	}{
		{"within stock", 10, 3, 3},
		{"exactly stock", 5, 5, 5},
		{"over stock clamps", 4, 9, 4},
		{"zero defaults to one", 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			ctx := context.Background()

			_, err := svc.Add(ctx, "s1", testProduct("p1", 100, tt.stock), tt.qty)
			require.NoError(t, err)

			count, err := svc.Count(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestAddExistingMergesAndClamps(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	prod := testProduct("p1", 100, 5)

	_, err := svc.Add(ctx, "s1", prod, 3)
	require.NoError(t, err)

	c, err := svc.Add(ctx, "s1", prod, 4)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddOutOfStockProductIsNotInserted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c, err := svc.Add(ctx, "s1", testProduct("p1", 100, 0), 2)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestUpdateQuantityClampIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", testProduct("p1", 100, 7), 1)
	require.NoError(t, err)

	for _, qty := range []int{8, 100, 7000} {
		c, err := svc.UpdateQuantity(ctx, "s1", "p1", qty)
		require.NoError(t, err)
		assert.Equal(t, 7, c.Items[0].Quantity)
	}
}

func TestUpdateQuantityBelowOneRemoves(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", testProduct("p1", 100, 7), 2)
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, "s1", "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestRemoveThenAddRestoresLineItem(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	prod := testProduct("p1", 249.5, 9)

	before, err := svc.Add(ctx, "s1", prod, 3)
	require.NoError(t, err)
	original := before.Items[0]

	_, err = svc.Remove(ctx, "s1", "p1")
	require.NoError(t, err)

	after, err := svc.Add(ctx, "s1", prod, 3)
	require.NoError(t, err)

	require.Len(t, after.Items, 1)
	restored := after.Items[0]
	assert.Equal(t, original.ProductID, restored.ProductID)
	assert.Equal(t, original.Name, restored.Name)
	assert.Equal(t, original.Price, restored.Price)
	assert.Equal(t, original.Quantity, restored.Quantity)
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", testProduct("p1", 100, 5), 1)
	require.NoError(t, err)

	c, err := svc.Remove(ctx, "s1", "missing")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestTotalIsRecomputedFold(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", testProduct("p1", 600, 10), 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", testProduct("p2", 150, 10), 3)
	require.NoError(t, err)

	total, err := svc.Total(ctx, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 1650.0, total, 1e-9)

	_, err = svc.UpdateQuantity(ctx, "s1", "p2", 1)
	require.NoError(t, err)

	total, err = svc.Total(ctx, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 1350.0, total, 1e-9)
}

func TestCountSumsQuantitiesNotLines(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", testProduct("p1", 100, 10), 4)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", testProduct("p2", 200, 10), 2)
	require.NoError(t, err)

	count, err := svc.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	c, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Totals().ItemCount)
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctx := context.Background()

	first := NewService(store, logger)
	_, err := first.Add(ctx, "s1", testProduct("p1", 600, 10), 2)
	require.NoError(t, err)
	_, err = first.Add(ctx, "s1", testProduct("p2", 150, 3), 5)
	require.NoError(t, err)

	before, err := first.Get(ctx, "s1")
	require.NoError(t, err)

	// Simulate a reload: a fresh service hydrating from the same store
	second := NewService(store, logger)
	after, err := second.Get(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Totals(), after.Totals())
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", testProduct("p1", 100, 5), 1)
	require.NoError(t, err)

	other, err := svc.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestClearEmptiesCart(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", testProduct("p1", 100, 5), 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "s1"))

	c, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}
