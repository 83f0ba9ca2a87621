// internal/domain/wishlist/service_test.go
package wishlist

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

func newTestService() *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(storage.NewMemoryStore(), logger)
}

func testProduct(id string) *product.Product {
	return &product.Product{
		ID:           id,
		Name:         "Product " + id,
		Price:        500,
		CountInStock: 3,
	}
}

func TestToggleAddsThenRemoves(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	prod := testProduct("p1")

	w, err := svc.Toggle(ctx, "s1", prod)
	require.NoError(t, err)
	assert.True(t, w.Contains("p1"))

	// Second toggle cancels the first
	w, err = svc.Toggle(ctx, "s1", prod)
	require.NoError(t, err)
	assert.False(t, w.Contains("p1"))
	assert.Empty(t, w.Items)
}

func TestToggleKeepsOtherItems(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "s1", testProduct("p1"))
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "s1", testProduct("p2"))
	require.NoError(t, err)

	w, err := svc.Toggle(ctx, "s1", testProduct("p1"))
	require.NoError(t, err)

	assert.False(t, w.Contains("p1"))
	assert.True(t, w.Contains("p2"))
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "s1", testProduct("p1"))
	require.NoError(t, err)

	w, err := svc.Remove(ctx, "s1", "missing")
	require.NoError(t, err)
	assert.Len(t, w.Items, 1)
}

func TestContainsAndCount(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		_, err := svc.Toggle(ctx, "s1", testProduct(id))
		require.NoError(t, err)
	}

	ok, err := svc.Contains(ctx, "s1", "p2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Contains(ctx, "s1", "p9")
	require.NoError(t, err)
	assert.False(t, ok)

	count, err := svc.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestWishlistSurvivesRehydration(t *testing.T) {
	store := storage.NewMemoryStore()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctx := context.Background()

	first := NewService(store, logger)
	_, err := first.Toggle(ctx, "s1", testProduct("p1"))
	require.NoError(t, err)

	second := NewService(store, logger)
	w, err := second.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, w.Contains("p1"))
}
