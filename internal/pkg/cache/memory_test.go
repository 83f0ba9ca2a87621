// internal/pkg/cache/memory_test.go
package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestMissOnAbsentKey(t *testing.T) {
	c := NewMemoryCache()

	var dest payload
	err := c.GetJSON(context.Background(), "products?page=1", &dest)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "product:p1", payload{Name: "Widget", Price: 499}, TagProducts, ProductTag("p1")))

	var dest payload
	require.NoError(t, c.GetJSON(ctx, "product:p1", &dest))
	assert.Equal(t, "Widget", dest.Name)
	assert.InDelta(t, 499.0, dest.Price, 1e-9)
}

func TestTagInvalidationRemovesAllTaggedEntries(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "products?page=1", []payload{{Name: "A"}}, TagProducts))
	require.NoError(t, c.SetJSON(ctx, "products?page=2", []payload{{Name: "B"}}, TagProducts))
	require.NoError(t, c.SetJSON(ctx, "myorders:s1", []payload{{Name: "O"}}, TagOrders, UserOrdersTag("s1")))

	require.NoError(t, c.Invalidate(ctx, TagProducts))

	var dest []payload
	assert.ErrorIs(t, c.GetJSON(ctx, "products?page=1", &dest), ErrMiss)
	assert.ErrorIs(t, c.GetJSON(ctx, "products?page=2", &dest), ErrMiss)

	// Entries under other tags survive
	require.NoError(t, c.GetJSON(ctx, "myorders:s1", &dest))
}

func TestInvalidateByNarrowTagKeepsListEntries(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "products?", []payload{{Name: "A"}}, TagProducts))
	require.NoError(t, c.SetJSON(ctx, "product:p1", payload{Name: "A"}, TagProducts, ProductTag("p1")))

	require.NoError(t, c.Invalidate(ctx, ProductTag("p1")))

	var single payload
	assert.ErrorIs(t, c.GetJSON(ctx, "product:p1", &single), ErrMiss)

	var list []payload
	require.NoError(t, c.GetJSON(ctx, "products?", &list))
}

func TestInvalidateUnknownTagIsNoOp(t *testing.T) {
	c := NewMemoryCache()
	require.NoError(t, c.Invalidate(context.Background(), "never-used"))
}
