// internal/pkg/cache/cache.go
package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned when the key is absent or has been invalidated
var ErrMiss = errors.New("cache miss")

// Cache is a query cache with tagged invalidation. Entries are stored under a
// key and registered against one or more tags; a mutation invalidates whole
// tags instead of guessing individual keys.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, tags ...string) error
	Invalidate(ctx context.Context, tags ...string) error
}

// Common tag names shared by queries and the mutations that stale them
const (
	TagProducts = "products"
	TagOrders   = "orders"
	TagUsers    = "users"
)

// ProductTag returns the tag covering one product's detail queries
func ProductTag(productID string) string {
	return "product:" + productID
}

// UserOrdersTag returns the tag covering one user's order history
func UserOrdersTag(sessionID string) string {
	return "orders:" + sessionID
}
