// internal/infrastructure/storage/store.go
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Well-known key prefixes. Each aggregate owns exactly one prefix and is the
// only writer under it.
const (
	KeyCart           = "cart"
	KeyWishlist       = "wishlist"
	KeyCheckout       = "checkout"
	KeySession        = "session"
	KeyRecentlyViewed = "recently_viewed"
)

// ErrNotFound is returned by Load when no value is stored under the key.
// Aggregates treat it as "empty collection", never as an error.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable per-session key-value store behind every aggregate.
// Values are whole JSON-encoded collections; every mutation saves the full
// new state before control returns to the caller.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key builds the storage key for an aggregate kind and session
func Key(kind, sessionID string) string {
	return fmt.Sprintf("%s:%s", kind, sessionID)
}
