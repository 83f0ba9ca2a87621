// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"
)

// Item is one product snapshot on the wishlist. Presence-only: there is no
// quantity.
type Item struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"count_in_stock"`
	AddedAt      time.Time `json:"added_at"`
}

// Wishlist is the persisted set of product snapshots for one session,
// unique by product identifier
type Wishlist struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contains reports membership by product identifier
func (w *Wishlist) Contains(productID string) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// ToggleRequest represents a wishlist toggle request
type ToggleRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// WishlistResponse represents a wishlist with its cardinality
type WishlistResponse struct {
	Items     []Item    `json:"items"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
