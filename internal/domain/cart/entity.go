// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// LineItem is one product snapshot in the cart. Quantity always sits in
// [1, CountInStock]; mutations that would leave the range clamp instead of
// failing.
type LineItem struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"qty"`
	CountInStock int       `json:"count_in_stock"`
	AddedAt      time.Time `json:"added_at"`
}

// Cart is the persisted collection of line items for one session, ordered by
// insertion and unique by product identifier
type Cart struct {
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Totals is the computed cart summary. It is recomputed on every call and
// never stored.
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of unique items
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	Subtotal      float64 `json:"subtotal"`
}

// Totals folds the current items into a summary
func (c *Cart) Totals() Totals {
	var totals Totals

	totals.ItemCount = len(c.Items)
	for _, item := range c.Items {
		totals.TotalQuantity += item.Quantity
		totals.Subtotal += item.Price * float64(item.Quantity)
	}

	return totals
}

// Find returns the line item for a product identifier, or nil
func (c *Cart) Find(productID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddToCartRequest represents an add to cart request
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents an update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse represents a cart with its computed totals
type CartResponse struct {
	Items     []LineItem `json:"items"`
	Totals    Totals     `json:"totals"`
	UpdatedAt time.Time  `json:"updated_at"`
}
