// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

// Service owns the cart aggregate. Every mutation hydrates the stored
// collection, applies a single in-memory change and persists the full new
// state before returning, so no failure can leave a half-applied cart.
type Service struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(store storage.Store, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Get hydrates the cart for a session. Absence yields an empty cart, never
// an error.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.store.Load(ctx, storage.Key(storage.KeyCart, sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		now := time.Now().UTC()
		return &Cart{Items: []LineItem{}, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	return &c, nil
}

// Add puts a product in the cart. An existing line's quantity grows by qty,
// silently clamped to the stock ceiling; a new line is inserted with
// min(qty, countInStock). A product with no stock is not inserted.
func (s *Service) Add(ctx context.Context, sessionID string, prod *product.Product, qty int) (*Cart, error) {
	if qty < 1 {
		qty = 1
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if existing := c.Find(prod.ID); existing != nil {
		existing.Quantity = clamp(existing.Quantity+qty, prod.CountInStock)
		// Refresh the snapshot in case price or stock changed
		existing.Price = prod.Price
		existing.CountInStock = prod.CountInStock
	} else {
		quantity := clamp(qty, prod.CountInStock)
		if quantity < 1 {
			// Out of stock; nothing valid to insert
			return c, nil
		}
		c.Items = append(c.Items, LineItem{
			ProductID:    prod.ID,
			Name:         prod.Name,
			Image:        prod.Image,
			Category:     prod.Category,
			Price:        prod.Price,
			Quantity:     quantity,
			CountInStock: prod.CountInStock,
			AddedAt:      time.Now().UTC(),
		})
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove drops a line item. Absence is a no-op, not an error.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets a line's quantity. Anything below one removes the line;
// anything above the stock ceiling clamps to it.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, qty int) (*Cart, error) {
	if qty < 1 {
		return s.Remove(ctx, sessionID, productID)
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if item := c.Find(productID); item != nil {
		item.Quantity = clamp(qty, item.CountInStock)
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, storage.Key(storage.KeyCart, sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Total recomputes the subtotal on every call
func (s *Service) Total(ctx context.Context, sessionID string) (float64, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Totals().Subtotal, nil
}

// Count returns the summed quantity across all lines, distinct from the
// number of lines
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Totals().TotalQuantity, nil
}

// Response builds the cart response with freshly computed totals
func (s *Service) Response(c *Cart) *CartResponse {
	return &CartResponse{
		Items:     c.Items,
		Totals:    c.Totals(),
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *Service) save(ctx context.Context, sessionID string, c *Cart) error {
	c.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.store.Save(ctx, storage.Key(storage.KeyCart, sessionID), data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func clamp(qty, countInStock int) int {
	if qty > countInStock {
		return countInStock
	}
	return qty
}
