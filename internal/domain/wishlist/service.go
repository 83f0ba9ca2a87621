// internal/domain/wishlist/service.go
package wishlist

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

// Service owns the wishlist aggregate. Adding an already-present product
// removes it instead, so the single Toggle operation covers both directions.
type Service struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewService creates a new wishlist service
func NewService(store storage.Store, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Get hydrates the wishlist for a session. Absence yields an empty list.
func (s *Service) Get(ctx context.Context, sessionID string) (*Wishlist, error) {
	data, err := s.store.Load(ctx, storage.Key(storage.KeyWishlist, sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return &Wishlist{Items: []Item{}, UpdatedAt: time.Now().UTC()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	var w Wishlist
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	if w.Items == nil {
		w.Items = []Item{}
	}
	return &w, nil
}

// Toggle adds the product, or removes it when already present
func (s *Service) Toggle(ctx context.Context, sessionID string, prod *product.Product) (*Wishlist, error) {
	w, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if w.Contains(prod.ID) {
		w.removeItem(prod.ID)
	} else {
		w.Items = append(w.Items, Item{
			ProductID:    prod.ID,
			Name:         prod.Name,
			Image:        prod.Image,
			Category:     prod.Category,
			Price:        prod.Price,
			CountInStock: prod.CountInStock,
			AddedAt:      time.Now().UTC(),
		})
	}

	if err := s.save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Remove drops a product from the wishlist. Absence is a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (*Wishlist, error) {
	w, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	w.removeItem(productID)

	if err := s.save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Contains reports whether a product is on the session's wishlist
func (s *Service) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	w, err := s.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return w.Contains(productID), nil
}

// Count returns the wishlist cardinality
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	w, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(w.Items), nil
}

// Clear empties the wishlist
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, storage.Key(storage.KeyWishlist, sessionID)); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

// Response builds the wishlist response
func (s *Service) Response(w *Wishlist) *WishlistResponse {
	return &WishlistResponse{
		Items:     w.Items,
		Count:     len(w.Items),
		UpdatedAt: w.UpdatedAt,
	}
}

func (w *Wishlist) removeItem(productID string) {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return
		}
	}
}

func (s *Service) save(ctx context.Context, sessionID string, w *Wishlist) error {
	w.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	if err := s.store.Save(ctx, storage.Key(storage.KeyWishlist, sessionID), data); err != nil {
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}
