// internal/domain/product/service.go
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/infrastructure/upstream"
	"github.com/your-org/storefront-gateway/internal/pkg/cache"
)

// Catalog is the slice of the upstream API the product service consumes
type Catalog interface {
	GetJSON(ctx context.Context, sessionID, path string, query url.Values, dest interface{}) error
	PostJSON(ctx context.Context, sessionID, path string, body, dest interface{}) error
	PutJSON(ctx context.Context, sessionID, path string, body, dest interface{}) error
	Delete(ctx context.Context, sessionID, path string) error
}

// recentlyViewedLimit caps the per-session recently-viewed list
const recentlyViewedLimit = 5

// Service serves catalog reads through the tagged query cache and owns the
// per-session recently-viewed list
type Service struct {
	client Catalog
	cache  cache.Cache
	store  storage.Store
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(client Catalog, queryCache cache.Cache, store storage.Store, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		cache:  queryCache,
		store:  store,
		logger: logger,
	}
}

// listEnvelope matches the paginated upstream list shape
type listEnvelope struct {
	Items []Product `json:"items"`
}

// List retrieves the catalog, serving repeat queries from the cache
func (s *Service) List(ctx context.Context, sessionID string, query url.Values) ([]Product, error) {
	cacheKey := "products"
	if len(query) > 0 {
		cacheKey = "products?" + query.Encode()
	}

	var cached []Product
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.WithError(err).Warn("product cache read failed")
	}

	// The upstream returns either a bare array or {items: [...]}
	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, sessionID, "/products", query, &raw); err != nil {
		return nil, err
	}

	products, err := normalizeList(raw)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cacheKey, products, cache.TagProducts); err != nil {
		s.logger.WithError(err).Warn("product cache write failed")
	}

	return products, nil
}

// Get retrieves a single product by identifier
func (s *Service) Get(ctx context.Context, sessionID, productID string) (*Product, error) {
	cacheKey := "product:" + productID

	var cached Product
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.WithError(err).Warn("product cache read failed")
	}

	var prod Product
	if err := s.client.GetJSON(ctx, sessionID, "/products/"+productID, nil, &prod); err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cacheKey, &prod, cache.TagProducts, cache.ProductTag(productID)); err != nil {
		s.logger.WithError(err).Warn("product cache write failed")
	}

	return &prod, nil
}

// Create creates a product upstream and stales catalog queries
func (s *Service) Create(ctx context.Context, sessionID string, input *ProductInput) (*Product, error) {
	var created Product
	if err := s.client.PostJSON(ctx, sessionID, "/products", input, &created); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagProducts)
	return &created, nil
}

// Update updates a product upstream and stales its cached queries
func (s *Service) Update(ctx context.Context, sessionID, productID string, input *ProductInput) (*Product, error) {
	var updated Product
	if err := s.client.PutJSON(ctx, sessionID, "/products/"+productID, input, &updated); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagProducts, cache.ProductTag(productID))
	return &updated, nil
}

// Remove deletes a product upstream and stales its cached queries
func (s *Service) Remove(ctx context.Context, sessionID, productID string) error {
	if err := s.client.Delete(ctx, sessionID, "/products/"+productID); err != nil {
		return err
	}

	s.invalidate(ctx, cache.TagProducts, cache.ProductTag(productID))
	return nil
}

// RecentlyViewed returns the session's recently viewed products, newest first
func (s *Service) RecentlyViewed(ctx context.Context, sessionID string) ([]Product, error) {
	key := storage.Key(storage.KeyRecentlyViewed, sessionID)

	data, err := s.store.Load(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode recently viewed list: %w", err)
	}
	return products, nil
}

// MarkViewed records a product view: moved to the front, de-duplicated, capped
func (s *Service) MarkViewed(ctx context.Context, sessionID string, prod *Product) error {
	if prod == nil || prod.ID == "" {
		return nil
	}

	products, err := s.RecentlyViewed(ctx, sessionID)
	if err != nil {
		return err
	}

	filtered := make([]Product, 0, len(products)+1)
	filtered = append(filtered, *prod)
	for _, p := range products {
		if p.ID != prod.ID {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > recentlyViewedLimit {
		filtered = filtered[:recentlyViewedLimit]
	}

	data, err := json.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("failed to encode recently viewed list: %w", err)
	}
	return s.store.Save(ctx, storage.Key(storage.KeyRecentlyViewed, sessionID), data)
}

func (s *Service) invalidate(ctx context.Context, tags ...string) {
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.logger.WithError(err).Warn("product cache invalidation failed")
	}
}

func normalizeList(raw json.RawMessage) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err == nil {
		return products, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected product list shape: %w", err)
	}
	if envelope.Items == nil {
		envelope.Items = []Product{}
	}
	return envelope.Items, nil
}

// Compile-time check that the full client satisfies the Catalog interface
var _ Catalog = (*upstream.Client)(nil)
