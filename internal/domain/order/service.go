// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/infrastructure/upstream"
	"github.com/your-org/storefront-gateway/internal/pkg/cache"
)

// API is the slice of the upstream API the order service consumes
type API interface {
	GetJSON(ctx context.Context, sessionID, path string, query url.Values, dest interface{}) error
	PostJSON(ctx context.Context, sessionID, path string, body, dest interface{}) error
	PutJSON(ctx context.Context, sessionID, path string, body, dest interface{}) error
	Delete(ctx context.Context, sessionID, path string) error
}

// lowStockThreshold marks products the dashboard flags for restock
const lowStockThreshold = 10

// Service proxies order operations to the upstream collaborator, keeping the
// per-session history cache fresh through tagged invalidation
type Service struct {
	client API
	cache  cache.Cache
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(client API, queryCache cache.Cache, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		cache:  queryCache,
		logger: logger,
	}
}

// Create submits a new order. No client-side retry: a failed submission is
// surfaced and retried only by explicit user action.
func (s *Service) Create(ctx context.Context, sessionID string, req *CreateOrderRequest) (*Order, error) {
	var created Order
	if err := s.client.PostJSON(ctx, sessionID, "/orders", req, &created); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagOrders, cache.UserOrdersTag(sessionID))
	return &created, nil
}

// MyOrders returns the authenticated user's order history
func (s *Service) MyOrders(ctx context.Context, sessionID string) ([]Order, error) {
	cacheKey := "myorders:" + sessionID

	var cached []Order
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.WithError(err).Warn("order cache read failed")
	}

	var orders []Order
	if err := s.client.GetJSON(ctx, sessionID, "/orders/myorders", nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}

	if err := s.cache.SetJSON(ctx, cacheKey, orders, cache.TagOrders, cache.UserOrdersTag(sessionID)); err != nil {
		s.logger.WithError(err).Warn("order cache write failed")
	}
	return orders, nil
}

// Get returns a single order by identifier
func (s *Service) Get(ctx context.Context, sessionID, orderID string) (*Order, error) {
	var ord Order
	if err := s.client.GetJSON(ctx, sessionID, "/orders/"+orderID, nil, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// Pay marks an order paid with the given payment confirmation
func (s *Service) Pay(ctx context.Context, sessionID, orderID string, result *PaymentResult) (*Order, error) {
	var ord Order
	if err := s.client.PutJSON(ctx, sessionID, "/orders/"+orderID+"/pay", result, &ord); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagOrders, cache.UserOrdersTag(sessionID))
	return &ord, nil
}

// All returns every order; admin only, enforced by the route guard
func (s *Service) All(ctx context.Context, sessionID string) ([]Order, error) {
	var orders []Order
	if err := s.client.GetJSON(ctx, sessionID, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// MarkDelivered flags an order delivered; admin only
func (s *Service) MarkDelivered(ctx context.Context, sessionID, orderID string) (*Order, error) {
	var ord Order
	if err := s.client.PutJSON(ctx, sessionID, "/orders/"+orderID+"/deliver", nil, &ord); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagOrders)
	return &ord, nil
}

// MarkPaid flags an order paid without a payment confirmation; admin only
func (s *Service) MarkPaid(ctx context.Context, sessionID, orderID string) (*Order, error) {
	var ord Order
	if err := s.client.PutJSON(ctx, sessionID, "/orders/"+orderID+"/pay", nil, &ord); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagOrders)
	return &ord, nil
}

// Remove deletes an order; admin only
func (s *Service) Remove(ctx context.Context, sessionID, orderID string) error {
	if err := s.client.Delete(ctx, sessionID, "/orders/"+orderID); err != nil {
		return err
	}

	s.invalidate(ctx, cache.TagOrders)
	return nil
}

// usersEnvelope decodes just enough of the upstream user list to count it
type usersEnvelope []struct {
	ID string `json:"_id"`
}

// DashboardStats aggregates products, orders and users into the admin
// dashboard summary
func (s *Service) DashboardStats(ctx context.Context, sessionID string, products []product.Product) (*DashboardStats, error) {
	orders, err := s.All(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var users usersEnvelope
	if err := s.client.GetJSON(ctx, sessionID, "/users", nil, &users); err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalOrders:   len(orders),
		TotalProducts: len(products),
		TotalUsers:    len(users),
	}

	for _, ord := range orders {
		if ord.IsPaid {
			stats.TotalRevenue += ord.TotalPrice
		}
	}

	recent := orders
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentOrders = recent

	for _, p := range products {
		if p.CountInStock < lowStockThreshold {
			stats.LowStockProducts++
		}
	}

	return stats, nil
}

func (s *Service) invalidate(ctx context.Context, tags ...string) {
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.logger.WithError(err).Warn("order cache invalidation failed")
	}
}

// Compile-time check that the full client satisfies the API interface
var _ API = (*upstream.Client)(nil)
