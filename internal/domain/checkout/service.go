// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/pkg/apperr"
)

// Pricing rules applied at submission time
const (
	freeShippingThreshold = 999.0
	flatShippingFee       = 99.0
	taxRate               = 0.18
)

// OrderPlacer submits the assembled order to the upstream collaborator
type OrderPlacer interface {
	Create(ctx context.Context, sessionID string, req *order.CreateOrderRequest) (*order.Order, error)
}

// Service drives the three-step checkout workflow: Shipping, Payment,
// Review. Each forward transition is guarded; the terminal PlaceOrder
// assembles the order from the cart aggregate and, on success, clears it.
type Service struct {
	store  storage.Store
	carts  *cart.Service
	orders OrderPlacer
	logger *logrus.Logger
}

// NewService creates a new checkout service
func NewService(store storage.Store, carts *cart.Service, orders OrderPlacer, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		carts:  carts,
		orders: orders,
		logger: logger,
	}
}

// Get hydrates the checkout state, starting fresh at the shipping step
func (s *Service) Get(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.store.Load(ctx, storage.Key(storage.KeyCheckout, sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return &State{
			Step:      StepShipping,
			Shipping:  order.ShippingAddress{Country: "India"},
			Payment:   PaymentSelection{Method: MethodCreditCard},
			UpdatedAt: time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode checkout state: %w", err)
	}
	return &state, nil
}

// SubmitShipping validates the shipping step and advances to payment.
// Address, city and postal code must all be non-empty.
func (s *Service) SubmitShipping(ctx context.Context, sessionID string, req *ShippingRequest) (*State, error) {
	if strings.TrimSpace(req.Address) == "" ||
		strings.TrimSpace(req.City) == "" ||
		strings.TrimSpace(req.PostalCode) == "" {
		return nil, apperr.Validation("Address, city and postal code are required")
	}

	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Shipping = order.ShippingAddress{
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if state.Shipping.Country == "" {
		state.Shipping.Country = "India"
	}
	if state.Step < StepPayment {
		state.Step = StepPayment
	}

	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SubmitPayment validates the payment step and advances to review. The
// required fields depend on the selected method.
func (s *Service) SubmitPayment(ctx context.Context, sessionID string, req *PaymentRequest) (*State, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step < StepPayment {
		return nil, apperr.Validation("Complete the shipping step first")
	}

	selection := PaymentSelection{
		Method:     req.Method,
		CardNumber: req.CardNumber,
		CardName:   req.CardName,
		ExpiryDate: req.ExpiryDate,
		CVV:        req.CVV,
		UPIID:      req.UPIID,
	}
	if err := validatePayment(&selection); err != nil {
		return nil, err
	}

	state.Payment = selection
	if state.Step < StepReview {
		state.Step = StepReview
	}

	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Back returns to an earlier step without clearing entered data. Backward
// transitions are always permitted.
func (s *Service) Back(ctx context.Context, sessionID string, target Step) (*State, error) {
	if target < StepShipping || target > StepReview {
		return nil, apperr.Validation("Unknown checkout step")
	}

	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if target > state.Step {
		return nil, apperr.Validation("Cannot skip ahead in checkout")
	}

	state.Step = target
	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// PlaceOrder is the terminal action, reachable only from the review step
// with a non-empty cart. On success the cart and the checkout state are
// cleared; on failure both are left untouched for an explicit user retry.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string) (*order.Order, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step != StepReview {
		return nil, apperr.Validation("Checkout is not ready for submission")
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, apperr.Validation("Cart is empty")
	}

	pricing := ComputePricing(c.Totals().Subtotal)

	items := make([]order.Item, len(c.Items))
	for i, line := range c.Items {
		items[i] = order.Item{
			Name:    line.Name,
			Qty:     line.Quantity,
			Image:   line.Image,
			Price:   line.Price,
			Product: line.ProductID,
		}
	}

	req := &order.CreateOrderRequest{
		OrderItems:      items,
		ShippingAddress: state.Shipping,
		PaymentMethod:   state.Payment.Method,
		TaxPrice:        pricing.Tax,
		ShippingPrice:   pricing.Shipping,
		TotalPrice:      pricing.Total,
		PaymentMetadata: paymentMetadata(&state.Payment),
	}

	created, err := s.orders.Create(ctx, sessionID, req)
	if err != nil {
		// State is untouched; the user retries explicitly
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.WithError(err).Warn("failed to clear cart after order placement")
	}
	if err := s.store.Delete(ctx, storage.Key(storage.KeyCheckout, sessionID)); err != nil {
		s.logger.WithError(err).Warn("failed to clear checkout state after order placement")
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   created.ID,
		"total":      created.TotalPrice,
	}).Info("order placed")

	return created, nil
}

// Response builds the checkout view: current step, entered data with card
// details masked, and the pricing preview for the given subtotal
func (s *Service) Response(state *State, subtotal float64) *StateResponse {
	summary := PaymentSummary{
		Method: state.Payment.Method,
		UPIID:  state.Payment.UPIID,
	}
	if n := len(state.Payment.CardNumber); n >= 4 {
		summary.CardLast = state.Payment.CardNumber[n-4:]
	}

	return &StateResponse{
		Step:     state.Step,
		StepName: state.Step.String(),
		Shipping: state.Shipping,
		Payment:  summary,
		Pricing:  ComputePricing(subtotal),
	}
}

// ComputePricing applies the pricing rules: free shipping above the
// threshold, a flat fee below it, and tax on the subtotal
func ComputePricing(subtotal float64) Pricing {
	shipping := flatShippingFee
	if subtotal > freeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * taxRate

	return Pricing{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

func validatePayment(sel *PaymentSelection) error {
	switch sel.Method {
	case MethodCreditCard, MethodDebitCard:
		if sel.CardNumber == "" || sel.CardName == "" || sel.ExpiryDate == "" || sel.CVV == "" {
			return apperr.Validation("Card number, name, expiry and CVV are required")
		}
	case MethodUPI:
		if !strings.Contains(sel.UPIID, "@") {
			return apperr.Validation("A valid UPI handle is required")
		}
	case MethodCashOnDelivery:
		// No required fields
	default:
		return apperr.Validation("Unknown payment method")
	}
	return nil
}

// paymentMetadata builds the non-sensitive metadata submitted with the
// order. Card data never crosses this boundary.
func paymentMetadata(sel *PaymentSelection) map[string]string {
	if sel.Method == MethodUPI {
		return map[string]string{"upiId": sel.UPIID}
	}
	return nil
}

func (s *Service) save(ctx context.Context, sessionID string, state *State) error {
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode checkout state: %w", err)
	}
	if err := s.store.Save(ctx, storage.Key(storage.KeyCheckout, sessionID), data); err != nil {
		return fmt.Errorf("failed to save checkout state: %w", err)
	}
	return nil
}
