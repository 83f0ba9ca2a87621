// internal/domain/checkout/entity.go
package checkout

import (
	"time"

	"github.com/your-org/storefront-gateway/internal/domain/order"
)

// Step is the checkout position. Steps are ordinal: forward movement is
// guarded, backward movement is always allowed.
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

// String returns the step name
func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// Supported payment methods, matching the upstream contract
const (
	MethodCreditCard     = "Credit Card"
	MethodDebitCard      = "Debit Card"
	MethodUPI            = "UPI"
	MethodCashOnDelivery = "COD"
)

// PaymentSelection is the chosen method plus its method-specific fields.
// Card data stays inside the checkout state and is never copied into the
// submitted order payload.
type PaymentSelection struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
	CardName   string `json:"card_name,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	UPIID      string `json:"upi_id,omitempty"`
}

// State is the persisted checkout progress for one session. Backward
// navigation keeps previously entered data.
type State struct {
	Step      Step                  `json:"step"`
	Shipping  order.ShippingAddress `json:"shipping"`
	Payment   PaymentSelection      `json:"payment"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Pricing is the computed order pricing breakdown
type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ShippingRequest represents the shipping step submission
type ShippingRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentRequest represents the payment step submission
type PaymentRequest struct {
	Method     string `json:"method" binding:"required"`
	CardNumber string `json:"card_number"`
	CardName   string `json:"card_name"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	UPIID      string `json:"upi_id"`
}

// BackRequest represents an explicit edit action returning to an earlier step
type BackRequest struct {
	Step Step `json:"step" binding:"required"`
}

// StateResponse is the checkout state plus the pricing preview for the
// current cart
type StateResponse struct {
	Step     Step                  `json:"step"`
	StepName string                `json:"step_name"`
	Shipping order.ShippingAddress `json:"shipping"`
	Payment  PaymentSummary        `json:"payment"`
	Pricing  Pricing               `json:"pricing"`
}

// PaymentSummary is the non-sensitive view of the payment selection
type PaymentSummary struct {
	Method   string `json:"method"`
	CardLast string `json:"card_last4,omitempty"`
	UPIID    string `json:"upi_id,omitempty"`
}
