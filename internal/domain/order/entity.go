// internal/domain/order/entity.go
package order

import (
	"time"
)

// Item is one order line: a snapshot of a cart line at submission time
type Item struct {
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Image   string  `json:"image"`
	Price   float64 `json:"price"`
	Product string  `json:"product"`
}

// ShippingAddress is the delivery address captured at checkout
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentResult is the upstream payment confirmation attached when an order
// is marked paid
type PaymentResult struct {
	ID           string `json:"id,omitempty"`
	Status       string `json:"status,omitempty"`
	UpdateTime   string `json:"update_time,omitempty"`
	EmailAddress string `json:"email_address,omitempty"`
}

// Order mirrors the upstream order document. Immutable from the gateway's
// perspective after creation, except for the status flags the admin
// collaborator updates.
type Order struct {
	ID              string           `json:"_id"`
	User            string           `json:"user,omitempty"`
	OrderItems      []Item           `json:"orderItems"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethod   string           `json:"paymentMethod"`
	PaymentResult   *PaymentResult   `json:"paymentResult,omitempty"`
	TaxPrice        float64          `json:"taxPrice"`
	ShippingPrice   float64          `json:"shippingPrice"`
	TotalPrice      float64          `json:"totalPrice"`
	IsPaid          bool             `json:"isPaid"`
	PaidAt          *time.Time       `json:"paidAt,omitempty"`
	IsDelivered     bool             `json:"isDelivered"`
	DeliveredAt     *time.Time       `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// CreateOrderRequest is the payload submitted to the upstream order
// collaborator. PaymentMetadata never carries card data; for UPI it holds
// only the handle.
type CreateOrderRequest struct {
	OrderItems      []Item            `json:"orderItems"`
	ShippingAddress ShippingAddress   `json:"shippingAddress"`
	PaymentMethod   string            `json:"paymentMethod"`
	TaxPrice        float64           `json:"taxPrice"`
	ShippingPrice   float64           `json:"shippingPrice"`
	TotalPrice      float64           `json:"totalPrice"`
	PaymentMetadata map[string]string `json:"paymentMetadata,omitempty"`
}

// DashboardStats aggregates the admin dashboard numbers from upstream data
type DashboardStats struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TotalOrders      int     `json:"total_orders"`
	TotalProducts    int     `json:"total_products"`
	TotalUsers       int     `json:"total_users"`
	RecentOrders     []Order `json:"recent_orders"`
	LowStockProducts int     `json:"low_stock_products"`
}
