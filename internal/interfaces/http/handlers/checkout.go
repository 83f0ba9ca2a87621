// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/checkout"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
	carts    *cart.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, carts *cart.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutService,
		carts:    carts,
	}
}

// GetState handles GET /checkout
func (h *CheckoutHandler) GetState(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	state, err := h.checkout.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, sessionID, state)
}

// SubmitShipping handles POST /checkout/shipping
func (h *CheckoutHandler) SubmitShipping(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req checkout.ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.checkout.SubmitShipping(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, sessionID, state)
}

// SubmitPayment handles POST /checkout/payment
func (h *CheckoutHandler) SubmitPayment(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req checkout.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.checkout.SubmitPayment(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, sessionID, state)
}

// Back handles POST /checkout/back
func (h *CheckoutHandler) Back(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req checkout.BackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.checkout.Back(c.Request.Context(), sessionID, req.Step)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, sessionID, state)
}

// PlaceOrder handles POST /checkout/place-order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	placed, err := h.checkout.PlaceOrder(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}

func (h *CheckoutHandler) respondState(c *gin.Context, sessionID string, state *checkout.State) {
	current, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.checkout.Response(state, current.Totals().Subtotal),
	})
}
