// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts    *cart.Service
	products *product.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, products *product.Service) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	current, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.carts.Response(current),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// Fetch a fresh price and stock snapshot before mutating the cart
	prod, err := h.products.Get(c.Request.Context(), sessionID, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	current, err := h.carts.Add(c.Request.Context(), sessionID, prod, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.carts.Response(current),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	productID := c.Param("id")

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	current, err := h.carts.UpdateQuantity(c.Request.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.carts.Response(current),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	productID := c.Param("id")

	current, err := h.carts.Remove(c.Request.Context(), sessionID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.carts.Response(current),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	if err := h.carts.Clear(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}
