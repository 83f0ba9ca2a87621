// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/domain/wishlist"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlists *wishlist.Service
	products  *product.Service
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlists *wishlist.Service, products *product.Service) *WishlistHandler {
	return &WishlistHandler{
		wishlists: wishlists,
		products:  products,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	current, err := h.wishlists.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.wishlists.Response(current),
	})
}

// ToggleItem handles POST /wishlist/toggle
func (h *WishlistHandler) ToggleItem(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req wishlist.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	prod, err := h.products.Get(c.Request.Context(), sessionID, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	current, err := h.wishlists.Toggle(c.Request.Context(), sessionID, prod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.wishlists.Response(current),
	})
}

// RemoveItem handles DELETE /wishlist/items/:id
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	productID := c.Param("id")

	current, err := h.wishlists.Remove(c.Request.Context(), sessionID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from wishlist successfully",
		"data":    h.wishlists.Response(current),
	})
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	if err := h.wishlists.Clear(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist cleared successfully",
	})
}
