// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	products *product.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service) *ProductHandler {
	return &ProductHandler{
		products: products,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	items, err := h.products.List(c.Request.Context(), sessionID, c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	productID := c.Param("id")

	prod, err := h.products.Get(c.Request.Context(), sessionID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Browsing history is best effort; a storage hiccup never fails the view
	_ = h.products.MarkViewed(c.Request.Context(), sessionID, prod)

	c.JSON(http.StatusOK, gin.H{
		"data": prod,
	})
}

// RecentlyViewed handles GET /products/recently-viewed
func (h *ProductHandler) RecentlyViewed(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	items, err := h.products.RecentlyViewed(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}
