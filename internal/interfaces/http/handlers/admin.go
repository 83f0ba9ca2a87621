// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// AdminHandler handles admin endpoints
type AdminHandler struct {
	products *product.Service
	orders   *order.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(products *product.Service, orders *order.Service) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
	}
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var input product.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.products.Create(c.Request.Context(), sessionID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    created,
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	productID := c.Param("id")

	var input product.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.products.Update(c.Request.Context(), sessionID, productID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    updated,
	})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	productID := c.Param("id")

	if err := h.products.Remove(c.Request.Context(), sessionID, productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	items, err := h.orders.All(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// MarkOrderDelivered handles PUT /admin/orders/:id/deliver
func (h *AdminHandler) MarkOrderDelivered(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	orderID := c.Param("id")

	delivered, err := h.orders.MarkDelivered(c.Request.Context(), sessionID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as delivered",
		"data":    delivered,
	})
}

// MarkOrderPaid handles PUT /admin/orders/:id/pay
func (h *AdminHandler) MarkOrderPaid(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	orderID := c.Param("id")

	paid, err := h.orders.MarkPaid(c.Request.Context(), sessionID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as paid",
		"data":    paid,
	})
}

// DeleteOrder handles DELETE /admin/orders/:id
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	orderID := c.Param("id")

	if err := h.orders.Remove(c.Request.Context(), sessionID, orderID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
	})
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	items, err := h.products.List(c.Request.Context(), sessionID, url.Values{})
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.orders.DashboardStats(c.Request.Context(), sessionID, items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
	})
}
