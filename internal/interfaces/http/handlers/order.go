// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/pkg/receipt"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orders   *order.Service
	receipts *receipt.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, receipts *receipt.Service) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		receipts: receipts,
	}
}

// MyOrders handles GET /orders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	items, err := h.orders.MyOrders(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	orderID := c.Param("id")

	found, err := h.orders.Get(c.Request.Context(), sessionID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": found,
	})
}

// PayOrder handles PUT /orders/:id/pay
func (h *OrderHandler) PayOrder(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	orderID := c.Param("id")

	var result order.PaymentResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	paid, err := h.orders.Pay(c.Request.Context(), sessionID, orderID, &result)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order paid successfully",
		"data":    paid,
	})
}

// DownloadReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	orderID := c.Param("id")

	found, err := h.orders.Get(c.Request.Context(), sessionID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.receipts.Generate(found)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, found.ID))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}
