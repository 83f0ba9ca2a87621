// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/identity"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	identity *identity.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identityService *identity.Service) *AuthHandler {
	return &AuthHandler{
		identity: identityService,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.identity.Login(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.OK {
		c.JSON(http.StatusUnauthorized, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req identity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.identity.Register(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.OK {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	if err := h.identity.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	principal, err := h.identity.Current(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": principal,
	})
}
