// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests that did not present a valid gateway token.
// Runs after Session, which populates the principal keys.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserIDFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin ensures the caller is an admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserIDFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !IsAdminFromContext(c) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
