// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/pkg/auth"
)

const sessionCookie = "storefront_session"

// Session resolves the caller's session. A valid gateway token carries the
// session and principal; otherwise an anonymous session cookie is issued so
// guests keep their cart and wishlist across requests.
func Session(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if tokenString := auth.ExtractTokenFromHeader(authHeader); tokenString != "" {
				if claims, err := jwtManager.ValidateSessionToken(tokenString); err == nil {
					c.Set("session_id", claims.SessionID)
					c.Set("user_id", claims.UserID)
					c.Set("user_email", claims.Email)
					c.Set("is_admin", claims.IsAdmin)
					c.Next()
					return
				}
			}
		}

		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(sessionCookie, sessionID, int(cfg.Storage.SessionTTL.Seconds()), "/", "", false, true)
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}

// GetSessionID extracts the resolved session ID from gin context
func GetSessionID(c *gin.Context) string {
	sessionID, exists := c.Get("session_id")
	if !exists {
		return ""
	}
	return sessionID.(string)
}

// GetUserIDFromContext extracts the authenticated user ID from gin context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id := userID.(string)
	return id, id != ""
}

// GetUserEmailFromContext extracts the authenticated email from gin context
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get("user_email")
	if !exists {
		return "", false
	}
	return email.(string), true
}

// IsAdminFromContext checks if the caller is an admin from gin context
func IsAdminFromContext(c *gin.Context) bool {
	isAdmin, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	return isAdmin.(bool)
}
