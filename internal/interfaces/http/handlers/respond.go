// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/pkg/apperr"
)

// respondError translates a service failure into an HTTP response
func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{
		"error": apperr.MessageOf(err),
	})
}

func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		// Client mistakes reported by the upstream pass through unchanged
		if ae.Status >= 400 && ae.Status < 500 {
			return ae.Status
		}
		if ae.Status == 0 {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
