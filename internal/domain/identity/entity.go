// internal/domain/identity/entity.go
package identity

import (
	"time"

	"github.com/your-org/storefront-gateway/internal/infrastructure/upstream"
)

// Principal is the authenticated identity associated with a session
type Principal struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Session is the persisted session record: the principal (nil while the
// session is anonymous) plus the upstream credential
type Session struct {
	SessionID   string                `json:"session_id"`
	Principal   *Principal            `json:"principal,omitempty"`
	Credentials *upstream.Credentials `json:"credentials,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Result is the structured outcome of a credential exchange. Failures are
// values, not faults: the principal stays unchanged and Message carries a
// human-readable explanation.
type Result struct {
	OK        bool       `json:"ok"`
	Message   string     `json:"message,omitempty"`
	Principal *Principal `json:"principal,omitempty"`
	Token     string     `json:"token,omitempty"` // gateway session token
}
