// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Storefront Gateway"
	cfg.JWT.Secret = "test-secret-key-that-is-32-chars"
	cfg.JWT.AccessTokenExpiry = time.Hour
	return cfg
}

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateSessionToken("sess-1", "user-1", "asha@example.com", true)
	require.NoError(t, err)

	claims, err := manager.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateSessionToken("sess-1", "user-1", "asha@example.com", false)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret-key-that-is-32-ch"
	_, err = NewJWTManager(other).ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute
	manager := NewJWTManager(cfg)

	token, err := manager.GenerateSessionToken("sess-1", "user-1", "asha@example.com", false)
	require.NoError(t, err)

	_, err = manager.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(testConfig())

	_, err := manager.ValidateSessionToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", "abc.def.ghi"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTokenFromHeader(tt.header), tt.header)
	}
}
