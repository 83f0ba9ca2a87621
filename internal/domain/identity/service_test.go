// internal/domain/identity/service_test.go
package identity

import (
	"context"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/pkg/apperr"
	"github.com/your-org/storefront-gateway/internal/pkg/auth"
)

type fakeExchanger struct {
	loginErr    error
	registerErr error
	profileErr  error
	principal   Principal

	loginForm url.Values
}

func (f *fakeExchanger) GetJSON(_ context.Context, _ string, path string, _ url.Values, dest interface{}) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	if path == "/users/profile" {
		*(dest.(*Principal)) = f.principal
	}
	return nil
}

func (f *fakeExchanger) PostJSON(_ context.Context, _ string, _ string, _, dest interface{}) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	*(dest.(*registerResponse)) = registerResponse{
		AccessToken: "upstream-access",
		User:        f.principal,
	}
	return nil
}

func (f *fakeExchanger) PostForm(_ context.Context, _ string, _ string, form url.Values, dest interface{}) error {
	f.loginForm = form
	if f.loginErr != nil {
		return f.loginErr
	}
	*(dest.(*loginResponse)) = loginResponse{
		AccessToken:  "upstream-access",
		RefreshToken: "upstream-refresh",
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test"},
		JWT: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry: 3600000000000,
		},
	}
}

func newTestService(client Exchanger) (*Service, *SessionRepository) {
	repo := NewSessionRepository(storage.NewMemoryStore())
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(repo, client, auth.NewJWTManager(testConfig()), logger), repo
}

func TestLoginPopulatesPrincipal(t *testing.T) {
	client := &fakeExchanger{
		principal: Principal{ID: "u1", Name: "Asha", Email: "asha@example.com", IsAdmin: false},
	}
	svc, repo := newTestService(client)
	ctx := context.Background()

	result, err := svc.Login(ctx, "s1", &LoginRequest{Email: "asha@example.com", Password: "secret"})
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, result.Principal)
	assert.Equal(t, "u1", result.Principal.ID)

	// Upstream login is form-encoded with the email as username
	assert.Equal(t, "asha@example.com", client.loginForm.Get("username"))

	sess, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, sess.Credentials)
	assert.Equal(t, "upstream-access", sess.Credentials.AccessToken)
}

func TestLoginFailureIsStructuredAndLeavesPrincipalUnchanged(t *testing.T) {
	client := &fakeExchanger{
		loginErr: apperr.Transport("Incorrect email or password", 400, nil),
	}
	svc, repo := newTestService(client)
	ctx := context.Background()

	result, err := svc.Login(ctx, "s1", &LoginRequest{Email: "asha@example.com", Password: "wrong"})
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Equal(t, "Incorrect email or password", result.Message)

	sess, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, sess.Principal)
	assert.Nil(t, sess.Credentials)
}

func TestRegisterSignsSessionIn(t *testing.T) {
	client := &fakeExchanger{
		principal: Principal{ID: "u2", Name: "Ravi", Email: "ravi@example.com"},
	}
	svc, _ := newTestService(client)
	ctx := context.Background()

	result, err := svc.Register(ctx, "s1", &RegisterRequest{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.True(t, result.OK)
	require.NotNil(t, result.Principal)
	assert.Equal(t, "u2", result.Principal.ID)

	principal, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, principal)
	assert.Equal(t, "ravi@example.com", principal.Email)
}

func TestLogoutClearsPrincipalAndCredential(t *testing.T) {
	client := &fakeExchanger{principal: Principal{ID: "u1", Email: "a@b.c"}}
	svc, repo := newTestService(client)
	ctx := context.Background()

	_, err := svc.Login(ctx, "s1", &LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "s1"))

	principal, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, principal)

	sess, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, sess.Credentials)
}

func TestIsAdminDerivation(t *testing.T) {
	client := &fakeExchanger{
		principal: Principal{ID: "u1", Email: "admin@example.com", IsAdmin: true},
	}
	svc, _ := newTestService(client)
	ctx := context.Background()

	// Anonymous sessions are never admin
	isAdmin, err := svc.IsAdmin(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	_, err = svc.Login(ctx, "s1", &LoginRequest{Email: "admin@example.com", Password: "x"})
	require.NoError(t, err)

	isAdmin, err = svc.IsAdmin(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}
