// internal/domain/identity/service.go
package identity

import (
	"context"
	"errors"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/infrastructure/upstream"
	"github.com/your-org/storefront-gateway/internal/pkg/apperr"
	"github.com/your-org/storefront-gateway/internal/pkg/auth"
)

// Exchanger is the slice of the upstream API used for credential exchange
type Exchanger interface {
	GetJSON(ctx context.Context, sessionID, path string, query url.Values, dest interface{}) error
	PostJSON(ctx context.Context, sessionID, path string, body, dest interface{}) error
	PostForm(ctx context.Context, sessionID, path string, form url.Values, dest interface{}) error
}

// Service is the session/identity context: it performs the credential
// exchange with the upstream API, tracks the authenticated principal and
// derives the role consumed by route guards.
type Service struct {
	sessions *SessionRepository
	client   Exchanger
	jwt      *auth.JWTManager
	logger   *logrus.Logger
}

// NewService creates a new identity service
func NewService(sessions *SessionRepository, client Exchanger, jwtManager *auth.JWTManager, logger *logrus.Logger) *Service {
	return &Service{
		sessions: sessions,
		client:   client,
		jwt:      jwtManager,
		logger:   logger,
	}
}

// loginResponse matches the upstream login envelope
type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// registerResponse matches the upstream registration envelope
type registerResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         Principal `json:"user"`
}

// Login exchanges credentials with the upstream API and, on success,
// populates the session's principal. Expected failures come back as a
// structured result with the principal unchanged.
func (s *Service) Login(ctx context.Context, sessionID string, req *LoginRequest) (*Result, error) {
	form := url.Values{}
	form.Set("username", req.Email)
	form.Set("password", req.Password)

	var tokens loginResponse
	// Anonymous call: no stored credential is attached
	if err := s.client.PostForm(ctx, "", "/auth/login", form, &tokens); err != nil {
		return s.failure(err, "Login failed")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Credentials = &upstream.Credentials{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	// Fetch the profile with the fresh credential
	var principal Principal
	if err := s.client.GetJSON(ctx, sessionID, "/users/profile", nil, &principal); err != nil {
		return s.failure(err, "Login failed")
	}

	sess.Principal = &principal
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateSessionToken(sessionID, principal.ID, principal.Email, principal.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    principal.ID,
	}).Info("login successful")

	return &Result{OK: true, Principal: &principal, Token: token}, nil
}

// Register creates an account upstream and signs the session in with the
// returned profile and tokens
func (s *Service) Register(ctx context.Context, sessionID string, req *RegisterRequest) (*Result, error) {
	var resp registerResponse
	if err := s.client.PostJSON(ctx, "", "/auth/register", req, &resp); err != nil {
		return s.failure(err, "Registration failed")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Credentials = &upstream.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	sess.Principal = &resp.User
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateSessionToken(sessionID, resp.User.ID, resp.User.Email, resp.User.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    resp.User.ID,
	}).Info("registration successful")

	return &Result{OK: true, Principal: &resp.User, Token: token}, nil
}

// Logout clears the principal and the cached credential
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Current returns the session's principal, or nil when anonymous
func (s *Service) Current(ctx context.Context, sessionID string) (*Principal, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Principal, nil
}

// IsAdmin derives the role flag consumed by route guards
func (s *Service) IsAdmin(ctx context.Context, sessionID string) (bool, error) {
	principal, err := s.Current(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return principal != nil && principal.IsAdmin, nil
}

// failure converts expected upstream failures into structured results;
// anything else stays an error
func (s *Service) failure(err error, fallback string) (*Result, error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		message := ae.Message
		if message == "" || message == "Something went wrong" {
			message = fallback
		}
		return &Result{OK: false, Message: message}, nil
	}
	return nil, err
}
