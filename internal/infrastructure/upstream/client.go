// internal/infrastructure/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/pkg/apperr"
)

// Credentials are the bearer tokens held for one session against the
// upstream commerce API.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// CredentialStore supplies and persists per-session upstream credentials.
// Implemented by the identity session repository.
type CredentialStore interface {
	Credentials(ctx context.Context, sessionID string) (*Credentials, error)
	UpdateCredentials(ctx context.Context, sessionID string, creds *Credentials) error
	ClearCredentials(ctx context.Context, sessionID string) error
}

// Client talks to the upstream commerce REST API. It attaches the session's
// bearer token to every request and, on a 401, performs exactly one silent
// refresh before surfacing an auth failure and clearing the stored credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialStore
	logger     *logrus.Logger
}

// NewClient creates an upstream API client
func NewClient(cfg *config.Config, creds CredentialStore, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Upstream.Timeout,
		},
		creds:  creds,
		logger: logger,
	}
}

// errorBody matches the upstream error envelope
type errorBody struct {
	Detail string `json:"detail"`
}

// refreshResponse matches the upstream token refresh envelope
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GetJSON performs a GET request and decodes the response into dest
func (c *Client) GetJSON(ctx context.Context, sessionID, path string, query url.Values, dest interface{}) error {
	target := path
	if len(query) > 0 {
		target = path + "?" + query.Encode()
	}
	return c.do(ctx, sessionID, http.MethodGet, target, "", nil, dest)
}

// PostJSON performs a POST request with a JSON body
func (c *Client) PostJSON(ctx context.Context, sessionID, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.do(ctx, sessionID, http.MethodPost, path, "application/json", payload, dest)
}

// PutJSON performs a PUT request with an optional JSON body
func (c *Client) PutJSON(ctx context.Context, sessionID, path string, body, dest interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}
	return c.do(ctx, sessionID, http.MethodPut, path, "application/json", payload, dest)
}

// PostForm performs a POST request with a form-encoded body
func (c *Client) PostForm(ctx context.Context, sessionID, path string, form url.Values, dest interface{}) error {
	return c.do(ctx, sessionID, http.MethodPost, path, "application/x-www-form-urlencoded", []byte(form.Encode()), dest)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, sessionID, path string) error {
	return c.do(ctx, sessionID, http.MethodDelete, path, "", nil, nil)
}

func (c *Client) do(ctx context.Context, sessionID, method, path, contentType string, body []byte, dest interface{}) error {
	creds, err := c.loadCredentials(ctx, sessionID)
	if err != nil {
		return err
	}

	status, respBody, err := c.send(ctx, method, path, contentType, body, creds)
	if err != nil {
		return err
	}

	// One silent refresh on 401, then retry the original request
	if status == http.StatusUnauthorized && creds != nil {
		creds, err = c.refresh(ctx, sessionID, creds)
		if err != nil {
			return err
		}

		status, respBody, err = c.send(ctx, method, path, contentType, body, creds)
		if err != nil {
			return err
		}

		if status == http.StatusUnauthorized {
			// Refreshed credential still rejected; force re-authentication
			if clearErr := c.creds.ClearCredentials(ctx, sessionID); clearErr != nil {
				c.logger.WithError(clearErr).Warn("failed to clear rejected credentials")
			}
			return apperr.Auth("Session expired. Please login again.")
		}
	}

	if status == http.StatusUnauthorized {
		return apperr.Auth("Authentication required")
	}

	if status < 200 || status > 299 {
		detail := decodeDetail(respBody)
		if status == http.StatusNotFound {
			return apperr.NotFound(detail)
		}
		return apperr.Transport(detail, status, nil)
	}

	if dest != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dest); err != nil {
			return fmt.Errorf("failed to decode upstream response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte, creds *Credentials) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if creds != nil && creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperr.Transport("Unable to connect to the server. Please check your connection.", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperr.Transport("Failed to read upstream response", resp.StatusCode, err)
	}

	return resp.StatusCode, respBody, nil
}

// refresh exchanges the stored refresh token for a new credential pair
func (c *Client) refresh(ctx context.Context, sessionID string, creds *Credentials) (*Credentials, error) {
	if creds.RefreshToken == "" {
		if err := c.creds.ClearCredentials(ctx, sessionID); err != nil {
			c.logger.WithError(err).Warn("failed to clear expired credentials")
		}
		return nil, apperr.Auth("Session expired. Please login again.")
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": creds.RefreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to encode refresh request: %w", err)
	}

	status, respBody, err := c.send(ctx, http.MethodPost, "/auth/refresh", "application/json", payload, nil)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		if clearErr := c.creds.ClearCredentials(ctx, sessionID); clearErr != nil {
			c.logger.WithError(clearErr).Warn("failed to clear expired credentials")
		}
		return nil, apperr.Auth("Session expired. Please login again.")
	}

	var refreshed refreshResponse
	if err := json.Unmarshal(respBody, &refreshed); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}

	next := &Credentials{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = creds.RefreshToken
	}

	if err := c.creds.UpdateCredentials(ctx, sessionID, next); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed credentials: %w", err)
	}

	c.logger.WithField("session_id", sessionID).Debug("upstream credentials refreshed")
	return next, nil
}

func (c *Client) loadCredentials(ctx context.Context, sessionID string) (*Credentials, error) {
	if sessionID == "" || c.creds == nil {
		return nil, nil
	}
	creds, err := c.creds.Credentials(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session credentials: %w", err)
	}
	return creds, nil
}

func decodeDetail(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return "Something went wrong"
}
