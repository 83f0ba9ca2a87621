// internal/infrastructure/upstream/client_test.go
package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/pkg/apperr"
)

type fakeCredentialStore struct {
	mu      sync.Mutex
	creds   map[string]*Credentials
	cleared int
	updated int
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{creds: make(map[string]*Credentials)}
}

func (f *fakeCredentialStore) Credentials(_ context.Context, sessionID string) (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds[sessionID], nil
}

func (f *fakeCredentialStore) UpdateCredentials(_ context.Context, sessionID string, creds *Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds[sessionID] = creds
	f.updated++
	return nil
}

func (f *fakeCredentialStore) ClearCredentials(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.creds, sessionID)
	f.cleared++
	return nil
}

func newTestClient(baseURL string, creds CredentialStore) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.Upstream.BaseURL = baseURL
	cfg.Upstream.Timeout = 5 * time.Second
	return NewClient(cfg, creds, logger)
}

func TestGetJSONAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"p1","name":"Widget"}`))
	}))
	defer server.Close()

	store := newFakeCredentialStore()
	store.creds["s1"] = &Credentials{AccessToken: "token-a"}
	client := newTestClient(server.URL, store)

	var dest struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	err := client.GetJSON(context.Background(), "s1", "/products/p1", nil, &dest)
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-a", gotAuth)
	assert.Equal(t, "Widget", dest.Name)
}

func TestAnonymousRequestOmitsAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeCredentialStore())

	var dest []json.RawMessage
	err := client.GetJSON(context.Background(), "", "/products", nil, &dest)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestSilentRefreshRetriesOnce(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path+" "+r.Header.Get("Authorization"))

		switch {
		case r.URL.Path == "/auth/refresh":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-a", body["refresh_token"])
			_, _ = w.Write([]byte(`{"access_token":"token-b","refresh_token":"refresh-b"}`))
		case r.Header.Get("Authorization") == "Bearer token-b":
			_, _ = w.Write([]byte(`{"name":"Widget"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
		}
	}))
	defer server.Close()

	store := newFakeCredentialStore()
	store.creds["s1"] = &Credentials{AccessToken: "token-a", RefreshToken: "refresh-a"}
	client := newTestClient(server.URL, store)

	var dest struct {
		Name string `json:"name"`
	}
	err := client.GetJSON(context.Background(), "s1", "/products/p1", nil, &dest)
	require.NoError(t, err)
	assert.Equal(t, "Widget", dest.Name)

	// Original request, refresh, retried original
	require.Len(t, requests, 3)
	assert.Equal(t, "/auth/refresh ", requests[1])

	// The refreshed pair is persisted for subsequent requests
	assert.Equal(t, "token-b", store.creds["s1"].AccessToken)
	assert.Equal(t, "refresh-b", store.creds["s1"].RefreshToken)
}

func TestPersistent401ClearsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			_, _ = w.Write([]byte(`{"access_token":"token-b"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := newFakeCredentialStore()
	store.creds["s1"] = &Credentials{AccessToken: "token-a", RefreshToken: "refresh-a"}
	client := newTestClient(server.URL, store)

	err := client.GetJSON(context.Background(), "s1", "/users/profile", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, "Session expired. Please login again.", apperr.MessageOf(err))

	assert.Equal(t, 1, store.cleared)
	assert.Nil(t, store.creds["s1"])
}

func TestRefreshFailureClearsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid refresh token"}`))
	}))
	defer server.Close()

	store := newFakeCredentialStore()
	store.creds["s1"] = &Credentials{AccessToken: "token-a", RefreshToken: "refresh-a"}
	client := newTestClient(server.URL, store)

	err := client.GetJSON(context.Background(), "s1", "/users/profile", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, 1, store.cleared)
}

func TestNoRefreshWithoutRefreshToken(t *testing.T) {
	var refreshCalled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalled = true
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := newFakeCredentialStore()
	store.creds["s1"] = &Credentials{AccessToken: "token-a"}
	client := newTestClient(server.URL, store)

	err := client.GetJSON(context.Background(), "s1", "/users/profile", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.False(t, refreshCalled)
	assert.Equal(t, 1, store.cleared)
}

func TestErrorEnvelopeDetailSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeCredentialStore())

	err := client.PostJSON(context.Background(), "", "/auth/register", map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	assert.Equal(t, "Email already registered", apperr.MessageOf(err))
}

func TestMalformedErrorBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>Internal Server Error</html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeCredentialStore())

	err := client.GetJSON(context.Background(), "", "/products", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "Something went wrong", apperr.MessageOf(err))
}

func TestNotFoundMapsToNotFoundKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Product not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeCredentialStore())

	err := client.GetJSON(context.Background(), "", "/products/missing", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Product not found", apperr.MessageOf(err))
}

func TestUnreachableUpstreamIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL, newFakeCredentialStore())

	err := client.GetJSON(context.Background(), "", "/products", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	assert.Equal(t, "Unable to connect to the server. Please check your connection.", apperr.MessageOf(err))
}

func TestPostFormEncodesBody(t *testing.T) {
	var gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Get("username")
		_, _ = w.Write([]byte(`{"access_token":"token-a"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeCredentialStore())

	var dest struct {
		AccessToken string `json:"access_token"`
	}
	form := map[string][]string{"username": {"asha@example.com"}, "password": {"secret"}}
	err := client.PostForm(context.Background(), "", "/auth/login", form, &dest)
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "asha@example.com", gotBody)
	assert.Equal(t, "token-a", dest.AccessToken)
}
