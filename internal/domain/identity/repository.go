// internal/domain/identity/repository.go
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/infrastructure/upstream"
)

// SessionRepository persists session records. It also backs the upstream
// transport as its credential store, so a token refresh performed deep in
// the client is durable immediately.
type SessionRepository struct {
	store storage.Store
}

// NewSessionRepository creates a session repository over the given store
func NewSessionRepository(store storage.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get loads the session record, or an empty anonymous record when absent
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.store.Load(ctx, storage.Key(storage.KeySession, sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		now := time.Now().UTC()
		return &Session{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Save persists the session record
func (r *SessionRepository) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.store.Save(ctx, storage.Key(storage.KeySession, sess.SessionID), data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session record entirely
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, storage.Key(storage.KeySession, sessionID)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Credentials implements upstream.CredentialStore
func (r *SessionRepository) Credentials(ctx context.Context, sessionID string) (*upstream.Credentials, error) {
	sess, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Credentials, nil
}

// UpdateCredentials implements upstream.CredentialStore
func (r *SessionRepository) UpdateCredentials(ctx context.Context, sessionID string, creds *upstream.Credentials) error {
	sess, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Credentials = creds
	return r.Save(ctx, sess)
}

// ClearCredentials implements upstream.CredentialStore. The principal goes
// with the credential: a session that cannot act as the user is anonymous.
func (r *SessionRepository) ClearCredentials(ctx context.Context, sessionID string) error {
	sess, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Credentials = nil
	sess.Principal = nil
	return r.Save(ctx, sess)
}

// Compile-time check against the transport's expectation
var _ upstream.CredentialStore = (*SessionRepository)(nil)
