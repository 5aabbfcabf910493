package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"userhub/internal/common"
	"userhub/internal/common/security"
	"userhub/internal/platform/session"
)

// SessionManager issues, resolves and destroys login sessions. Tokens are
// opaque 256-bit random values; the store only ever sees their hash.
//
// State machine: Unauthenticated -> Create -> Authenticated(userID)
// -> (Destroy | expiry) -> Unauthenticated. Expiry is the store's TTL.
type SessionManager struct {
	store session.Store
	ttl   time.Duration
}

func NewSessionManager(store session.Store, ttl time.Duration) *SessionManager {
	return &SessionManager{store: store, ttl: ttl}
}

// Create issues a session for the user and returns the plaintext token.
func (m *SessionManager) Create(ctx context.Context, userID int64) (string, error) {
	token, hash, err := security.GenerateSessionToken()
	if err != nil {
		return "", err
	}
	if err := m.store.Save(ctx, hash, userID, m.ttl); err != nil {
		return "", fmt.Errorf("create session: %w", errors.Join(common.ErrStorage, err))
	}
	return token, nil
}

// Resolve returns the user id a token authenticates, or ErrUnauthenticated
// if the token is malformed, unknown or expired.
func (m *SessionManager) Resolve(ctx context.Context, token string) (int64, error) {
	if !validTokenShape(token) {
		return 0, common.ErrUnauthenticated
	}
	userID, err := m.store.Lookup(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return 0, common.ErrUnauthenticated
		}
		return 0, fmt.Errorf("resolve session: %w", errors.Join(common.ErrStorage, err))
	}
	return userID, nil
}

// Destroy invalidates a token. Idempotent: destroying an unknown, expired
// or malformed token succeeds.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if !validTokenShape(token) {
		return nil
	}
	if err := m.store.Delete(ctx, security.HashSessionToken(token)); err != nil {
		return fmt.Errorf("destroy session: %w", errors.Join(common.ErrStorage, err))
	}
	return nil
}

// validTokenShape filters obvious garbage before it reaches the store:
// tokens are hex-encoded SessionTokenBytes, nothing else can match.
func validTokenShape(token string) bool {
	if len(token) != security.SessionTokenBytes*2 {
		return false
	}
	for _, c := range token {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
