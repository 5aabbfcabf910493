// Package session provides the persistence backends for login sessions.
// Keys are token hashes, never plaintext tokens.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no live session exists for a token hash.
var ErrNotFound = errors.New("session not found")

// Store persists the mapping from session token hash to user id with a TTL.
type Store interface {
	// Save stores a session. Overwrites any existing entry for the hash.
	Save(ctx context.Context, tokenHash string, userID int64, ttl time.Duration) error

	// Lookup returns the user id for a token hash, or ErrNotFound if the
	// session does not exist or has expired.
	Lookup(ctx context.Context, tokenHash string) (int64, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, tokenHash string) error
}
