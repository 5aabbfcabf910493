package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// SessionTokenBytes is the raw entropy per token: 32 bytes = 256 bits,
// 64 hex characters on the wire.
const SessionTokenBytes = 32

// GenerateSessionToken creates a random session token and its hash.
// The plaintext token goes to the client; only the hash is stored.
func GenerateSessionToken() (token, hash string, err error) {
	raw := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("security: generate session token: %w", err)
	}

	token = hex.EncodeToString(raw)
	hash = HashSessionToken(token)
	return token, hash, nil
}

// HashSessionToken computes the SHA-256 hash of a session token, hex encoded.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifySessionToken reports whether token matches the stored hash,
// using a constant-time comparison.
func VerifySessionToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	computed := HashSessionToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
