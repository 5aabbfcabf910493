// Package security holds the credential primitives: password hashing and
// session token generation.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters (OWASP recommendation).
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHasher provides one-way salted hashing and verification.
type PasswordHasher struct {
	logger *slog.Logger
}

// NewPasswordHasher creates a hasher. The logger records malformed-hash
// anomalies seen during verification; nil falls back to slog.Default.
func NewPasswordHasher(logger *slog.Logger) *PasswordHasher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordHasher{logger: logger}
}

// Hash produces an argon2id hash of the password with a fresh random salt,
// encoded in PHC string format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
// The encoding is self-describing, so verification needs no external state.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("security: generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// Verify reports whether password matches the encoded hash. The comparison
// is constant-time. A malformed stored hash yields false, never an error;
// the anomaly is logged so a corrupted credential row is noticed.
func (h *PasswordHasher) Verify(password, encodedHash string) bool {
	salt, expected, time, memory, threads, ok := h.parse(encodedHash)
	if !ok {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// DummyHash is a well-formed argon2id hash that matches no password. Login
// verifies against it when the username does not exist, keeping response
// timing independent of account existence. Not a credential.
const DummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func (h *PasswordHasher) parse(encodedHash string) (salt, hash []byte, time, memory uint32, threads uint8, ok bool) {
	fail := func(reason string) (salt, hash []byte, time, memory uint32, threads uint8, ok bool) {
		h.logger.Warn("malformed password hash", slog.String("reason", reason))
		return nil, nil, 0, 0, 0, false
	}

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return fail("wrong segment count")
	}
	if parts[1] != "argon2id" {
		return fail("unsupported algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return fail("unparseable version")
	}

	var m, t, p uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return fail("unparseable cost parameters")
	}
	if p == 0 || p > 255 {
		return fail("parallelism out of range")
	}

	saltBytes, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fail("undecodable salt")
	}
	hashBytes, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fail("undecodable digest")
	}
	if len(hashBytes) == 0 || len(hashBytes) > 1<<10 {
		return fail("digest length out of range")
	}

	return saltBytes, hashBytes, t, m, uint8(p), true
}
