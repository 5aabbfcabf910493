package service

import (
	"io"
	"log/slog"
	"time"

	"userhub/internal/common/security"
	"userhub/internal/domain/repository"
	"userhub/internal/platform/metrics"
	"userhub/internal/platform/session"
)

type testEnv struct {
	users    repository.UserRepository
	store    *session.MemoryStore
	sessions *SessionManager
	auth     *AuthService
	authz    *Authorizer
	admin    *AdminService
}

func newTestEnv(ttl time.Duration) *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	users := repository.NewMemoryUserRepository()
	store := session.NewMemoryStore()
	sessions := NewSessionManager(store, ttl)
	authz := NewAuthorizer(sessions, users)

	return &testEnv{
		users:    users,
		store:    store,
		sessions: sessions,
		auth:     NewAuthService(users, sessions, security.NewPasswordHasher(logger), logger, m),
		authz:    authz,
		admin:    NewAdminService(authz, users, m),
	}
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username:    "alice1",
		Email:       "alice@example.com",
		Password:    "p@ss1234",
		Nationality: "US",
	}
}
