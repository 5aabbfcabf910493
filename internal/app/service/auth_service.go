package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"userhub/internal/common"
	"userhub/internal/common/security"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"
	"userhub/internal/platform/metrics"
)

var tracer = otel.Tracer("userhub/auth")

type AuthService struct {
	users    repository.UserRepository
	sessions *SessionManager
	hasher   *security.PasswordHasher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewAuthService(
	users repository.UserRepository,
	sessions *SessionManager,
	hasher *security.PasswordHasher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
		metrics:  m,
	}
}

type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	Nationality string
}

type LoginRequest struct {
	Username string
	Password string
}

// Register validates the request, hashes the password and creates the user.
// Validation failures carry field messages; a username or email collision
// surfaces as common.ErrConflict. The whole operation runs inside a span.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	ctx, span := tracer.Start(ctx, "auth.register")
	defer span.End()
	span.SetAttributes(attribute.String("username", req.Username))

	if err := model.ValidateRegistration(req.Username, req.Email, req.Password, req.Nationality); err != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	// Hashing is deliberately expensive; it happens before any store
	// mutation and outside any lock.
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Nationality:  req.Nationality,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			s.metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
			return nil, err
		}
		s.metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login verifies credentials and issues a session token. Every failure mode
// (unknown username, wrong password, non-loginable account) returns the
// same common.ErrUnauthenticated so responses never reveal which field was
// wrong. Verification runs even for unknown usernames, against a dummy
// hash, to keep timing independent of account existence.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)

	targetHash := security.DummyHash
	userExists := false
	switch {
	case err == nil:
		userExists = true
		if user.CanAuthenticate() {
			targetHash = user.PasswordHash
		}
	case errors.Is(err, common.ErrNotFound):
		// keep the dummy hash
	default:
		s.metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	valid := s.hasher.Verify(req.Password, targetHash)
	if !userExists || !user.CanAuthenticate() || !valid {
		s.metrics.LoginsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, "", common.ErrUnauthenticated
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		s.metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, "", err
	}

	s.metrics.LoginsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))
	return user, token, nil
}

// Logout destroys the session for the token. Safe to call with any token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// SeedAdmin creates the bootstrap admin account if both credentials are
// configured and no such user exists yet. The password goes through the
// normal hashing path; nothing about the account is special except its
// role. Existing accounts are left untouched.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        username + "@localhost",
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent seed already created it.
		if errors.Is(err, common.ErrConflict) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}

	s.logger.Info("bootstrap admin seeded", slog.String("username", username))
	return nil
}
