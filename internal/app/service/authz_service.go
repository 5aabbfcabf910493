package service

import (
	"context"
	"errors"
	"fmt"

	"userhub/internal/common"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"
)

// Authorizer is the gate in front of protected routes: it turns a session
// token into a user and applies a policy predicate.
type Authorizer struct {
	sessions *SessionManager
	users    repository.UserRepository
}

func NewAuthorizer(sessions *SessionManager, users repository.UserRepository) *Authorizer {
	return &Authorizer{sessions: sessions, users: users}
}

// RequireAuthenticated resolves the token to its user. Any invalid token,
// and any session whose user no longer exists, yields
// common.ErrUnauthenticated: dangling sessions fail closed.
func (a *Authorizer) RequireAuthenticated(ctx context.Context, token string) (*model.User, error) {
	userID, err := a.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// The session outlived its user. Drop it.
			_ = a.sessions.Destroy(ctx, token)
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authorize: %w", err)
	}
	return user, nil
}

// RequirePredicate additionally applies a policy predicate to the
// authenticated user. An unauthenticated caller gets ErrUnauthenticated;
// an authenticated user failing the predicate gets ErrForbidden. The two
// are always distinguishable.
func (a *Authorizer) RequirePredicate(ctx context.Context, token string, predicate func(*model.User) bool) (*model.User, error) {
	user, err := a.RequireAuthenticated(ctx, token)
	if err != nil {
		return nil, err
	}
	if !predicate(user) {
		return nil, common.ErrForbidden
	}
	return user, nil
}

// RequireAdmin is RequirePredicate with the admin role predicate.
func (a *Authorizer) RequireAdmin(ctx context.Context, token string) (*model.User, error) {
	return a.RequirePredicate(ctx, token, (*model.User).IsAdmin)
}
