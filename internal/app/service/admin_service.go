package service

import (
	"context"
	"fmt"

	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"
	"userhub/internal/platform/metrics"
)

// AdminService serves the back-office user listing. Authorization is
// delegated to the gate; results are projected onto the admin view-model,
// so password hashes never cross this boundary regardless of the storage
// row shape.
type AdminService struct {
	authz   *Authorizer
	users   repository.UserRepository
	metrics *metrics.Metrics
}

func NewAdminService(authz *Authorizer, users repository.UserRepository, m *metrics.Metrics) *AdminService {
	return &AdminService{authz: authz, users: users, metrics: m}
}

// ListUsers returns the filtered, searchable user listing for an admin
// session. Non-admin sessions get ErrForbidden, invalid sessions
// ErrUnauthenticated.
func (s *AdminService) ListUsers(ctx context.Context, token string, filter repository.ListFilter) ([]model.View, error) {
	if _, err := s.authz.RequireAdmin(ctx, token); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]model.View, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}

	s.metrics.AdminListingsTotal.Inc()
	return views, nil
}
