package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"userhub/internal/common"
	"userhub/internal/domain/model"
)

// memoryUserRepository is an in-process UserRepository with the same
// semantics as the PostgreSQL implementation: a monotonic surrogate key,
// atomic check-and-insert under one lock, and case-insensitive search.
// It backs tests and single-node development runs.
type memoryUserRepository struct {
	mu     sync.Mutex
	users  map[int64]model.User
	nextID int64
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[int64]model.User), nextID: 1}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return common.ErrConflict
		}
	}

	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryUserRepository) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := user
	return &u, nil
}

func (r *memoryUserRepository) List(_ context.Context, filter ListFilter) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []model.User
	for _, user := range r.users {
		if filter.Username != "" && user.Username != filter.Username {
			continue
		}
		if filter.Email != "" && user.Email != filter.Email {
			continue
		}
		if filter.Nationality != "" && user.Nationality != filter.Nationality {
			continue
		}
		if filter.Search != "" && !matchesSearch(user, filter.Search) {
			continue
		}
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func matchesSearch(user model.User, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(user.Username), needle) ||
		strings.Contains(strings.ToLower(user.Email), needle) ||
		strings.Contains(strings.ToLower(user.Nationality), needle)
}
