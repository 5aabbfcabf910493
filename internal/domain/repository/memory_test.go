package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/internal/common"
	"userhub/internal/domain/model"
)

func newUser(username, email, nationality string) *model.User {
	return &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$placeholder",
		Nationality:  nationality,
		Role:         model.RoleUser,
	}
}

func TestMemoryUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	alice := newUser("alice1", "alice@example.com", "US")
	require.NoError(t, repo.Create(ctx, alice))
	assert.Equal(t, int64(1), alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	bob := newUser("bob22", "bob@example.com", "DE")
	require.NoError(t, repo.Create(ctx, bob))
	assert.Equal(t, int64(2), bob.ID, "ids are monotonic")
}

func TestMemoryUserRepository_CreateConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, newUser("alice1", "alice@example.com", "US")))

	err := repo.Create(ctx, newUser("alice1", "other@example.com", "US"))
	assert.ErrorIs(t, err, common.ErrConflict, "duplicate username")

	err = repo.Create(ctx, newUser("alice2", "alice@example.com", "US"))
	assert.ErrorIs(t, err, common.ErrConflict, "duplicate email")

	users, listErr := repo.List(ctx, ListFilter{})
	require.NoError(t, listErr)
	assert.Len(t, users, 1)
}

func TestMemoryUserRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	alice := newUser("alice1", "alice@example.com", "US")
	require.NoError(t, repo.Create(ctx, alice))

	byName, err := repo.FindByUsername(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byID, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice1", byID.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryUserRepository_FindReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, newUser("alice1", "alice@example.com", "US")))

	first, err := repo.FindByUsername(ctx, "alice1")
	require.NoError(t, err)
	first.Email = "tampered@example.com"

	second, err := repo.FindByUsername(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", second.Email, "callers must not mutate stored state")
}

func TestMemoryUserRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, newUser("carol3", "carol@example.us", "FR")))
	require.NoError(t, repo.Create(ctx, newUser("alice1", "alice@example.com", "US")))
	require.NoError(t, repo.Create(ctx, newUser("bob22", "bob@example.com", "DE")))

	users, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "carol3", users[0].Username, "ordered by id")
	assert.Equal(t, "bob22", users[2].Username)

	users, err = repo.List(ctx, ListFilter{Nationality: "DE"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob22", users[0].Username)

	users, err = repo.List(ctx, ListFilter{Search: "EXAMPLE.COM"})
	require.NoError(t, err)
	assert.Len(t, users, 2, "search is a case-insensitive substring match")

	users, err = repo.List(ctx, ListFilter{Username: "alice1", Nationality: "DE"})
	require.NoError(t, err)
	assert.Empty(t, users, "filters combine conjunctively")
}
