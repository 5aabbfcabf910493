package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/internal/common"
	"userhub/internal/domain/repository"
)

func seedListingUsers(t *testing.T, env *testEnv) (adminToken string) {
	t.Helper()
	ctx := context.Background()

	for _, req := range []RegisterRequest{
		{Username: "alice1", Email: "alice@example.com", Password: "p@ss1234", Nationality: "US"},
		{Username: "bob22", Email: "bob@example.com", Password: "p@ss1234", Nationality: "DE"},
		{Username: "carol3", Email: "carol@example.us", Password: "p@ss1234", Nationality: "FR"},
	} {
		_, err := env.auth.Register(ctx, req)
		require.NoError(t, err)
	}
	require.NoError(t, env.auth.SeedAdmin(ctx, "admin1", "s3cret-pw"))

	_, token, err := env.auth.Login(ctx, LoginRequest{Username: "admin1", Password: "s3cret-pw"})
	require.NoError(t, err)
	return token
}

func TestAdminService_ListUsers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)
	adminToken := seedListingUsers(t, env)

	views, err := env.admin.ListUsers(ctx, adminToken, repository.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 4)

	// Ordered by id, so insertion order.
	assert.Equal(t, "alice1", views[0].Username)
	assert.Equal(t, "admin1", views[3].Username)
}

func TestAdminService_ListUsersFilters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)
	adminToken := seedListingUsers(t, env)

	views, err := env.admin.ListUsers(ctx, adminToken, repository.ListFilter{Nationality: "DE"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "bob22", views[0].Username)

	views, err = env.admin.ListUsers(ctx, adminToken, repository.ListFilter{Username: "alice1"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "alice@example.com", views[0].Email)

	// Exact filters miss partial values.
	views, err = env.admin.ListUsers(ctx, adminToken, repository.ListFilter{Username: "alice"})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestAdminService_ListUsersSearch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)
	adminToken := seedListingUsers(t, env)

	// Substring, case-insensitive, across username, email and nationality.
	views, err := env.admin.ListUsers(ctx, adminToken, repository.ListFilter{Search: "ALICE"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "alice1", views[0].Username)

	// "us" hits alice1 by nationality and carol3 by email domain.
	views, err = env.admin.ListUsers(ctx, adminToken, repository.ListFilter{Search: "us"})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "alice1", views[0].Username)
	assert.Equal(t, "carol3", views[1].Username)

	views, err = env.admin.ListUsers(ctx, adminToken, repository.ListFilter{Search: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestAdminService_ListUsersAuthorization(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)
	seedListingUsers(t, env)

	_, userToken, err := env.auth.Login(ctx, LoginRequest{Username: "alice1", Password: "p@ss1234"})
	require.NoError(t, err)

	_, err = env.admin.ListUsers(ctx, userToken, repository.ListFilter{})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = env.admin.ListUsers(ctx, "garbage", repository.ListFilter{})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAdminService_ViewsCarryNoCredentialMaterial(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)
	adminToken := seedListingUsers(t, env)

	views, err := env.admin.ListUsers(ctx, adminToken, repository.ListFilter{})
	require.NoError(t, err)

	raw, err := json.Marshal(views)
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(string(raw)), "password")
	assert.NotContains(t, string(raw), "$argon2id$")
}
