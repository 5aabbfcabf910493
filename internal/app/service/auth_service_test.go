package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/internal/common"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)
	req := validRegistration()

	user, err := env.auth.Register(ctx, req)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)

	stored, err := env.users.FindByUsername(ctx, req.Username)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, req.Password, stored.PasswordHash, "password stored in clear")

	loggedIn, token, err := env.auth.Login(ctx, LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	userID, err := env.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)

	req := validRegistration()
	req.Username = "ab"
	req.Email = "not-an-address"

	_, err := env.auth.Register(ctx, req)
	require.ErrorIs(t, err, common.ErrValidation)

	fields := common.FieldErrors(err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")

	// Nothing was written.
	users, listErr := env.users.List(ctx, repository.ListFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, users)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)

	_, err := env.auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Email = "other@example.com" // same username is enough
	_, err = env.auth.Register(ctx, dup)
	assert.ErrorIs(t, err, common.ErrConflict)

	byEmail := validRegistration()
	byEmail.Username = "alice2"
	_, err = env.auth.Register(ctx, byEmail)
	assert.ErrorIs(t, err, common.ErrConflict)

	users, err := env.users.List(ctx, repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 1, "failed registrations must not persist")
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)

	_, err := env.auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice1", "wr0ng-p@ss"},
		{"unknown username", "nobody99", "p@ss1234"},
		{"empty password", "alice1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := env.auth.Login(ctx, LoginRequest{
				Username: tt.username,
				Password: tt.password,
			})
			assert.ErrorIs(t, err, common.ErrUnauthenticated)
			assert.Nil(t, user)
			assert.Empty(t, token, "no session on failed login")
		})
	}

	assert.Zero(t, env.store.Len(), "failed logins must not leave sessions behind")
}

func TestAuthService_LoginRejectsAccountWithoutHash(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)

	// Accounts can exist with no credential, e.g. rows created out of band.
	require.NoError(t, env.users.Create(ctx, &model.User{
		Username: "ghost1",
		Email:    "ghost@example.com",
		Role:     model.RoleUser,
	}))

	_, _, err := env.auth.Login(ctx, LoginRequest{Username: "ghost1", Password: ""})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, _, err = env.auth.Login(ctx, LoginRequest{Username: "ghost1", Password: "anything"})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)

	_, err := env.auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, token, err := env.auth.Login(ctx, LoginRequest{Username: "alice1", Password: "p@ss1234"})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, token))
	_, err = env.sessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	// Logging out again, or with garbage, still succeeds.
	require.NoError(t, env.auth.Logout(ctx, token))
	require.NoError(t, env.auth.Logout(ctx, "stale"))
}

func TestAuthService_SeedAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Hour)

	require.NoError(t, env.auth.SeedAdmin(ctx, "admin1", "s3cret-pw"))

	admin, err := env.users.FindByUsername(ctx, "admin1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, admin.CanAuthenticate())

	// Seeding again leaves the account alone.
	require.NoError(t, env.auth.SeedAdmin(ctx, "admin1", "different-pw"))
	_, _, err = env.auth.Login(ctx, LoginRequest{Username: "admin1", Password: "s3cret-pw"})
	require.NoError(t, err)

	// Unconfigured credentials are a no-op.
	require.NoError(t, env.auth.SeedAdmin(ctx, "", ""))
	require.NoError(t, env.auth.SeedAdmin(ctx, "admin2", ""))
	_, err = env.users.FindByUsername(ctx, "admin2")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
