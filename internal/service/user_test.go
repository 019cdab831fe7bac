package service

import (
	"context"
	"testing"
	"time"

	"hermandad/internal/model"
	"hermandad/internal/repository"
	"hermandad/internal/testutil"
	"hermandad/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_EnsureDirectorAndAuthenticate(t *testing.T) {
	svc := NewUserService(repository.NewUserRepository(testutil.NewTestDB(t)), time.Second, logger.NewNop())
	ctx := context.Background()

	created, err := svc.EnsureDirector(ctx, "director", "clave-segura")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDirector(ctx, "director", "otra")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := svc.Authenticate(ctx, " director ", "clave-segura")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDirector, user.Role)
	assert.NotEqual(t, "clave-segura", user.Password)
}

func TestUserService_AuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc := NewUserService(repository.NewUserRepository(testutil.NewTestDB(t)), time.Second, logger.NewNop())
	ctx := context.Background()

	_, err := svc.EnsureDirector(ctx, "director", "clave-segura")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "director", "mala")
	_, unknownUser := svc.Authenticate(ctx, "nadie", "clave-segura")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}
