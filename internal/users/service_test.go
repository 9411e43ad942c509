package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/security"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestChangePassword(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	hash, err := security.HashPassword("oldpass123", testPasswordCfg)
	require.NoError(t, err)
	user, err := repo.Create(ctx, NewUser{
		Email:        "planner@sievo.id",
		PasswordHash: hash,
		FirstName:    "Rina",
		LastName:     "Wijaya",
	})
	require.NoError(t, err)

	svc, err := NewService(repo, testPasswordCfg)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpass123"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "oldpass123", NewPassword: "lettersonly"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "oldpass123", NewPassword: "newpass123"}))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("newpass123", reloaded.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetUnknownUser(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)), testPasswordCfg)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRepositoryNormalizesEmail(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, NewUser{Email: "  Dewi@Sievo.ID ", PasswordHash: "x", FirstName: " Dewi ", LastName: "Lestari"})
	require.NoError(t, err)
	assert.Equal(t, "dewi@sievo.id", created.Email)
	assert.Equal(t, "Dewi", created.FirstName)

	found, err := repo.FindByEmail(ctx, "DEWI@sievo.id")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Dewi Lestari", FromModel(found).FullName)
}
