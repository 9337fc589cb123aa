package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arlen/devconnector/internal/utils"
)

func TestUserRepoCreateAndGet(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, "Jane", "jane@example.com", "https://g/av", "secret1", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotZero(t, id)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Jane", byID.Name)
	require.Equal(t, "jane@example.com", byID.Email)
	require.True(t, utils.VerifyPassword(byID.PasswordHash, "secret1"))

	byEmail, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, byID.ID, byEmail.ID)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "Jane", "jane@example.com", "", "secret1", bcrypt.MinCost)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Other", "jane@example.com", "", "secret2", bcrypt.MinCost)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepoEmailIsCaseSensitive(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "Jane", "Jane@Example.com", "", "secret1", bcrypt.MinCost)
	require.NoError(t, err)

	// Matching is exact: a differently-cased address is a different account.
	_, err = repo.GetByEmail(ctx, "jane@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "Jane@Example.com")
	require.NoError(t, err)
}

func TestUserRepoNotFound(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepoDelete(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, "Jane", "jane@example.com", "", "secret1", bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	require.ErrorIs(t, err, ErrUserNotFound)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, id))
}
