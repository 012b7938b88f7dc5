package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/store"
)

func TestUserCreate_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	users := repositories.NewUserRepository(mem)

	require.NoError(t, users.Create(ctx, &models.User{Email: "a@example.com"}))

	err := users.Create(ctx, &models.User{Email: "a@example.com", Name: "Second"})
	assert.ErrorIs(t, err, repositories.ErrUserExists)
	assert.Equal(t, 1, mem.Count("users"))
}

func TestUserCreate_NormalizesRole(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(store.NewMemory())

	for email, role := range map[string]string{
		"a@example.com": "Seller",
		"b@example.com": "ADMIN",
		"c@example.com": "",
		"d@example.com": "weird",
	} {
		require.NoError(t, users.Create(ctx, &models.User{Email: email, Role: role}))
	}

	for email, want := range map[string]string{
		"a@example.com": models.RoleSeller,
		"b@example.com": models.RoleAdmin,
		"c@example.com": models.RoleBuyer,
		"d@example.com": models.RoleBuyer,
	} {
		user, err := users.FindByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, want, user.Role, email)
	}
}

func TestResolve_ReturnsNormalizedRole(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(store.NewMemory())
	require.NoError(t, users.Create(ctx, &models.User{Email: "a@example.com", Role: "admin"}))

	role, err := users.Resolve(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	_, err = users.Resolve(ctx, "missing@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVerifySeller(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(store.NewMemory())

	seller := models.User{Email: "s@example.com", Role: "seller"}
	require.NoError(t, users.Create(ctx, &seller))
	require.False(t, seller.Verified)

	require.NoError(t, users.VerifySeller(ctx, seller.ID.Hex()))

	got, err := users.FindByEmail(ctx, "s@example.com")
	require.NoError(t, err)
	assert.True(t, got.Verified)
}

func TestVerifySeller_UnknownID(t *testing.T) {
	users := repositories.NewUserRepository(store.NewMemory())
	err := users.VerifySeller(context.Background(), "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestByRole(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(store.NewMemory())
	require.NoError(t, users.Create(ctx, &models.User{Email: "a@example.com", Role: "seller"}))
	require.NoError(t, users.Create(ctx, &models.User{Email: "b@example.com", Role: "buyer"}))

	sellers, err := users.ByRole(ctx, "Seller")
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, "a@example.com", sellers[0].Email)
}
