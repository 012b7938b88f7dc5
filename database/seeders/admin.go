package seeders

import (
	"context"
	"errors"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/config"
	"github.com/mobilemart/server/pkg/store"
)

func init() {
	Register("admin-user", SeedAdminUser)
}

// SeedAdminUser creates the initial admin account named by ADMIN_EMAIL.
// Re-running against an existing account is a no-op.
func SeedAdminUser(ctx context.Context, s store.Store) error {
	email := config.Get("ADMIN_EMAIL", "admin@mobilemart.local")
	repo := repositories.NewUserRepository(s)
	err := repo.Create(ctx, &models.User{
		Name:     "Administrator",
		Email:    email,
		Role:     models.RoleAdmin,
		Verified: true,
	})
	if errors.Is(err, repositories.ErrUserExists) {
		return nil
	}
	return err
}
