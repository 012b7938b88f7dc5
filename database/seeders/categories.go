package seeders

import (
	"context"

	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/store"
)

func init() {
	Register("categories", SeedCategories)
}

// SeedCategories inserts the stock phone brand categories. It is a
// no-op when the collection already has documents.
func SeedCategories(ctx context.Context, s store.Store) error {
	repo := repositories.NewCategoryRepository(s)
	return repo.Seed(ctx,
		"iPhone",
		"Samsung",
		"Google Pixel",
		"OnePlus",
		"Xiaomi",
		"Huawei",
	)
}
