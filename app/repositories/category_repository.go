package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/pkg/store"
)

// CategoryRepository handles the read-mostly categories collection.
type CategoryRepository struct {
	col store.Collection
}

func NewCategoryRepository(s store.Store) *CategoryRepository {
	return &CategoryRepository{col: s.Collection("categories")}
}

// All lists every category.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.col.Find(ctx, bson.M{}, &categories)
	return categories, err
}

// Seed inserts the given category names if the collection is empty.
func (r *CategoryRepository) Seed(ctx context.Context, names ...string) error {
	existing, err := r.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range names {
		category := models.Category{ID: primitive.NewObjectID(), Name: name}
		if err := r.col.InsertOne(ctx, category); err != nil {
			return err
		}
	}
	return nil
}
