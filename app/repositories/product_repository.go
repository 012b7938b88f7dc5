package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/pkg/collection"
	"github.com/mobilemart/server/pkg/store"
)

// ProductRepository handles the products collection.
type ProductRepository struct {
	col store.Collection
}

func NewProductRepository(s store.Store) *ProductRepository {
	return &ProductRepository{col: s.Collection("products")}
}

// ByCategory lists the still-purchasable products of one category.
func (r *ProductRepository) ByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := r.col.Find(ctx, bson.M{"categoryId": categoryID, "isAvailable": true}, &products)
	return products, err
}

// ByOwner lists every product a seller has posted, sold or not.
func (r *ProductRepository) ByOwner(ctx context.Context, email string) ([]models.Product, error) {
	var products []models.Product
	err := r.col.Find(ctx, bson.M{"ownerEmail": email}, &products)
	return products, err
}

// Advertised lists products flagged for the homepage strip. Sold items
// keep their advertise flag until settlement clears it, so the unpaid
// filter here is the read-side guard.
func (r *ProductRepository) Advertised(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.col.Find(ctx, bson.M{"advertise": true}, &products); err != nil {
		return nil, err
	}
	live := collection.Filter(products, func(p models.Product) bool {
		return p.IsAvailable && !p.Paid
	})
	return collection.SortBy(live, func(a, b models.Product) bool {
		return a.PostedAt.After(b.PostedAt)
	}), nil
}

// Create persists a new listing with the for-sale defaults.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.IsAvailable = true
	product.Paid = false
	if product.PostedAt.IsZero() {
		product.PostedAt = time.Now().UTC()
	}
	return r.col.InsertOne(ctx, product)
}

// SetAdvertise toggles the advertise flag on one product.
func (r *ProductRepository) SetAdvertise(ctx context.Context, id string, advertise bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("bad product id %q: %w", id, err)
	}
	n, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"advertise": advertise}, false)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// MarkSettled applies the settlement patch to the product: off the
// shelf, off the ad strip, paid, stamped with the transaction id.
func (r *ProductRepository) MarkSettled(ctx context.Context, productID, transactionID string) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("bad product id %q: %w", productID, err)
	}
	patch := bson.M{
		"isAvailable":   false,
		"advertise":     false,
		"paid":          true,
		"transactionId": transactionID,
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, patch, true)
	return err
}

// Delete removes a listing by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("bad product id %q: %w", id, err)
	}
	return r.col.DeleteOne(ctx, bson.M{"_id": oid})
}
