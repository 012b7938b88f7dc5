package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/pkg/store"
)

// ErrUserExists is returned by Create when the email is already taken.
var ErrUserExists = errors.New("user already exists")

// UserRepository handles the users collection.
type UserRepository struct {
	col store.Collection
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{col: s.Collection("users")}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}, &user)
	return user, err
}

// Resolve returns the normalized stored role for email, satisfying
// rbac.Resolver.
func (r *UserRepository) Resolve(ctx context.Context, email string) (string, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return models.NormalizeRole(user.Role), nil
}

// Create persists a new user. The duplicate check inspects the lookup
// result, so a taken email reliably returns ErrUserExists instead of a
// second document.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.FindByEmail(ctx, user.Email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Role = models.NormalizeRole(user.Role)

	err = r.col.InsertOne(ctx, user)
	if errors.Is(err, store.ErrDuplicateKey) {
		return ErrUserExists
	}
	return err
}

// ByRole lists users whose stored role matches role.
func (r *UserRepository) ByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := r.col.Find(ctx, bson.M{"role": models.NormalizeRole(role)}, &users)
	return users, err
}

// VerifySeller flips the verified flag on a seller account.
func (r *UserRepository) VerifySeller(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("bad user id %q: %w", id, err)
	}
	n, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"verified": true}, false)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("bad user id %q: %w", id, err)
	}
	return r.col.DeleteOne(ctx, bson.M{"_id": oid})
}
