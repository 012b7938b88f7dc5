package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mobilemart/server/pkg/store"
)

type account struct {
	Email string `bson:"email"`
	Role  string `bson:"role"`
}

func TestMemory_InsertAndFindOne(t *testing.T) {
	ctx := context.Background()
	col := store.NewMemory().Collection("users")

	require.NoError(t, col.InsertOne(ctx, account{Email: "a@example.com", Role: "buyer"}))

	var got account
	require.NoError(t, col.FindOne(ctx, bson.M{"email": "a@example.com"}, &got))
	assert.Equal(t, "buyer", got.Role)

	err := col.FindOne(ctx, bson.M{"email": "missing@example.com"}, &got)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemory_FindMany(t *testing.T) {
	ctx := context.Background()
	col := store.NewMemory().Collection("users")

	require.NoError(t, col.InsertOne(ctx, account{Email: "a@example.com", Role: "seller"}))
	require.NoError(t, col.InsertOne(ctx, account{Email: "b@example.com", Role: "seller"}))
	require.NoError(t, col.InsertOne(ctx, account{Email: "c@example.com", Role: "buyer"}))

	var sellers []account
	require.NoError(t, col.Find(ctx, bson.M{"role": "seller"}, &sellers))
	assert.Len(t, sellers, 2)

	var none []account
	require.NoError(t, col.Find(ctx, bson.M{"role": "admin"}, &none))
	assert.Empty(t, none)
}

func TestMemory_UniqueConstraint(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory().Unique("users", "email")
	col := mem.Collection("users")

	require.NoError(t, col.InsertOne(ctx, account{Email: "a@example.com"}))
	err := col.InsertOne(ctx, account{Email: "a@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
	assert.Equal(t, 1, mem.Count("users"))
}

func TestMemory_UpdateOne(t *testing.T) {
	ctx := context.Background()
	col := store.NewMemory().Collection("users")

	require.NoError(t, col.InsertOne(ctx, account{Email: "a@example.com", Role: "buyer"}))

	n, err := col.UpdateOne(ctx, bson.M{"email": "a@example.com"}, bson.M{"role": "seller"}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var got account
	require.NoError(t, col.FindOne(ctx, bson.M{"email": "a@example.com"}, &got))
	assert.Equal(t, "seller", got.Role)

	n, err = col.UpdateOne(ctx, bson.M{"email": "missing@example.com"}, bson.M{"role": "seller"}, false)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_UpdateOneUpsert(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	col := mem.Collection("users")

	n, err := col.UpdateOne(ctx, bson.M{"email": "new@example.com"}, bson.M{"role": "buyer"}, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, mem.Count("users"))

	var got account
	require.NoError(t, col.FindOne(ctx, bson.M{"email": "new@example.com"}, &got))
	assert.Equal(t, "buyer", got.Role)
}

func TestMemory_UpdateMany(t *testing.T) {
	ctx := context.Background()
	col := store.NewMemory().Collection("users")

	require.NoError(t, col.InsertOne(ctx, account{Email: "a@example.com", Role: "buyer"}))
	require.NoError(t, col.InsertOne(ctx, account{Email: "b@example.com", Role: "buyer"}))

	n, err := col.UpdateMany(ctx, bson.M{"role": "buyer"}, bson.M{"role": "seller"}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestMemory_DeleteOne(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	col := mem.Collection("users")

	require.NoError(t, col.InsertOne(ctx, account{Email: "a@example.com"}))
	require.NoError(t, col.DeleteOne(ctx, bson.M{"email": "a@example.com"}))
	assert.Zero(t, mem.Count("users"))

	// Deleting a missing document is not an error.
	require.NoError(t, col.DeleteOne(ctx, bson.M{"email": "a@example.com"}))
}

func TestMemory_FailNext(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	col := mem.Collection("users")

	boom := errors.New("boom")
	mem.FailNext("users", "insertOne", boom)

	err := col.InsertOne(ctx, account{Email: "a@example.com"})
	assert.ErrorIs(t, err, boom)

	// The fault is one-shot.
	assert.NoError(t, col.InsertOne(ctx, account{Email: "a@example.com"}))
}
