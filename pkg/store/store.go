// Package store defines the document-store contract the application is
// built against, plus a MongoDB implementation and an in-process
// implementation for tests.
//
// The store handle is constructed once at boot and passed into every
// repository — there is no package-level singleton. Filters are plain
// equality matches expressed as bson.M:
//
//	col := s.Collection("users")
//	var user models.User
//	err := col.FindOne(ctx, bson.M{"email": email}, &user)
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("store: document not found")

// ErrDuplicateKey is returned by InsertOne when a unique index rejects
// the document.
var ErrDuplicateKey = errors.New("store: duplicate key")

// Store hands out collection handles by name.
type Store interface {
	Collection(name string) Collection
}

// Collection is the minimal document-collection surface the application
// uses. Every call takes a context; implementations are expected to
// bound each operation with a deadline so a hung backend cannot hang
// the request indefinitely.
type Collection interface {
	// Find decodes all matching documents into out (a pointer to a slice).
	Find(ctx context.Context, filter bson.M, out interface{}) error

	// FindOne decodes the first matching document into out, or returns
	// ErrNotFound.
	FindOne(ctx context.Context, filter bson.M, out interface{}) error

	InsertOne(ctx context.Context, doc interface{}) error

	// UpdateOne applies patch (a $set-style field map) to the first
	// matching document. Returns the number of documents modified or
	// upserted.
	UpdateOne(ctx context.Context, filter, patch bson.M, upsert bool) (int64, error)

	// UpdateMany applies patch to every matching document.
	UpdateMany(ctx context.Context, filter, patch bson.M, upsert bool) (int64, error)

	DeleteOne(ctx context.Context, filter bson.M) error
}
