package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mobilemart/server/pkg/metrics"
)

// Mongo is the production Store backed by a MongoDB database.
type Mongo struct {
	client    *mongo.Client
	db        *mongo.Database
	opTimeout time.Duration
}

// ConnectMongo dials uri, pings the server, and returns a Store over the
// named database. Every subsequent collection operation is bounded by
// opTimeout.
func ConnectMongo(ctx context.Context, uri, database string, opTimeout time.Duration) (*Mongo, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(dialCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &Mongo{
		client:    client,
		db:        client.Database(database),
		opTimeout: opTimeout,
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the application relies on:
// one payment per gateway transaction, one user per email.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := m.db.Collection("payments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transactionId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("store: payments index: %w", err)
	}

	_, err = m.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("store: users index: %w", err)
	}

	return nil
}

func (m *Mongo) Collection(name string) Collection {
	return &mongoCollection{col: m.db.Collection(name), opTimeout: m.opTimeout}
}

type mongoCollection struct {
	col       *mongo.Collection
	opTimeout time.Duration
}

func (c *mongoCollection) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M, out interface{}) error {
	defer metrics.ObserveStoreOp("find", time.Now())
	ctx, cancel := c.bound(ctx)
	defer cancel()

	cur, err := c.col.Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("store: find %s: %w", c.col.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("store: decode %s: %w", c.col.Name(), err)
	}
	return nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	defer metrics.ObserveStoreOp("findOne", time.Now())
	ctx, cancel := c.bound(ctx)
	defer cancel()

	err := c.col.FindOne(ctx, filter).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: findOne %s: %w", c.col.Name(), err)
	}
	return nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc interface{}) error {
	defer metrics.ObserveStoreOp("insertOne", time.Now())
	ctx, cancel := c.bound(ctx)
	defer cancel()

	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("store: insertOne %s: %w", c.col.Name(), err)
	}
	return nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter, patch bson.M, upsert bool) (int64, error) {
	defer metrics.ObserveStoreOp("updateOne", time.Now())
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.col.UpdateOne(ctx, filter, bson.M{"$set": patch}, options.Update().SetUpsert(upsert))
	if err != nil {
		return 0, fmt.Errorf("store: updateOne %s: %w", c.col.Name(), err)
	}
	return res.ModifiedCount + res.UpsertedCount, nil
}

func (c *mongoCollection) UpdateMany(ctx context.Context, filter, patch bson.M, upsert bool) (int64, error) {
	defer metrics.ObserveStoreOp("updateMany", time.Now())
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.col.UpdateMany(ctx, filter, bson.M{"$set": patch}, options.Update().SetUpsert(upsert))
	if err != nil {
		return 0, fmt.Errorf("store: updateMany %s: %w", c.col.Name(), err)
	}
	return res.ModifiedCount + res.UpsertedCount, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) error {
	defer metrics.ObserveStoreOp("deleteOne", time.Now())
	ctx, cancel := c.bound(ctx)
	defer cancel()

	if _, err := c.col.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("store: deleteOne %s: %w", c.col.Name(), err)
	}
	return nil
}
