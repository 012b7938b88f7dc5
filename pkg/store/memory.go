package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store. Perfect for tests; not durable and not
// shared across processes. Documents are normalised through bson so the
// same models work against Memory and Mongo.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]bson.M
	unique map[string]string // collection → field with a unique constraint
	faults map[string]error  // "collection/op" → one-shot injected error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:   map[string][]bson.M{},
		unique: map[string]string{},
		faults: map[string]error{},
	}
}

// Unique declares a unique field for a collection, mirroring the
// indexes EnsureIndexes creates in production.
func (m *Memory) Unique(collection, field string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unique[collection] = field
	return m
}

// FailNext injects a one-shot error for the next op ("find", "findOne",
// "insertOne", "updateOne", "updateMany", "deleteOne") on collection.
func (m *Memory) FailNext(collection, op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[collection+"/"+op] = err
}

// Count reports how many documents a collection holds.
func (m *Memory) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data[collection])
}

func (m *Memory) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name}
}

type memoryCollection struct {
	store *Memory
	name  string
}

func (c *memoryCollection) fault(op string) error {
	key := c.name + "/" + op
	if err, ok := c.store.faults[key]; ok {
		delete(c.store.faults, key)
		return err
	}
	return nil
}

func (c *memoryCollection) Find(ctx context.Context, filter bson.M, out interface{}) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if err := c.fault("find"); err != nil {
		return err
	}

	var matched []bson.M
	for _, doc := range c.store.data[c.name] {
		if matches(doc, filter) {
			matched = append(matched, doc)
		}
	}
	return decodeAll(matched, out)
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if err := c.fault("findOne"); err != nil {
		return err
	}

	for _, doc := range c.store.data[c.name] {
		if matches(doc, filter) {
			return decodeOne(doc, out)
		}
	}
	return ErrNotFound
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc interface{}) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if err := c.fault("insertOne"); err != nil {
		return err
	}

	normalised, err := normalise(doc)
	if err != nil {
		return err
	}
	if _, ok := normalised["_id"]; !ok {
		normalised["_id"] = primitive.NewObjectID()
	}

	if field, ok := c.store.unique[c.name]; ok {
		for _, existing := range c.store.data[c.name] {
			if equal(existing[field], normalised[field]) {
				return ErrDuplicateKey
			}
		}
	}

	c.store.data[c.name] = append(c.store.data[c.name], normalised)
	return nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter, patch bson.M, upsert bool) (int64, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if err := c.fault("updateOne"); err != nil {
		return 0, err
	}

	for _, doc := range c.store.data[c.name] {
		if matches(doc, filter) {
			apply(doc, patch)
			return 1, nil
		}
	}

	if upsert {
		doc := bson.M{"_id": primitive.NewObjectID()}
		apply(doc, filter)
		apply(doc, patch)
		c.store.data[c.name] = append(c.store.data[c.name], doc)
		return 1, nil
	}
	return 0, nil
}

func (c *memoryCollection) UpdateMany(ctx context.Context, filter, patch bson.M, upsert bool) (int64, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if err := c.fault("updateMany"); err != nil {
		return 0, err
	}

	var n int64
	for _, doc := range c.store.data[c.name] {
		if matches(doc, filter) {
			apply(doc, patch)
			n++
		}
	}

	if n == 0 && upsert {
		doc := bson.M{"_id": primitive.NewObjectID()}
		apply(doc, filter)
		apply(doc, patch)
		c.store.data[c.name] = append(c.store.data[c.name], doc)
		return 1, nil
	}
	return n, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if err := c.fault("deleteOne"); err != nil {
		return err
	}

	docs := c.store.data[c.name]
	for i, doc := range docs {
		if matches(doc, filter) {
			c.store.data[c.name] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

// ─── bson round-tripping ──────────────────────────────────────────────────────

func normalise(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("store: marshal: %w", err)
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("store: unmarshal: %w", err)
	}
	return out, nil
}

func decodeOne(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("store: decode: %w", err)
	}
	return nil
}

func decodeAll(docs []bson.M, out interface{}) error {
	slice := reflect.ValueOf(out).Elem()
	elemType := slice.Type().Elem()

	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(elemType)
		if err := decodeOne(doc, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Set(result)
	return nil
}

// ─── filter evaluation ────────────────────────────────────────────────────────

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		if !equal(doc[key], want) {
			return false
		}
	}
	return true
}

// equal compares two values loosely across the numeric types bson
// produces (int32/int64/float64) so filters written with Go ints match
// stored documents.
func equal(a, b interface{}) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func apply(doc, patch bson.M) {
	for key, val := range patch {
		normalisedVal, err := normaliseValue(val)
		if err != nil {
			doc[key] = val
			continue
		}
		doc[key] = normalisedVal
	}
}

func normaliseValue(v interface{}) (interface{}, error) {
	wrapped, err := normalise(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return wrapped["v"], nil
}
