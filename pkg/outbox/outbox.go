// Package outbox persists the multi-collection side effects of a
// confirmed payment as a step log before applying them. A crash or a
// store failure between steps leaves the entry pending instead of
// silently half-settled; the background drainer retries pending steps
// until they complete or exhaust their attempts.
//
// Usage:
//
//	log := outbox.New(st, "settlement_outbox")
//	log.Register("product_update", markProduct)
//	log.Register("booking_update", markBookings)
//
//	entry, _ := log.Record(ctx, txID, payload, "product_update", "booking_update")
//	log.Apply(ctx, entry)         // synchronous first attempt
//	log.Drain(ctx)                // retries anything left pending, run on a schedule
package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mobilemart/server/pkg/collection"
	"github.com/mobilemart/server/pkg/logger"
	"github.com/mobilemart/server/pkg/metrics"
	"github.com/mobilemart/server/pkg/store"
	"github.com/mobilemart/server/pkg/workerpool"
)

// DefaultMaxAttempts bounds retries per step before the entry is parked
// for manual inspection.
const DefaultMaxAttempts = 5

// drainWorkers caps how many entries a single Drain pass applies
// concurrently.
const drainWorkers = 4

// Handler executes one step kind against the entry payload.
type Handler func(ctx context.Context, payload bson.M) error

// Step is one pending or completed side effect of an entry.
type Step struct {
	Kind      string `bson:"kind"`
	Done      bool   `bson:"done"`
	Attempts  int    `bson:"attempts"`
	LastError string `bson:"lastError,omitempty"`
}

// Entry is the persisted outbox record.
type Entry struct {
	ID          string     `bson:"_id"`
	Key         string     `bson:"key"` // idempotency key, e.g. the gateway transaction id
	Payload     bson.M     `bson:"payload"`
	Steps       []Step     `bson:"steps"`
	Pending     bool       `bson:"pending"`
	Abandoned   bool       `bson:"abandoned"`
	CreatedAt   time.Time  `bson:"createdAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty"`
}

// Log records and applies outbox entries.
type Log struct {
	col         store.Collection
	mu          sync.RWMutex
	handlers    map[string]Handler
	maxAttempts int
}

// New returns a Log writing to the named collection of s.
func New(s store.Store, name string) *Log {
	return &Log{
		col:         s.Collection(name),
		handlers:    map[string]Handler{},
		maxAttempts: DefaultMaxAttempts,
	}
}

// SetMaxAttempts overrides the per-step retry budget.
func (l *Log) SetMaxAttempts(n int) { l.maxAttempts = n }

// Register binds a step kind to its handler. Call once at boot for
// every kind passed to Record.
func (l *Log) Register(kind string, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[kind] = h
}

// Record persists a new entry with one pending step per kind. Nothing
// is executed yet; the entry exists before any side effect runs.
func (l *Log) Record(ctx context.Context, key string, payload bson.M, kinds ...string) (*Entry, error) {
	steps := make([]Step, len(kinds))
	for i, kind := range kinds {
		steps[i] = Step{Kind: kind}
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		Key:       key,
		Payload:   payload,
		Steps:     steps,
		Pending:   true,
		CreatedAt: time.Now().UTC(),
	}

	if err := l.col.InsertOne(ctx, entry); err != nil {
		return nil, fmt.Errorf("outbox: record: %w", err)
	}
	metrics.SettlementPending.Inc()
	return entry, nil
}

// Apply runs every pending step of entry and persists the resulting
// step state. Step errors are absorbed: the step stays pending with its
// attempt count bumped, and the drainer picks it up again later.
func (l *Log) Apply(ctx context.Context, entry *Entry) {
	log := logger.WithCtx(ctx)

	for i := range entry.Steps {
		step := &entry.Steps[i]
		if step.Done {
			continue
		}

		handler := l.handler(step.Kind)
		if handler == nil {
			step.LastError = "no handler registered"
			log.Error("outbox: unregistered step kind", "kind", step.Kind, "entry", entry.ID)
			continue
		}

		step.Attempts++
		if err := handler(ctx, entry.Payload); err != nil {
			step.LastError = err.Error()
			metrics.RecordSettlementStep(step.Kind, "failed")
			log.Warn("outbox: step failed",
				"kind", step.Kind, "entry", entry.ID,
				"attempt", step.Attempts, "error", err)
			continue
		}

		step.Done = true
		step.LastError = ""
		metrics.RecordSettlementStep(step.Kind, "done")
	}

	l.persist(ctx, entry)
}

// Drain re-applies every entry that still has pending steps. Entries
// whose steps exhausted their attempts are parked as abandoned so they
// stop churning but stay visible in the collection.
func (l *Log) Drain(ctx context.Context) error {
	var entries []Entry
	if err := l.col.Find(ctx, bson.M{"pending": true}, &entries); err != nil {
		return fmt.Errorf("outbox: drain: %w", err)
	}

	pool := workerpool.New(drainWorkers)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	for i := range entries {
		entry := &entries[i]
		if l.exhausted(entry) {
			entry.Abandoned = true
			l.persist(ctx, entry)
			logger.Error("outbox: entry abandoned", "entry", entry.ID, "key", entry.Key)
			continue
		}

		wg.Add(1)
		if err := pool.SubmitWait(func() {
			defer wg.Done()
			l.Apply(ctx, entry)
		}); err != nil {
			wg.Done()
			return fmt.Errorf("outbox: drain: %w", err)
		}
	}
	wg.Wait()
	return nil
}

func (l *Log) handler(kind string) Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.handlers[kind]
}

func (l *Log) exhausted(entry *Entry) bool {
	retryable := collection.Contains(entry.Steps, func(s Step) bool {
		return !s.Done && s.Attempts < l.maxAttempts
	})
	if retryable {
		return false
	}
	return collection.Contains(entry.Steps, func(s Step) bool { return !s.Done })
}

func (l *Log) persist(ctx context.Context, entry *Entry) {
	settled := !collection.Contains(entry.Steps, func(s Step) bool { return !s.Done })

	wasPending := entry.Pending
	patch := bson.M{
		"steps":     entry.Steps,
		"abandoned": entry.Abandoned,
	}
	if settled {
		now := time.Now().UTC()
		entry.Pending = false
		entry.CompletedAt = &now
		patch["pending"] = false
		patch["completedAt"] = now
	} else if entry.Abandoned {
		entry.Pending = false
		patch["pending"] = false
	}

	if wasPending && !entry.Pending {
		metrics.SettlementPending.Dec()
	}

	if _, err := l.col.UpdateOne(ctx, bson.M{"_id": entry.ID}, patch, false); err != nil {
		logger.Error("outbox: persist entry state", "entry", entry.ID, "error", err)
	}
}
