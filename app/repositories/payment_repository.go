package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/pkg/store"
)

// PaymentRepository handles the append-only payments collection.
type PaymentRepository struct {
	col store.Collection
}

func NewPaymentRepository(s store.Store) *PaymentRepository {
	return &PaymentRepository{col: s.Collection("payments")}
}

// ByTransactionID fetches the payment recorded for a gateway
// transaction, or store.ErrNotFound.
func (r *PaymentRepository) ByTransactionID(ctx context.Context, transactionID string) (models.Payment, error) {
	var payment models.Payment
	err := r.col.FindOne(ctx, bson.M{"transactionId": transactionID}, &payment)
	return payment, err
}

// Create persists a new payment record. The unique index on
// transactionId makes a concurrent duplicate surface as
// store.ErrDuplicateKey.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	return r.col.InsertOne(ctx, payment)
}
