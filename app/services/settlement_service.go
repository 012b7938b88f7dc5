package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/logger"
	"github.com/mobilemart/server/pkg/outbox"
	"github.com/mobilemart/server/pkg/store"
)

// Outbox step kinds for one confirmed payment.
const (
	StepProductUpdate  = "product_update"
	StepBookingsUpdate = "booking_update"
)

// Confirmation is the payload of a confirmed gateway charge.
type Confirmation struct {
	ProductID     string  `json:"productId" validate:"required"`
	TransactionID string  `json:"transactionId" validate:"required"`
	Price         float64 `json:"price" validate:"nullable,gte=0"`
	BuyerEmail    string  `json:"buyerEmail" validate:"nullable,email"`
}

// SettlementService coordinates the three-step effect of a confirmed
// payment: persist the payment record, mark the product sold, mark all
// bookings of the product paid.
//
// The payment insert is the commit point — if it fails the whole
// operation fails and nothing else runs. The two updates go through the
// settlement outbox: recorded first, then applied, so a failure between
// them leaves a pending entry the drainer retries instead of a silently
// half-settled purchase. The caller's response reflects the payment
// insert only.
type SettlementService struct {
	payments *repositories.PaymentRepository
	log      *outbox.Log
}

func NewSettlementService(
	payments *repositories.PaymentRepository,
	products *repositories.ProductRepository,
	bookings *repositories.BookingRepository,
	log *outbox.Log,
) *SettlementService {
	log.Register(StepProductUpdate, func(ctx context.Context, payload bson.M) error {
		productID, transactionID, err := settlementPayload(payload)
		if err != nil {
			return err
		}
		return products.MarkSettled(ctx, productID, transactionID)
	})
	log.Register(StepBookingsUpdate, func(ctx context.Context, payload bson.M) error {
		productID, transactionID, err := settlementPayload(payload)
		if err != nil {
			return err
		}
		return bookings.MarkPaid(ctx, productID, transactionID)
	})

	return &SettlementService{payments: payments, log: log}
}

// Confirm settles a confirmed charge. Idempotent on the transaction id:
// a replayed confirmation returns the already-recorded payment with
// alreadySettled=true and performs no further writes.
func (s *SettlementService) Confirm(ctx context.Context, c Confirmation) (models.Payment, bool, error) {
	if c.ProductID == "" || c.TransactionID == "" {
		return models.Payment{}, false, fmt.Errorf("settlement: missing productId or transactionId")
	}

	existing, err := s.payments.ByTransactionID(ctx, c.TransactionID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.Payment{}, false, err
	}

	paymentRecord := models.Payment{
		ProductID:     c.ProductID,
		TransactionID: c.TransactionID,
		Price:         c.Price,
		BuyerEmail:    c.BuyerEmail,
	}
	if err := s.payments.Create(ctx, &paymentRecord); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// Lost a race with a concurrent confirm of the same charge.
			existing, lookupErr := s.payments.ByTransactionID(ctx, c.TransactionID)
			if lookupErr != nil {
				return models.Payment{}, false, lookupErr
			}
			return existing, true, nil
		}
		return models.Payment{}, false, err
	}

	payload := bson.M{
		"productId":     c.ProductID,
		"transactionId": c.TransactionID,
	}
	entry, err := s.log.Record(ctx, c.TransactionID, payload, StepProductUpdate, StepBookingsUpdate)
	if err != nil {
		// The payment is committed; the updates are lost until the
		// operator replays them. Loud log, but the caller still gets
		// the recorded payment back.
		logger.WithCtx(ctx).Error("settlement: outbox record failed",
			"transaction_id", c.TransactionID, "error", err)
		return paymentRecord, false, nil
	}

	s.log.Apply(ctx, entry)
	return paymentRecord, false, nil
}

func settlementPayload(payload bson.M) (productID, transactionID string, err error) {
	productID, _ = payload["productId"].(string)
	transactionID, _ = payload["transactionId"].(string)
	if productID == "" || transactionID == "" {
		return "", "", fmt.Errorf("settlement: malformed outbox payload %v", payload)
	}
	return productID, transactionID, nil
}
