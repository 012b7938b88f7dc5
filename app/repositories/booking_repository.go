package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/pkg/store"
)

// BookingRepository handles the bookings collection.
type BookingRepository struct {
	col store.Collection
}

func NewBookingRepository(s store.Store) *BookingRepository {
	return &BookingRepository{col: s.Collection("bookings")}
}

// ByBuyer lists the caller's own bookings.
func (r *BookingRepository) ByBuyer(ctx context.Context, email string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.col.Find(ctx, bson.M{"buyerEmail": email}, &bookings)
	return bookings, err
}

// ByID fetches one booking.
func (r *BookingRepository) ByID(ctx context.Context, id string) (models.Booking, error) {
	var booking models.Booking
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return booking, fmt.Errorf("bad booking id %q: %w", id, err)
	}
	err = r.col.FindOne(ctx, bson.M{"_id": oid}, &booking)
	return booking, err
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.Paid = false
	if booking.BookedAt.IsZero() {
		booking.BookedAt = time.Now().UTC()
	}
	return r.col.InsertOne(ctx, booking)
}

// MarkPaid stamps every booking of the product as paid under the given
// transaction id. All matching bookings are updated, not just the one
// that triggered the charge.
func (r *BookingRepository) MarkPaid(ctx context.Context, productID, transactionID string) error {
	patch := bson.M{
		"paid":          true,
		"transactionId": transactionID,
	}
	_, err := r.col.UpdateMany(ctx, bson.M{"productId": productID}, patch, true)
	return err
}

// Delete removes a booking by id. Ownership is checked by the caller.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("bad booking id %q: %w", id, err)
	}
	return r.col.DeleteOne(ctx, bson.M{"_id": oid})
}
