package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a buyer's claim on a product. Settlement marks every
// booking of the product paid; the owning buyer may delete it.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID     string             `bson:"productId" json:"productId" validate:"required"`
	ProductName   string             `bson:"productName,omitempty" json:"productName,omitempty"`
	BuyerEmail    string             `bson:"buyerEmail" json:"buyerEmail"`
	Price         float64            `bson:"price" json:"price" validate:"nullable,gte=0"`
	Paid          bool               `bson:"paid" json:"paid"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	BookedAt      time.Time          `bson:"bookedAt,omitempty" json:"bookedAt,omitempty"`
}
