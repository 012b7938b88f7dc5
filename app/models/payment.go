package models

import "time"

// Payment is the append-only record of one confirmed charge. Exactly
// one document may exist per gateway transaction id — a unique index
// backs the invariant and confirmation is idempotent on that field.
type Payment struct {
	ID            string    `bson:"_id" json:"_id"`
	ProductID     string    `bson:"productId" json:"productId"`
	TransactionID string    `bson:"transactionId" json:"transactionId"`
	Price         float64   `bson:"price" json:"price"`
	BuyerEmail    string    `bson:"buyerEmail" json:"buyerEmail"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
