package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a product category document.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name string             `bson:"name" json:"name"`
}

// Product is a listing created by a seller. Settlement flips
// IsAvailable/Advertise/Paid and stamps the gateway transaction id; a
// product is never implicitly deleted.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	CategoryID    string             `bson:"categoryId" json:"categoryId" validate:"required"`
	OwnerEmail    string             `bson:"ownerEmail" json:"ownerEmail"`
	Name          string             `bson:"name" json:"name" validate:"required,min=2,max=120"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty" validate:"nullable,url"`
	Price         float64            `bson:"price" json:"price" validate:"required,gt=0"`
	IsAvailable   bool               `bson:"isAvailable" json:"isAvailable"`
	Advertise     bool               `bson:"advertise" json:"advertise"`
	Paid          bool               `bson:"paid" json:"paid"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PostedAt      time.Time          `bson:"postedAt,omitempty" json:"postedAt,omitempty"`
}
