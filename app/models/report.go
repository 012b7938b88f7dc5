package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report flags a product listing. At most one report document exists
// per product; a second report of the same product is a soft conflict,
// not an error.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID     string             `bson:"productId" json:"productId" validate:"required"`
	ProductName   string             `bson:"productName,omitempty" json:"productName,omitempty"`
	ReporterEmail string             `bson:"reporterEmail,omitempty" json:"reporterEmail,omitempty"`
	Reason        string             `bson:"reason,omitempty" json:"reason,omitempty" validate:"nullable,max=500"`
	ReportedAt    time.Time          `bson:"reportedAt,omitempty" json:"reportedAt,omitempty"`
}
