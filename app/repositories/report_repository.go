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

// ReportRepository handles the reported-products collection.
type ReportRepository struct {
	col store.Collection
}

func NewReportRepository(s store.Store) *ReportRepository {
	return &ReportRepository{col: s.Collection("reportProducts")}
}

// ByProductID fetches the existing report for a product, if any.
func (r *ReportRepository) ByProductID(ctx context.Context, productID string) (models.Report, error) {
	var report models.Report
	err := r.col.FindOne(ctx, bson.M{"productId": productID}, &report)
	return report, err
}

// All lists every report.
func (r *ReportRepository) All(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := r.col.Find(ctx, bson.M{}, &reports)
	return reports, err
}

// Create persists a new report.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}
	return r.col.InsertOne(ctx, report)
}

// Delete removes a report by id.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("bad report id %q: %w", id, err)
	}
	return r.col.DeleteOne(ctx, bson.M{"_id": oid})
}
