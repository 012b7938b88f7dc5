package services

import (
	"context"
	"errors"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/store"
)

// ReportService enforces the one-report-per-product rule: the lookup
// runs before the insert, and a hit short-circuits with a soft
// AlreadyReported result instead of a duplicate document.
type ReportService struct {
	reports *repositories.ReportRepository
}

func NewReportService(reports *repositories.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// Report files a report against a product. The second return value is
// true when the product had already been reported; no insert happens in
// that case.
func (s *ReportService) Report(ctx context.Context, report models.Report) (models.Report, bool, error) {
	existing, err := s.reports.ByProductID(ctx, report.ProductID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.Report{}, false, err
	}

	if err := s.reports.Create(ctx, &report); err != nil {
		return models.Report{}, false, err
	}
	return report, false, nil
}
