package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/app/services"
	"github.com/mobilemart/server/pkg/middleware"
	"github.com/mobilemart/server/pkg/response"
)

// ReportController serves the reported-products workflow.
type ReportController struct {
	service *services.ReportService
	reports *repositories.ReportRepository
}

func NewReportController(service *services.ReportService, reports *repositories.ReportRepository) *ReportController {
	return &ReportController{service: service, reports: reports}
}

// Create handles POST /reportProducts. Reporting twice is a soft
// conflict: the second call answers 200 with a message and inserts
// nothing.
func (c *ReportController) Create(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if !bindJSON(w, r, &report) {
		return
	}

	if claim, ok := middleware.EmailFromCtx(r.Context()); ok {
		report.ReporterEmail = claim
	}

	_, already, err := c.service.Report(r.Context(), report)
	if err != nil {
		response.StoreError(w)
		return
	}
	if already {
		response.Message(w, "Product already reported")
		return
	}
	response.Created(w, report)
}

// List handles GET /reportProducts (admin).
func (c *ReportController) List(w http.ResponseWriter, r *http.Request) {
	reports, err := c.reports.All(r.Context())
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, reports)
}

// Delete handles DELETE /reportProducts/{id} (admin).
func (c *ReportController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.reports.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.StoreError(w)
		return
	}
	response.Message(w, "deleted")
}
