package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/app/services"
	"github.com/mobilemart/server/pkg/store"
)

func TestReport_FirstReportIsStored(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	service := services.NewReportService(repositories.NewReportRepository(mem))

	report, already, err := service.Report(ctx, models.Report{
		ProductID:     "p1",
		ReporterEmail: "buyer@example.com",
		Reason:        "misleading photos",
	})
	require.NoError(t, err)
	assert.False(t, already)
	assert.False(t, report.ID.IsZero())
	assert.Equal(t, 1, mem.Count("reportProducts"))
}

func TestReport_SecondReportIsASoftConflict(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	service := services.NewReportService(repositories.NewReportRepository(mem))

	first, _, err := service.Report(ctx, models.Report{ProductID: "p1", ReporterEmail: "a@example.com"})
	require.NoError(t, err)

	second, already, err := service.Report(ctx, models.Report{ProductID: "p1", ReporterEmail: "b@example.com"})
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, first.ID, second.ID, "the existing report is returned, not the new one")
	assert.Equal(t, 1, mem.Count("reportProducts"), "exactly one report per product")
}

func TestReport_DifferentProductsAreIndependent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	service := services.NewReportService(repositories.NewReportRepository(mem))

	_, already, err := service.Report(ctx, models.Report{ProductID: "p1"})
	require.NoError(t, err)
	assert.False(t, already)

	_, already, err = service.Report(ctx, models.Report{ProductID: "p2"})
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, 2, mem.Count("reportProducts"))
}
