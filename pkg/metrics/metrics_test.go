package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/server/pkg/metrics"
)

func TestObserveStoreOpRecordsPerOperation(t *testing.T) {
	require.Equal(t, 0, testutil.CollectAndCount(metrics.StoreOpDuration))

	metrics.ObserveStoreOp("findOne", time.Now())
	metrics.ObserveStoreOp("findOne", time.Now())
	metrics.ObserveStoreOp("insertOne", time.Now())

	// One histogram child per operation label.
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.StoreOpDuration))
}

func TestRecordSettlementStepCountsByOutcome(t *testing.T) {
	metrics.RecordSettlementStep("product_update", "done")
	metrics.RecordSettlementStep("product_update", "done")
	metrics.RecordSettlementStep("booking_update", "failed")

	done := metrics.SettlementSteps.WithLabelValues("product_update", "done")
	failed := metrics.SettlementSteps.WithLabelValues("booking_update", "failed")
	assert.Equal(t, 2.0, testutil.ToFloat64(done))
	assert.Equal(t, 1.0, testutil.ToFloat64(failed))
}
