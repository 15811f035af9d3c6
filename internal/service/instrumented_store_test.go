package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStudentStoreRecordsOperations(t *testing.T) {
	metrics := NewMetricsService()
	inner := newMockStudentStore()
	store := NewInstrumentedStudentStore(inner, metrics)
	ctx := context.Background()

	_, err := store.Save(ctx, mariaCandidate())
	require.NoError(t, err)
	_, err = store.FindByEmail(ctx, "absent@x.com")
	require.Error(t, err)
	_, err = store.FindAll(ctx)
	require.NoError(t, err)

	inner.findErr = errors.New("boom")
	_, err = store.FindAll(ctx)
	require.Error(t, err)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(4), snapshot.StoreOperationCount)
	assert.Equal(t, uint64(1), snapshot.StoreOperationErrors)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.storeErrors.WithLabelValues("students.find_all")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.storeErrors.WithLabelValues("students.find_by_email")))
}

func TestNewInstrumentedStudentStoreWithoutMetrics(t *testing.T) {
	inner := newMockStudentStore()
	assert.Same(t, inner, NewInstrumentedStudentStore(inner, nil))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveHTTPRequest("GET", "/students", 200, 0)
	metrics.ObserveStoreOperation("students.save", 0, true)
	assert.Zero(t, metrics.Snapshot().RequestsTotal)
}
