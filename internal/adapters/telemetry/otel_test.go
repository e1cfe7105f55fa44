package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/adapters/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestOTel_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	rec := telemetry.NewOTel(logger.Nop())
	rec.RecordElementLookup(true)
	rec.RecordElementLookup(false)
	rec.RecordResolutionLookup(true)
	rec.RecordSweep(12*time.Millisecond, 3)

	metrics := collect(t, reader)

	lookups, ok := metrics["memo.cache.lookups"]
	require.True(t, ok)
	assert.Equal(t, int64(3), counterTotal(t, lookups))

	evicted, ok := metrics["memo.eviction.evicted"]
	require.True(t, ok)
	assert.Equal(t, int64(3), counterTotal(t, evicted))

	sweeps, ok := metrics["memo.eviction.sweep_duration"]
	require.True(t, ok)
	hist, isHist := sweeps.Data.(metricdata.Histogram[float64])
	require.True(t, isHist)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestNoop_IsSafe(t *testing.T) {
	rec := telemetry.NewNoop()
	rec.RecordElementLookup(true)
	rec.RecordResolutionLookup(false)
	rec.RecordSweep(time.Millisecond, 0)
}
