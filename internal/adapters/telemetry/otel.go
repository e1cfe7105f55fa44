package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"go.trai.ch/memo/internal/core/ports"
)

const instrumentationName = "go.trai.ch/memo"

var _ ports.Telemetry = (*OTel)(nil)

// OTel records cache and eviction metrics through the global OpenTelemetry
// meter provider. This is the development-only diagnostic hook; production
// hosts keep the no-op recorder.
type OTel struct {
	lookups       metric.Int64Counter
	evicted       metric.Int64Counter
	sweepDuration metric.Float64Histogram
}

// NewOTel creates the instruments. Instrument creation errors degrade to
// no-op instruments rather than failing construction.
func NewOTel(logger ports.Logger) *OTel {
	meter := otel.Meter(instrumentationName)

	lookups, err := meter.Int64Counter("memo.cache.lookups",
		metric.WithDescription("Cache lookups by cache and outcome"))
	if err != nil {
		logger.Warn("failed to create lookup counter", "error", err)
	}
	evicted, err := meter.Int64Counter("memo.eviction.evicted",
		metric.WithDescription("Entries removed by eviction sweeps"))
	if err != nil {
		logger.Warn("failed to create eviction counter", "error", err)
	}
	sweepDuration, err := meter.Float64Histogram("memo.eviction.sweep_duration",
		metric.WithDescription("Eviction sweep duration"),
		metric.WithUnit("s"))
	if err != nil {
		logger.Warn("failed to create sweep histogram", "error", err)
	}

	return &OTel{
		lookups:       lookups,
		evicted:       evicted,
		sweepDuration: sweepDuration,
	}
}

func (t *OTel) RecordElementLookup(hit bool) {
	t.recordLookup("element", hit)
}

func (t *OTel) RecordResolutionLookup(hit bool) {
	t.recordLookup("resolution", hit)
}

func (t *OTel) recordLookup(cache string, hit bool) {
	if t.lookups == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	t.lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("cache", cache),
		attribute.String("outcome", outcome),
	))
}

func (t *OTel) RecordSweep(d time.Duration, evicted int) {
	ctx := context.Background()
	if t.evicted != nil {
		t.evicted.Add(ctx, int64(evicted))
	}
	if t.sweepDuration != nil {
		t.sweepDuration.Record(ctx, d.Seconds())
	}
}
