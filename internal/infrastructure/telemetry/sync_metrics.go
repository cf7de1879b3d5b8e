package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttrIntegrationType labels sync metrics by integration direction
var AttrIntegrationType = attribute.Key("integration_type")

// RunDurationBuckets are bucket boundaries for whole sync runs, in seconds.
var RunDurationBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

// SyncMetrics records sync loop outcomes
type SyncMetrics struct {
	processed   metric.Int64Counter
	succeeded   metric.Int64Counter
	failed      metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewSyncMetrics registers the sync instruments on meter
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	m := &SyncMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.processed, "integration_sync_processed_total", "Integrations picked up by the sync loop"},
		{&m.succeeded, "integration_sync_succeeded_total", "Integrations synced successfully"},
		{&m.failed, "integration_sync_failed_total", "Integrations whose sync failed"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("{integration}"))
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	var err error
	m.runDuration, err = meter.Float64Histogram("integration_sync_run_duration",
		metric.WithDescription("Duration of a sync run"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(RunDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("histogram integration_sync_run_duration: %w", err)
	}
	return m, nil
}

// RecordOutcome counts one processed integration
func (m *SyncMetrics) RecordOutcome(ctx context.Context, integrationType string, success bool) {
	attrs := metric.WithAttributes(AttrIntegrationType.String(integrationType))
	m.processed.Add(ctx, 1, attrs)
	if success {
		m.succeeded.Add(ctx, 1, attrs)
	} else {
		m.failed.Add(ctx, 1, attrs)
	}
}

// RecordRun records how long a whole run took
func (m *SyncMetrics) RecordRun(ctx context.Context, d time.Duration) {
	m.runDuration.Record(ctx, d.Seconds())
}
