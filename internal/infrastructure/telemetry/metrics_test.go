package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/logiport/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestDocumentMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(ctx) }()

	dm, err := telemetry.NewDocumentMetrics(mp.Meter("test"))
	require.NoError(t, err)

	dm.RecordRender(ctx, "CI", "en", telemetry.OutcomePDF, 1500*time.Millisecond)
	dm.RecordRender(ctx, "PL", "ar", telemetry.OutcomeHTML, 200*time.Millisecond)
	dm.RecordEngineFailure(ctx, "chromedp")
	dm.RecordNumber(ctx, false)
	dm.RecordNumber(ctx, true)

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics["docgen_documents_rendered_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["docgen_pdf_engine_failures_total"]))
	assert.Equal(t, int64(2), sumOf(t, metrics["docgen_transaction_numbers_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["docgen_transaction_number_fallbacks_total"]))

	hist, ok := metrics["docgen_render_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestDocumentMetrics_NilIsNoop(t *testing.T) {
	var dm *telemetry.DocumentMetrics
	assert.NotPanics(t, func() {
		dm.RecordRender(context.Background(), "CI", "en", telemetry.OutcomeFailed, time.Second)
		dm.RecordEngineFailure(context.Background(), "chromedp")
		dm.RecordNumber(context.Background(), true)
	})
}

func TestNewDocumentMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewDocumentMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
