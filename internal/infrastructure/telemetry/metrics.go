package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration // default 60s
	ServiceName       string
	Insecure          bool
}

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   MetricsConfig
}

// NewMeterProvider creates and configures a new MeterProvider.
// If metrics are disabled, Meter falls back to the global no-op meter.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mp := &MeterProvider{
		logger: logger,
		config: cfg,
	}

	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	exportInterval := cfg.ExportInterval
	if exportInterval == 0 {
		exportInterval = 60 * time.Second
	}

	exporterOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval)),
		),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", exportInterval),
		zap.String("service_name", cfg.ServiceName),
	)
	return mp, nil
}

// Shutdown flushes pending metrics and stops the provider
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.logger.Info("OpenTelemetry MeterProvider shutdown complete")
	return nil
}

// Meter returns a named meter from the provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled returns whether metrics are exported
func (mp *MeterProvider) IsEnabled() bool {
	return mp.config.Enabled && mp.provider != nil
}

// Counter is a monotonically increasing count
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new Counter metric.
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram records a distribution
type Histogram struct {
	histogram metric.Float64Histogram
}

// HistogramOpts describes a histogram
type HistogramOpts struct {
	Name        string
	Description string
	Unit        string
	Boundaries  []float64
}

// NewHistogram creates a new Histogram metric.
func NewHistogram(meter metric.Meter, opts HistogramOpts) (*Histogram, error) {
	histogramOpts := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(opts.Boundaries) > 0 {
		histogramOpts = append(histogramOpts, metric.WithExplicitBucketBoundaries(opts.Boundaries...))
	}

	h, err := meter.Float64Histogram(opts.Name, histogramOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", opts.Name, err)
	}
	return &Histogram{histogram: h}, nil
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

// Metric attribute keys
var (
	AttrDocCode = attribute.Key("doc_code")
	AttrLang    = attribute.Key("lang")
	AttrEngine  = attribute.Key("engine")
	AttrOutcome = attribute.Key("outcome")
)

// RenderDurationBuckets covers HTML-only renders up to slow PDF conversions (seconds)
var RenderDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Render outcomes
const (
	OutcomePDF    = "pdf"
	OutcomeHTML   = "html"
	OutcomeFailed = "failed"
)

// DocumentMetrics counts rendered documents and allocated numbers.
// A nil *DocumentMetrics records nothing.
type DocumentMetrics struct {
	renderedTotal       *Counter
	renderDuration      *Histogram
	engineFailuresTotal *Counter
	numbersTotal        *Counter
	fallbackTotal       *Counter
}

// NewDocumentMetrics registers the document instruments on meter
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		dm  DocumentMetrics
		err error
	)
	if dm.renderedTotal, err = NewCounter(meter, "docgen_documents_rendered_total",
		"Documents rendered, by type, language and outcome", "{document}"); err != nil {
		return nil, err
	}
	if dm.renderDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "docgen_render_duration_seconds",
		Description: "Time to produce one document including PDF conversion",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if dm.engineFailuresTotal, err = NewCounter(meter, "docgen_pdf_engine_failures_total",
		"Failed PDF engine attempts", "{attempt}"); err != nil {
		return nil, err
	}
	if dm.numbersTotal, err = NewCounter(meter, "docgen_transaction_numbers_total",
		"Transaction numbers handed out", "{number}"); err != nil {
		return nil, err
	}
	if dm.fallbackTotal, err = NewCounter(meter, "docgen_transaction_number_fallbacks_total",
		"Timestamp numbers issued because the store failed", "{number}"); err != nil {
		return nil, err
	}
	return &dm, nil
}

// RecordRender records one finished render request
func (m *DocumentMetrics) RecordRender(ctx context.Context, docCode, lang, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrDocCode.String(docCode), AttrLang.String(lang), AttrOutcome.String(outcome)}
	m.renderedTotal.Inc(ctx, attrs...)
	m.renderDuration.RecordDuration(ctx, d, attrs...)
}

// RecordEngineFailure records one failed PDF engine attempt
func (m *DocumentMetrics) RecordEngineFailure(ctx context.Context, engine string) {
	if m == nil {
		return
	}
	m.engineFailuresTotal.Inc(ctx, AttrEngine.String(engine))
}

// RecordNumber records an allocated transaction number
func (m *DocumentMetrics) RecordNumber(ctx context.Context, fallback bool) {
	if m == nil {
		return
	}
	m.numbersTotal.Inc(ctx)
	if fallback {
		m.fallbackTotal.Inc(ctx)
	}
}
