package sdk

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/threatlink-ai/sdk/correlate"
	"github.com/threatlink-ai/sdk/retrieval"
)

// engineMetrics holds the OpenTelemetry instruments for the engine. The
// instruments are created once during construction and reused for every
// call; a nil engineMetrics (telemetry not configured) degrades to no-ops.
type engineMetrics struct {
	tracer trace.Tracer

	// correlateCount increments per correlation, labeled by outcome.
	correlateCount metric.Int64Counter

	// correlateDuration records correlation duration in milliseconds.
	correlateDuration metric.Float64Histogram

	// retrieveScore records the top result score of each retrieval.
	retrieveScore metric.Float64Histogram

	// retrieveDuration records retrieval duration in milliseconds.
	retrieveDuration metric.Float64Histogram
}

// newEngineMetrics creates the engine's metric instruments from a meter.
func newEngineMetrics(meter metric.Meter) (*engineMetrics, error) {
	m := &engineMetrics{}
	var err error

	m.correlateCount, err = meter.Int64Counter(
		"correlate.count",
		metric.WithDescription("Number of alert correlations performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	m.correlateDuration, err = meter.Float64Histogram(
		"correlate.duration",
		metric.WithDescription("Correlation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	m.retrieveScore, err = meter.Float64Histogram(
		"retrieve.top_score",
		metric.WithDescription("Top passage score per retrieval, 0.0 to 1.0"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	m.retrieveDuration, err = meter.Float64Histogram(
		"retrieve.duration",
		metric.WithDescription("Retrieval duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// startSpan opens a span when a tracer is configured and returns a no-op
// span otherwise, so call sites never branch.
func (m *engineMetrics) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if m == nil || m.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return m.tracer.Start(ctx, name)
}

// recordCorrelate records the outcome of one correlation.
func (m *engineMetrics) recordCorrelate(ctx context.Context, inc *correlate.Incident, elapsed time.Duration, cached bool) {
	if m == nil {
		return
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("correlate.techniques", len(inc.Techniques)),
			attribute.Int("correlate.actions", len(inc.Actions)),
			attribute.Bool("correlate.matched", !inc.IsEmpty()),
			attribute.Bool("correlate.cached", cached),
		)
	}
	if m.correlateCount == nil {
		return
	}
	opts := metric.WithAttributes(
		attribute.Bool("matched", !inc.IsEmpty()),
		attribute.Bool("cached", cached),
	)
	m.correlateCount.Add(ctx, 1, opts)
	m.correlateDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0, opts)
}

// recordRetrieve records the outcome of one retrieval.
func (m *engineMetrics) recordRetrieve(ctx context.Context, termCount int, results retrieval.Results, elapsed time.Duration) {
	if m == nil {
		return
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("retrieve.terms", termCount),
			attribute.Int("retrieve.results", len(results)),
		)
	}
	if m.retrieveDuration == nil {
		return
	}
	m.retrieveDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0)
	if len(results) > 0 {
		m.retrieveScore.Record(ctx, results[0].Score)
	}
}

// NewDevelopmentTracerProvider creates a TracerProvider suitable for local
// development: spans carry the engine's service name but are not exported
// anywhere. Production deployments should configure their own provider with
// an exporter and pass a tracer via WithTracer.
func NewDevelopmentTracerProvider() *sdktrace.TracerProvider {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String("threatlink-sdk"),
		),
	)
	if err != nil {
		res = resource.Default()
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
	)
}
