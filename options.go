package sdk

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/threatlink-ai/sdk/cache"
	"github.com/threatlink-ai/sdk/filter"
)

// engineConfig holds the configuration assembled from EngineOption values.
type engineConfig struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	filter   *filter.Filter
	cache    *cache.Cache
	topK     int
	minScore float64
}

// EngineOption configures an Engine during construction.
type EngineOption func(*engineConfig)

// WithLogger sets the structured logger used by the engine and its
// components. Defaults to a JSON handler on stdout at info level.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer used to create spans around
// Correlate and Retrieve. Without it, no spans are created.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(c *engineConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets the OpenTelemetry meter used to create the engine's metric
// instruments. Without it, no metrics are recorded.
func WithMeter(meter metric.Meter) EngineOption {
	return func(c *engineConfig) {
		c.meter = meter
	}
}

// WithFilter sets a compiled admission predicate. Alerts the predicate
// rejects are answered with ErrAlertFiltered instead of being correlated.
func WithFilter(f *filter.Filter) EngineOption {
	return func(c *engineConfig) {
		c.filter = f
	}
}

// WithCache sets the Redis correlation cache. Cache failures are logged and
// bypassed; the cache never makes a correlation fail.
func WithCache(cc *cache.Cache) EngineOption {
	return func(c *engineConfig) {
		c.cache = cc
	}
}

// WithTopK sets the default maximum number of passages Retrieve returns.
// Default: retrieval.DefaultTopK.
func WithTopK(k int) EngineOption {
	return func(c *engineConfig) {
		c.topK = k
	}
}

// WithMinScore sets the default minimum similarity threshold for Retrieve.
// Default: retrieval.DefaultMinScore (permissive, just above zero).
func WithMinScore(score float64) EngineOption {
	return func(c *engineConfig) {
		c.minScore = score
	}
}
