package sdk

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/threatlink-ai/sdk/cache"
	"github.com/threatlink-ai/sdk/correlate"
	"github.com/threatlink-ai/sdk/filter"
	"github.com/threatlink-ai/sdk/query"
	"github.com/threatlink-ai/sdk/retrieval"
	"github.com/threatlink-ai/sdk/taxonomy"
)

// Engine is the process-wide handle over the correlation and retrieval
// resources.
//
// The taxonomy store and retrieval index are built before the engine and
// shared read-only afterwards; individual Correlate/Retrieve calls are
// independent, perform no blocking I/O (the optional cache excepted), and
// need no ordering relative to each other. SwapTaxonomy and SwapIndex
// replace a resource atomically so in-flight calls observe either the old
// or the new resource consistently.
type Engine struct {
	logger   *slog.Logger
	metrics  *engineMetrics
	filter   *filter.Filter
	cache    *cache.Cache
	topK     int
	minScore float64

	// state bundles the taxonomy store with the correlator built over it,
	// so one atomic load yields a consistent pair.
	state atomic.Pointer[engineState]
	index atomic.Pointer[retrieval.Index]
}

type engineState struct {
	store      *taxonomy.Store
	correlator *correlate.Correlator
}

// Analysis is the engine's end-to-end output for one alert: the correlated
// incident record and the ranked reference passages.
type Analysis struct {
	// Incident is the correlation result.
	Incident *correlate.Incident `json:"incident"`

	// Terms are the retrieval terms derived from the incident.
	Terms []string `json:"terms"`

	// Passages are the ranked reference passages.
	Passages retrieval.Results `json:"passages"`
}

// NewEngine creates an Engine over an already-loaded taxonomy store and an
// already-built retrieval index. Both are required; construction of either
// is the caller's one-time startup phase, and a failure there must stop
// startup rather than produce a degraded engine.
func NewEngine(store *taxonomy.Store, index *retrieval.Index, opts ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, NewConfigurationError("NewEngine", ErrNilTaxonomy)
	}
	if index == nil {
		return nil, NewConfigurationError("NewEngine", ErrNilIndex)
	}

	cfg := &engineConfig{
		topK:     retrieval.DefaultTopK,
		minScore: retrieval.DefaultMinScore,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	e := &Engine{
		logger:   cfg.logger,
		filter:   cfg.filter,
		cache:    cfg.cache,
		topK:     cfg.topK,
		minScore: cfg.minScore,
	}
	e.state.Store(&engineState{
		store:      store,
		correlator: correlate.NewCorrelator(store, cfg.logger),
	})
	e.index.Store(index)

	if cfg.meter != nil {
		m, err := newEngineMetrics(cfg.meter)
		if err != nil {
			return nil, NewConfigurationError("NewEngine", err)
		}
		e.metrics = m
	}
	if cfg.tracer != nil {
		if e.metrics == nil {
			e.metrics = &engineMetrics{}
		}
		e.metrics.tracer = cfg.tracer
	}

	e.logger.Info("engine ready",
		"taxonomy_nodes", store.Len(),
		"passages", index.Len(),
		"vocabulary", index.VocabularySize(),
		"filtered", cfg.filter != nil,
		"cached", cfg.cache != nil)
	return e, nil
}

// Taxonomy returns the currently active taxonomy store.
func (e *Engine) Taxonomy() *taxonomy.Store {
	return e.state.Load().store
}

// Index returns the currently active retrieval index.
func (e *Engine) Index() *retrieval.Index {
	return e.index.Load()
}

// SwapTaxonomy atomically replaces the taxonomy store (and the correlator
// built over it). In-flight correlations finish on the store they loaded;
// new calls see the replacement.
func (e *Engine) SwapTaxonomy(store *taxonomy.Store) {
	e.state.Store(&engineState{
		store:      store,
		correlator: correlate.NewCorrelator(store, e.logger),
	})
	e.logger.Info("taxonomy swapped", "nodes", store.Len())
}

// SwapIndex atomically replaces the retrieval index.
func (e *Engine) SwapIndex(index *retrieval.Index) {
	e.index.Store(index)
	e.logger.Info("index swapped",
		"passages", index.Len(),
		"vocabulary", index.VocabularySize())
}

// Correlate runs the correlation chain for one alert record.
//
// When an admission filter is configured and rejects the record, Correlate
// returns ErrAlertFiltered; a filter evaluation error also rejects (the
// filter fails closed). With a cache configured, a repeated record is
// answered from Redis; cache failures are logged and bypassed. An alert
// that matches nothing returns a valid empty Incident, not an error.
func (e *Engine) Correlate(ctx context.Context, record map[string]any) (*correlate.Incident, error) {
	start := time.Now()
	ctx, span := e.metrics.startSpan(ctx, "engine.correlate")
	defer span.End()

	if e.filter != nil {
		ok, err := e.filter.Match(record)
		if err != nil {
			e.logger.Warn("admission filter error, rejecting alert", "error", err)
			return nil, NewExecutionError("Engine.Correlate", errors.Join(ErrAlertFiltered, err))
		}
		if !ok {
			return nil, NewExecutionError("Engine.Correlate", ErrAlertFiltered)
		}
	}

	var cacheKey string
	if e.cache != nil {
		key, err := e.cache.Key(record)
		if err == nil {
			cacheKey = key
			if inc, err := e.cache.Get(ctx, key); err != nil {
				e.logger.Warn("correlation cache lookup failed", "error", err)
			} else if inc != nil {
				e.metrics.recordCorrelate(ctx, inc, time.Since(start), true)
				return inc, nil
			}
		}
	}

	inc := e.state.Load().correlator.Correlate(ctx, record)

	if e.cache != nil && cacheKey != "" {
		if err := e.cache.Set(ctx, cacheKey, inc); err != nil {
			e.logger.Warn("correlation cache store failed", "error", err)
		}
	}

	e.metrics.recordCorrelate(ctx, inc, time.Since(start), false)
	return inc, nil
}

// Retrieve ranks the reference passages against a query derived from the
// correlated incident and optional analyst notes. An empty incident with no
// notes yields an empty result.
func (e *Engine) Retrieve(ctx context.Context, inc *correlate.Incident, analystNotes string) (retrieval.Results, error) {
	start := time.Now()
	ctx, span := e.metrics.startSpan(ctx, "engine.retrieve")
	defer span.End()

	terms := query.BuildTerms(inc, analystNotes)
	q := retrieval.NewQuery(terms...).
		WithTopK(e.topK).
		WithMinScore(e.minScore)

	results, err := e.index.Load().Search(q)
	if err != nil {
		return nil, NewValidationError("Engine.Retrieve", err)
	}

	e.metrics.recordRetrieve(ctx, len(terms), results, time.Since(start))
	return results, nil
}

// Analyze is the end-to-end convenience: correlate one record, derive the
// retrieval terms, and rank the passages.
func (e *Engine) Analyze(ctx context.Context, record map[string]any, analystNotes string) (*Analysis, error) {
	inc, err := e.Correlate(ctx, record)
	if err != nil {
		return nil, err
	}
	terms := query.BuildTerms(inc, analystNotes)

	q := retrieval.NewQuery(terms...).
		WithTopK(e.topK).
		WithMinScore(e.minScore)
	results, err := e.index.Load().Search(q)
	if err != nil {
		return nil, NewValidationError("Engine.Analyze", err)
	}

	return &Analysis{Incident: inc, Terms: terms, Passages: results}, nil
}
