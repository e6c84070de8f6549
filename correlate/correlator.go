package correlate

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/threatlink-ai/sdk/alert"
	"github.com/threatlink-ai/sdk/taxonomy"
)

// Correlator maps normalized alerts onto the taxonomy graph.
//
// The correlator holds only shared read-only state (the taxonomy store and a
// normalizer) and is safe for concurrent use.
type Correlator struct {
	store  *taxonomy.Store
	norm   *alert.Normalizer
	logger *slog.Logger
}

// NewCorrelator creates a Correlator over the given taxonomy store. A nil
// logger falls back to slog.Default().
func NewCorrelator(store *taxonomy.Store, logger *slog.Logger) *Correlator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Correlator{
		store:  store,
		norm:   alert.NewNormalizer(logger),
		logger: logger,
	}
}

// Correlate derives the full correlation chain for one alert record:
//
//  1. extract and canonicalize technique identifiers,
//  2. union the actions each technique realizes,
//  3. select the incident best classified by that action set,
//  4. assemble the Incident record.
//
// No step errors on an empty intermediate set; "no correlation found" is
// encoded in the emptiness of the result. The context is accepted for API
// symmetry with the engine's instrumented entry points; correlation itself
// performs no blocking work.
func (c *Correlator) Correlate(ctx context.Context, record map[string]any) *Incident {
	_ = ctx

	meta := alert.ExtractMetadata(record)
	techniques := c.norm.Extract(record)
	actions := c.store.ActionsForTechniques(techniques)
	incidentNode := c.store.IncidentForActions(actions)

	inc := &Incident{
		ID:         uuid.New().String(),
		SourceID:   meta.RuleID,
		Techniques: techniques,
		Actions:    actions,
		Node:       incidentNode,
		Metadata:   meta,
		CreatedAt:  time.Now().UTC(),
	}

	c.logger.Debug("correlated alert",
		"source_id", inc.SourceID,
		"techniques", len(inc.Techniques),
		"actions", len(inc.Actions),
		"incident", incidentID(incidentNode))
	return inc
}

// CorrelatePayload correlates every record of a parsed payload, in payload
// order.
func (c *Correlator) CorrelatePayload(ctx context.Context, p *alert.Payload) []*Incident {
	if p == nil {
		return nil
	}
	out := make([]*Incident, 0, len(p.Records))
	for _, rec := range p.Records {
		out = append(out, c.Correlate(ctx, rec))
	}
	return out
}

func incidentID(n *taxonomy.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}
