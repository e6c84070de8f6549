package alert

import (
	"log/slog"
	"sort"
)

// Normalizer extracts canonical technique identifiers from alert records of
// arbitrary shape.
//
// The normalizer assumes no schema. It walks the record as a tagged union of
// scalars, sequences, and key-value mappings, scanning every string value for
// bounded technique identifiers and canonicalizing each match. Map keys are
// visited in sorted order so that the traversal, and therefore the output
// order, is stable for a given record regardless of Go's map iteration
// order.
//
// A Normalizer is stateless and safe for concurrent use.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger falls back to
// slog.Default().
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Extract returns the canonical technique identifiers found anywhere in the
// record, de-duplicated in first-seen traversal order.
//
// Any value shape is accepted: maps, slices, scalars, or nil. A record with
// no recognizable identifiers yields an empty slice, not an error; noisy
// alert streams routinely contain alerts with no technique mapping, and
// malformed fields simply contribute no matches.
func (n *Normalizer) Extract(record any) []TechniqueID {
	var (
		seen = make(map[TechniqueID]struct{})
		out  = []TechniqueID{}
	)
	emit := func(id TechniqueID) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	walk(record, emit)

	n.logger.Debug("extracted technique identifiers",
		"count", len(out))
	return out
}

// ExtractAll runs Extract over every record of a parsed payload and returns
// the union of identifiers, de-duplicated in payload order.
func (n *Normalizer) ExtractAll(p *Payload) []TechniqueID {
	if p == nil {
		return []TechniqueID{}
	}
	var (
		seen = make(map[TechniqueID]struct{})
		out  = []TechniqueID{}
	)
	for _, rec := range p.Records {
		for _, id := range n.Extract(rec) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// walk recursively visits a JSON-like value. Strings are scanned for
// technique identifiers; sequences are visited in element order; mappings
// are visited in sorted key order for determinism. All other scalar types
// carry no identifiers and are ignored.
func walk(v any, emit func(TechniqueID)) {
	switch val := v.(type) {
	case string:
		scanText(val, emit)
	case []any:
		for _, item := range val {
			walk(item, emit)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(val[k], emit)
		}
	}
}
