// Package query derives retrieval query terms from a correlated incident.
//
// The builder turns the incident's attributes (the synthesized incident
// label, the matched technique identifiers, the action labels, and optional
// free-text analyst notes) into a flat term bag, folded and
// stop-word-filtered with exactly the same rules as the retrieval index so
// the two vocabularies align. Terms are de-duplicated in first-seen order,
// which also makes retrieval scores invariant to duplicate inputs.
package query

import (
	"github.com/threatlink-ai/sdk/correlate"
	"github.com/threatlink-ai/sdk/retrieval"
)

// BuildTerms derives the retrieval terms for a correlated incident.
//
// Source order is fixed: incident label first, then technique identifiers in
// match order, then action labels, then analyst notes. An empty incident
// with no notes yields an empty slice, which the retrieval index answers
// with an empty result.
func BuildTerms(inc *correlate.Incident, analystNotes string) []string {
	if inc == nil {
		return fold(nil, analystNotes)
	}

	var sources []string
	if inc.Node != nil {
		sources = append(sources, inc.Node.Label)
	}
	for _, id := range inc.Techniques {
		sources = append(sources, id.String())
	}
	for _, a := range inc.Actions {
		sources = append(sources, a.Label)
	}
	return fold(sources, analystNotes)
}

// fold tokenizes every source through the retrieval tokenizer and
// de-duplicates the resulting terms, preserving first-seen order.
func fold(sources []string, notes string) []string {
	var (
		seen = make(map[string]struct{})
		out  = []string{}
	)
	emit := func(text string) {
		for _, term := range retrieval.Tokenize(text) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	for _, s := range sources {
		emit(s)
	}
	if notes != "" {
		emit(notes)
	}
	return out
}
