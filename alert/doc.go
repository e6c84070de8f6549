// Package alert provides ingestion and normalization of security alert
// records for the ThreatLink correlation engine.
//
// Alerts arrive as already-deserialized JSON-like values with no guaranteed
// schema: the same technique identifier may appear under rule.mitre.id, inside
// a nested technique list, or embedded in free-text fields such as a rule
// description. The package deals with that variability in two layers:
//
//   - Payload parsing: ParsePayload accepts a raw byte payload that may be a
//     single JSON object, a JSON array, newline-delimited JSON, or an
//     Elasticsearch search response, and flattens it into individual records.
//   - Identifier normalization: Normalizer walks a record of arbitrary depth
//     and returns the canonical technique identifiers found anywhere in it,
//     de-duplicated in first-seen order.
//
// Example:
//
//	payload, err := alert.ParsePayload(data)
//	if err != nil {
//	    return err
//	}
//
//	norm := alert.NewNormalizer(logger)
//	for _, rec := range payload.Records {
//	    ids := norm.Extract(rec)
//	    // ids = ["T1059.001", "T1190", ...]
//	}
//
// A record with no recognizable identifiers yields an empty slice, never an
// error; malformed fields inside a record are skipped rather than reported.
package alert
