package alert

import (
	"fmt"
	"strings"
)

// Metadata is the best-effort summary of a single alert record, used by
// display and report layers. Every field is optional; absent or malformed
// source fields leave the zero value.
type Metadata struct {
	// Timestamp is the alert's event time as found in the record.
	Timestamp string `json:"timestamp,omitempty"`

	// RuleID is the identifier of the detection rule that fired.
	RuleID string `json:"rule_id,omitempty"`

	// RuleDescription is the human-readable rule description or, failing
	// that, the alert message.
	RuleDescription string `json:"rule_description,omitempty"`

	// Agent is the name of the reporting agent or host.
	Agent string `json:"agent,omitempty"`

	// Techniques holds the canonical technique identifiers declared in the
	// record's structured technique fields.
	Techniques []TechniqueID `json:"techniques,omitempty"`
}

// Field paths tried, in order, for each metadata attribute. Alert producers
// disagree on where these live; the first path that resolves wins.
var (
	timestampPaths   = []string{"@timestamp", "timestamp", "event.created", "event.ingested"}
	ruleIDPaths      = []string{"rule.id"}
	descriptionPaths = []string{"rule.description", "rule.full_log", "message"}
	agentPaths       = []string{"agent.name", "host.name"}
	techniquePaths   = []string{"rule.mitre.id", "mitre.id"}
)

// ExtractMetadata summarizes a single alert record.
func ExtractMetadata(record map[string]any) Metadata {
	meta := Metadata{
		Timestamp:       pickString(record, timestampPaths),
		RuleID:          pickString(record, ruleIDPaths),
		RuleDescription: pickString(record, descriptionPaths),
		Agent:           pickString(record, agentPaths),
		Techniques:      []TechniqueID{},
	}

	switch ids := pickPath(record, techniquePaths).(type) {
	case string:
		if id, ok := Canonicalize(ids); ok {
			meta.Techniques = append(meta.Techniques, id)
		}
	case []any:
		for _, v := range ids {
			s, ok := v.(string)
			if !ok {
				s = fmt.Sprintf("%v", v)
			}
			if id, ok := Canonicalize(s); ok {
				meta.Techniques = append(meta.Techniques, id)
			}
		}
	}
	return meta
}

// ExtractAllMetadata summarizes every record of a parsed payload, in payload
// order.
func ExtractAllMetadata(p *Payload) []Metadata {
	if p == nil {
		return nil
	}
	out := make([]Metadata, 0, len(p.Records))
	for _, rec := range p.Records {
		out = append(out, ExtractMetadata(rec))
	}
	return out
}

// pickPath tries each dotted path against the record and returns the first
// value found, or nil.
func pickPath(record map[string]any, paths []string) any {
	for _, path := range paths {
		var current any = record
		found := true
		for _, key := range strings.Split(path, ".") {
			m, ok := current.(map[string]any)
			if !ok {
				found = false
				break
			}
			current, ok = m[key]
			if !ok {
				found = false
				break
			}
		}
		if found {
			return current
		}
	}
	return nil
}

// pickString is pickPath restricted to string values; non-string hits are
// skipped so a later path can still resolve.
func pickString(record map[string]any, paths []string) string {
	for _, path := range paths {
		if s, ok := pickPath(record, []string{path}).(string); ok && s != "" {
			return s
		}
	}
	return ""
}
