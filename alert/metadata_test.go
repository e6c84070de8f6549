package alert

import (
	"reflect"
	"testing"
)

func TestExtractMetadata(t *testing.T) {
	record := map[string]any{
		"timestamp": "2024-03-01T10:15:00Z",
		"rule": map[string]any{
			"id":          "92052",
			"description": "PowerShell execution detected",
			"mitre":       map[string]any{"id": []any{"T1059_001", "bogus", "T1086"}},
		},
		"agent": map[string]any{"name": "ws-042"},
	}

	meta := ExtractMetadata(record)

	if meta.Timestamp != "2024-03-01T10:15:00Z" {
		t.Errorf("Timestamp = %q", meta.Timestamp)
	}
	if meta.RuleID != "92052" {
		t.Errorf("RuleID = %q", meta.RuleID)
	}
	if meta.RuleDescription != "PowerShell execution detected" {
		t.Errorf("RuleDescription = %q", meta.RuleDescription)
	}
	if meta.Agent != "ws-042" {
		t.Errorf("Agent = %q", meta.Agent)
	}
	// "bogus" is dropped; both spellings canonicalize but are kept per entry.
	want := []TechniqueID{"T1059.001", "T1059.001"}
	if !reflect.DeepEqual(meta.Techniques, want) {
		t.Errorf("Techniques = %v, want %v", meta.Techniques, want)
	}
}

func TestExtractMetadataFallbackPaths(t *testing.T) {
	record := map[string]any{
		"@timestamp": "2024-03-01T10:15:00Z",
		"message":    "fallback message",
		"host":       map[string]any{"name": "srv-9"},
		"mitre":      map[string]any{"id": "T1110"},
	}

	meta := ExtractMetadata(record)

	if meta.Timestamp != "2024-03-01T10:15:00Z" {
		t.Errorf("Timestamp = %q", meta.Timestamp)
	}
	if meta.RuleDescription != "fallback message" {
		t.Errorf("RuleDescription = %q", meta.RuleDescription)
	}
	if meta.Agent != "srv-9" {
		t.Errorf("Agent = %q", meta.Agent)
	}
	if !reflect.DeepEqual(meta.Techniques, []TechniqueID{"T1110"}) {
		t.Errorf("Techniques = %v", meta.Techniques)
	}
}

func TestExtractMetadataEmptyRecord(t *testing.T) {
	meta := ExtractMetadata(map[string]any{})

	if meta.Timestamp != "" || meta.RuleID != "" || meta.RuleDescription != "" || meta.Agent != "" {
		t.Errorf("expected zero metadata, got %+v", meta)
	}
	if len(meta.Techniques) != 0 {
		t.Errorf("expected no techniques, got %v", meta.Techniques)
	}
}

func TestExtractMetadataPreferredPathWins(t *testing.T) {
	record := map[string]any{
		"@timestamp": "preferred",
		"timestamp":  "secondary",
		"rule": map[string]any{
			"description": "preferred description",
			"full_log":    "secondary log",
		},
	}

	meta := ExtractMetadata(record)

	if meta.Timestamp != "preferred" {
		t.Errorf("Timestamp = %q, want preferred", meta.Timestamp)
	}
	if meta.RuleDescription != "preferred description" {
		t.Errorf("RuleDescription = %q", meta.RuleDescription)
	}
}

func TestExtractAllMetadata(t *testing.T) {
	p := &Payload{
		Shape: ShapeArray,
		Records: []map[string]any{
			{"rule": map[string]any{"id": "1"}},
			{"rule": map[string]any{"id": "2"}},
		},
	}

	metas := ExtractAllMetadata(p)
	if len(metas) != 2 {
		t.Fatalf("expected 2 metadata entries, got %d", len(metas))
	}
	if metas[0].RuleID != "1" || metas[1].RuleID != "2" {
		t.Errorf("metadata out of payload order: %+v", metas)
	}

	if got := ExtractAllMetadata(nil); got != nil {
		t.Errorf("ExtractAllMetadata(nil) = %v, want nil", got)
	}
}
