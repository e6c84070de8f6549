package alert

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizerExtract(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name   string
		record any
		want   []TechniqueID
	}{
		{
			name: "structured mitre field",
			record: map[string]any{
				"rule": map[string]any{
					"mitre": map[string]any{"id": []any{"T1059.001"}},
				},
			},
			want: []TechniqueID{"T1059.001"},
		},
		{
			name:   "identifier in free text",
			record: map[string]any{"message": "observed t1110 brute force"},
			want:   []TechniqueID{"T1110"},
		},
		{
			name: "duplicates collapse to first occurrence",
			record: []any{
				"first T1110",
				map[string]any{"again": "T1110 and T1059"},
			},
			want: []TechniqueID{"T1110", "T1059"},
		},
		{
			name: "alias and canonical collapse together",
			record: []any{"T1086", "T1059.001"},
			want:   []TechniqueID{"T1059.001"},
		},
		{
			name:   "scalar record",
			record: "lateral movement via T1021_001",
			want:   []TechniqueID{"T1021.001"},
		},
		{
			name:   "no identifiers",
			record: map[string]any{"rule": map[string]any{"level": float64(3)}},
			want:   []TechniqueID{},
		},
		{
			name:   "nil record",
			record: nil,
			want:   []TechniqueID{},
		},
		{
			name:   "non-string scalars ignored",
			record: []any{float64(1059), true, nil, "T1110"},
			want:   []TechniqueID{"T1110"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Extract(tt.record)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizerExtractDeterministic(t *testing.T) {
	n := NewNormalizer(nil)

	// Map iteration order varies run to run; sorted-key traversal must make
	// the output order stable anyway.
	record := map[string]any{
		"zeta":  "T1110",
		"alpha": "T1059.001",
		"mid":   map[string]any{"b": "T1547.001", "a": "T1021.002"},
	}
	want := []TechniqueID{"T1059.001", "T1021.002", "T1547.001", "T1110"}

	for i := 0; i < 50; i++ {
		got := n.Extract(record)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: Extract() = %v, want %v", i, got, want)
		}
	}
}

func TestNormalizerExtractAll(t *testing.T) {
	n := NewNormalizer(nil)

	var p Payload
	data := `{"records": [
		{"message": "T1110"},
		{"message": "T1110 and T1059"},
		{"message": "nothing"}
	]}`
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("build payload: %v", err)
	}

	got := n.ExtractAll(&p)
	want := []TechniqueID{"T1110", "T1059"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAll() = %v, want %v", got, want)
	}

	if got := n.ExtractAll(nil); len(got) != 0 {
		t.Errorf("ExtractAll(nil) = %v, want empty", got)
	}
}
