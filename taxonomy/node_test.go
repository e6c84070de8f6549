package taxonomy

import "testing"

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		input   string
		want    NodeKind
		wantErr bool
	}{
		{input: "technique", want: KindTechnique},
		{input: "action", want: KindAction},
		{input: "incident", want: KindIncident},
		{input: "TECHNIQUE", wantErr: true},
		{input: "", wantErr: true},
		{input: "tactic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNodeKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseNodeKind(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNodeKind(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseNodeKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr bool
	}{
		{
			name: "valid technique node",
			node: Node{ID: "T1110", Kind: KindTechnique, Label: "Brute Force"},
		},
		{
			name:    "empty ID",
			node:    Node{Kind: KindAction, Label: "Hacking"},
			wantErr: true,
		},
		{
			name:    "invalid kind",
			node:    Node{ID: "x", Kind: NodeKind("tactic")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRelationValidate(t *testing.T) {
	valid := Relation{FromID: "T1110", ToID: "action.hacking", Type: RelationRealizes}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := []Relation{
		{ToID: "a", Type: RelationRealizes},
		{FromID: "a", Type: RelationClassifies},
		{FromID: "a", ToID: "b"},
	}
	for _, r := range invalid {
		if err := r.Validate(); err == nil {
			t.Errorf("expected error for %+v", r)
		}
	}
}
