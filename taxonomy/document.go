package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/threatlink-ai/sdk/alert"
)

// Document is the YAML serialization of a taxonomy graph.
//
// Actions reference the techniques that realize them, and incidents reference
// the actions that classify them; NewStore resolves those references into
// graph edges and rejects documents with dangling or duplicate entries.
type Document struct {
	// Techniques lists the attack techniques known to the taxonomy.
	Techniques []TechniqueEntry `yaml:"techniques"`

	// Actions lists the classification actions and the techniques that
	// realize each one.
	Actions []ActionEntry `yaml:"actions"`

	// Incidents lists the synthesized incidents and the actions that
	// classify each one.
	Incidents []IncidentEntry `yaml:"incidents"`
}

// TechniqueEntry declares one technique node.
type TechniqueEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ActionEntry declares one action node together with its REALIZES edges.
type ActionEntry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Techniques []string `yaml:"techniques"`
}

// IncidentEntry declares one incident node together with its CLASSIFIES
// edges.
type IncidentEntry struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Actions []string `yaml:"actions"`
}

// ParseDocument decodes a YAML taxonomy document. Decoding is strict about
// syntax only; semantic validation (duplicates, dangling references) happens
// in NewStore.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and parses a taxonomy document, then builds the graph
// store. Any failure (unreadable file, malformed YAML, or an inconsistent
// graph) is returned as an error; there is no partial-graph mode.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return NewStore(doc)
}

// validate checks the document for structural problems that would corrupt
// the graph: empty or duplicate IDs, non-canonical technique codes, and
// references to undeclared nodes.
func (d *Document) validate() error {
	techniques := make(map[string]struct{}, len(d.Techniques))
	for _, t := range d.Techniques {
		id, ok := alert.Canonicalize(t.ID)
		if !ok {
			return fmt.Errorf("taxonomy: technique %q: not a valid technique identifier", t.ID)
		}
		if _, dup := techniques[id.String()]; dup {
			return fmt.Errorf("taxonomy: duplicate technique %q", id)
		}
		techniques[id.String()] = struct{}{}
	}

	actions := make(map[string]struct{}, len(d.Actions))
	for _, a := range d.Actions {
		if a.ID == "" {
			return fmt.Errorf("taxonomy: action with empty ID")
		}
		if _, dup := actions[a.ID]; dup {
			return fmt.Errorf("taxonomy: duplicate action %q", a.ID)
		}
		actions[a.ID] = struct{}{}
		for _, ref := range a.Techniques {
			id, ok := alert.Canonicalize(ref)
			if !ok {
				return fmt.Errorf("taxonomy: action %q references malformed technique %q", a.ID, ref)
			}
			if _, known := techniques[id.String()]; !known {
				return fmt.Errorf("taxonomy: action %q references undeclared technique %q", a.ID, ref)
			}
		}
	}

	incidents := make(map[string]struct{}, len(d.Incidents))
	for _, inc := range d.Incidents {
		if inc.ID == "" {
			return fmt.Errorf("taxonomy: incident with empty ID")
		}
		if _, dup := incidents[inc.ID]; dup {
			return fmt.Errorf("taxonomy: duplicate incident %q", inc.ID)
		}
		incidents[inc.ID] = struct{}{}
		for _, ref := range inc.Actions {
			if _, known := actions[ref]; !known {
				return fmt.Errorf("taxonomy: incident %q references undeclared action %q", inc.ID, ref)
			}
		}
	}
	return nil
}
