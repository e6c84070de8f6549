package taxonomy

import "fmt"

// NodeKind identifies the role of a node in the taxonomy graph.
type NodeKind string

// Node kind constants for the three taxonomy node roles.
const (
	// KindTechnique is a standardized attack method, identified by a
	// canonical technique code.
	KindTechnique NodeKind = "technique"

	// KindAction is a standardized incident-classification category derived
	// from one or more techniques.
	KindAction NodeKind = "action"

	// KindIncident is a synthesized classification outcome of one or more
	// actions.
	KindIncident NodeKind = "incident"
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	return string(k)
}

// IsValid returns true if the node kind is a recognized value.
func (k NodeKind) IsValid() bool {
	switch k {
	case KindTechnique, KindAction, KindIncident:
		return true
	default:
		return false
	}
}

// ParseNodeKind parses a string into a NodeKind value.
func ParseNodeKind(s string) (NodeKind, error) {
	k := NodeKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid node kind: %q", s)
	}
	return k, nil
}

// Node is one vertex of the taxonomy graph.
//
// Nodes are value types: the store hands out copies, so callers can never
// mutate the loaded graph through a query result.
type Node struct {
	// ID is the stable identifier of the node. Technique IDs use the
	// canonical technique code; action and incident IDs are free-form but
	// unique within their kind.
	ID string `json:"id"`

	// Kind is the node's role in the graph.
	Kind NodeKind `json:"kind"`

	// Label is the human-readable name of the node.
	Label string `json:"label"`
}

// Validate checks that the node has an ID and a recognized kind.
func (n Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if !n.Kind.IsValid() {
		return fmt.Errorf("node %q: invalid kind %q", n.ID, n.Kind)
	}
	return nil
}

// RelationType describes the semantics of an edge in the taxonomy graph.
type RelationType string

// Relation type constants for the two edge semantics the graph uses.
const (
	// RelationRealizes links a technique to an action the technique
	// realizes.
	RelationRealizes RelationType = "REALIZES"

	// RelationClassifies links an action to the incident it classifies.
	RelationClassifies RelationType = "CLASSIFIES"
)

// Relation is a typed, directed edge between two taxonomy nodes.
type Relation struct {
	// FromID is the source node ID.
	FromID string `json:"from_id"`

	// ToID is the target node ID.
	ToID string `json:"to_id"`

	// Type describes the edge semantics.
	Type RelationType `json:"type"`
}

// Validate checks that the relation has both endpoints and a type.
func (r Relation) Validate() error {
	if r.FromID == "" {
		return fmt.Errorf("relation FromID cannot be empty")
	}
	if r.ToID == "" {
		return fmt.Errorf("relation ToID cannot be empty")
	}
	if r.Type == "" {
		return fmt.Errorf("relation Type cannot be empty")
	}
	return nil
}
