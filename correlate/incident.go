package correlate

import (
	"fmt"
	"time"

	"github.com/threatlink-ai/sdk/alert"
	"github.com/threatlink-ai/sdk/taxonomy"
)

// Incident is the transient result of correlating one alert against the
// taxonomy graph. It is computed per request and never persisted by the
// engine; presentation and prompt-assembly layers consume it as a plain
// value.
type Incident struct {
	// ID is a unique identifier for this correlation record.
	ID string `json:"id"`

	// SourceID identifies the alert that was correlated (rule ID, document
	// ID, or whatever the ingestion layer supplied). May be empty.
	SourceID string `json:"source_id,omitempty"`

	// Techniques are the canonical technique identifiers matched in the
	// alert, in first-seen extraction order.
	Techniques []alert.TechniqueID `json:"techniques"`

	// Actions are the classification actions reachable from the matched
	// techniques, sorted by action ID. Every action is reachable from at
	// least one technique in Techniques.
	Actions []taxonomy.Node `json:"actions"`

	// Node is the synthesized incident selected for the action set, if any.
	// When present, it is reachable from at least one action in Actions.
	Node *taxonomy.Node `json:"node,omitempty"`

	// Metadata is the best-effort summary of the source alert record.
	Metadata alert.Metadata `json:"metadata"`

	// CreatedAt is the timestamp when the correlation was computed.
	CreatedAt time.Time `json:"created_at"`
}

// IsEmpty reports whether the correlation matched nothing at all: no
// techniques, no actions, and no incident node.
func (i *Incident) IsEmpty() bool {
	return len(i.Techniques) == 0 && len(i.Actions) == 0 && i.Node == nil
}

// Validate checks the record's internal invariants against the given store:
// every action must be reachable from a matched technique, and the incident
// node, when present, must be reachable from one of the actions.
func (i *Incident) Validate(store *taxonomy.Store) error {
	reachable := make(map[string]struct{})
	for _, a := range store.ActionsForTechniques(i.Techniques) {
		reachable[a.ID] = struct{}{}
	}
	for _, a := range i.Actions {
		if _, ok := reachable[a.ID]; !ok {
			return fmt.Errorf("correlate: action %q not reachable from matched techniques", a.ID)
		}
	}
	if i.Node != nil {
		if inc := store.IncidentForActions(i.Actions); inc == nil || inc.ID != i.Node.ID {
			return fmt.Errorf("correlate: incident %q not derivable from action set", i.Node.ID)
		}
	}
	return nil
}
