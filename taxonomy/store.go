package taxonomy

import (
	"sort"

	"github.com/threatlink-ai/sdk/alert"
)

// Store is the in-memory taxonomy graph.
//
// A Store is built once by NewStore and never mutated afterwards: no method
// on Store writes to its internal maps, and query results are copies. That
// immutability is what allows the engine to share one Store across any
// number of concurrent correlations without locking, and to replace it on
// reload with a plain atomic pointer swap.
type Store struct {
	nodes map[string]Node

	// actionsByTechnique indexes the REALIZES edges, technique → actions.
	actionsByTechnique map[alert.TechniqueID][]string

	// techniquesByAction is the reverse REALIZES index, action → techniques.
	techniquesByAction map[string][]alert.TechniqueID

	// incidentsByAction indexes the CLASSIFIES edges, action → incidents.
	incidentsByAction map[string][]string

	// actionsByIncident is the reverse CLASSIFIES index, incident → actions.
	actionsByIncident map[string][]string

	relations []Relation
}

// NewStore builds the graph from a parsed document. The document is fully
// validated first; an inconsistent document returns an error and no store.
func NewStore(doc *Document) (*Store, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		nodes:              make(map[string]Node),
		actionsByTechnique: make(map[alert.TechniqueID][]string),
		techniquesByAction: make(map[string][]alert.TechniqueID),
		incidentsByAction:  make(map[string][]string),
		actionsByIncident:  make(map[string][]string),
	}

	for _, t := range doc.Techniques {
		id, _ := alert.Canonicalize(t.ID)
		s.nodes[id.String()] = Node{ID: id.String(), Kind: KindTechnique, Label: t.Name}
	}
	for _, a := range doc.Actions {
		s.nodes[a.ID] = Node{ID: a.ID, Kind: KindAction, Label: a.Name}
		for _, ref := range a.Techniques {
			id, _ := alert.Canonicalize(ref)
			s.actionsByTechnique[id] = append(s.actionsByTechnique[id], a.ID)
			s.techniquesByAction[a.ID] = append(s.techniquesByAction[a.ID], id)
			s.relations = append(s.relations, Relation{FromID: id.String(), ToID: a.ID, Type: RelationRealizes})
		}
	}
	for _, inc := range doc.Incidents {
		s.nodes[inc.ID] = Node{ID: inc.ID, Kind: KindIncident, Label: inc.Name}
		for _, ref := range inc.Actions {
			s.incidentsByAction[ref] = append(s.incidentsByAction[ref], inc.ID)
			s.actionsByIncident[inc.ID] = append(s.actionsByIncident[inc.ID], ref)
			s.relations = append(s.relations, Relation{FromID: ref, ToID: inc.ID, Type: RelationClassifies})
		}
	}

	// Sorted adjacency lists make every query result deterministic without
	// relying on map iteration order.
	for k := range s.actionsByTechnique {
		sort.Strings(s.actionsByTechnique[k])
	}
	for k := range s.incidentsByAction {
		sort.Strings(s.incidentsByAction[k])
	}
	for k := range s.actionsByIncident {
		sort.Strings(s.actionsByIncident[k])
	}
	for k := range s.techniquesByAction {
		ids := s.techniquesByAction[k]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return s, nil
}

// Node returns the node with the given ID, if present.
func (s *Store) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the graph.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Relations returns a copy of every typed edge in the graph, useful for
// diagram and export layers.
func (s *Store) Relations() []Relation {
	out := make([]Relation, len(s.relations))
	copy(out, s.relations)
	return out
}

// ActionsForTechnique returns the action nodes the technique realizes,
// sorted by action ID. An unknown technique returns an empty slice, not an
// error; unmatched techniques are an expected outcome and must not abort
// correlation of the remaining ones.
func (s *Store) ActionsForTechnique(id alert.TechniqueID) []Node {
	return s.collect(s.actionsByTechnique[id])
}

// ActionsForTechniques returns the union of ActionsForTechnique over the
// given identifiers, de-duplicated and sorted by action ID. The union is
// monotonic: the result for A∪B equals the merged results for A and B.
func (s *Store) ActionsForTechniques(ids []alert.TechniqueID) []Node {
	seen := make(map[string]struct{})
	var actionIDs []string
	for _, id := range ids {
		for _, actionID := range s.actionsByTechnique[id] {
			if _, dup := seen[actionID]; dup {
				continue
			}
			seen[actionID] = struct{}{}
			actionIDs = append(actionIDs, actionID)
		}
	}
	sort.Strings(actionIDs)
	return s.collect(actionIDs)
}

// IncidentForActions selects the incident best classified by the given
// action set. Candidates are the incidents reachable from at least one of
// the actions; the candidate classified by the most actions in the set wins,
// and a tie is broken by the lexicographically smallest incident ID so the
// choice is deterministic across runs. An empty action set returns nil.
func (s *Store) IncidentForActions(actions []Node) *Node {
	if len(actions) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, a := range actions {
		for _, incID := range s.incidentsByAction[a.ID] {
			counts[incID]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	best := ""
	for incID, count := range counts {
		if best == "" {
			best = incID
			continue
		}
		switch {
		case count > counts[best]:
			best = incID
		case count == counts[best] && incID < best:
			best = incID
		}
	}

	node := s.nodes[best]
	return &node
}

// IncidentsByTechniques returns the IDs of every incident reachable from at
// least one of the given techniques via REALIZES then CLASSIFIES edges,
// sorted ascending.
func (s *Store) IncidentsByTechniques(ids []alert.TechniqueID) []string {
	seen := make(map[string]struct{})
	for _, id := range ids {
		for _, actionID := range s.actionsByTechnique[id] {
			for _, incID := range s.incidentsByAction[actionID] {
				seen[incID] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for incID := range seen {
		out = append(out, incID)
	}
	sort.Strings(out)
	return out
}

// ActionsForIncident returns the action nodes that classify the incident,
// sorted by action ID.
func (s *Store) ActionsForIncident(incidentID string) []Node {
	return s.collect(s.actionsByIncident[incidentID])
}

// TechniquesForIncident returns the technique identifiers deduced for an
// incident by following its actions back across the REALIZES edges, sorted
// ascending.
func (s *Store) TechniquesForIncident(incidentID string) []alert.TechniqueID {
	seen := make(map[alert.TechniqueID]struct{})
	for _, actionID := range s.actionsByIncident[incidentID] {
		for _, techID := range s.techniquesByAction[actionID] {
			seen[techID] = struct{}{}
		}
	}
	out := make([]alert.TechniqueID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ActionTechniquePair couples an action with one technique that realizes it.
type ActionTechniquePair struct {
	ActionID    string            `json:"action_id"`
	TechniqueID alert.TechniqueID `json:"technique_id"`
}

// ActionTechniquePairs expands the given actions into (action, technique)
// pairs across the REALIZES edges, ordered by action ID then technique ID.
func (s *Store) ActionTechniquePairs(actions []Node) []ActionTechniquePair {
	var out []ActionTechniquePair
	sorted := make([]Node, len(actions))
	copy(sorted, actions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, a := range sorted {
		for _, techID := range s.techniquesByAction[a.ID] {
			out = append(out, ActionTechniquePair{ActionID: a.ID, TechniqueID: techID})
		}
	}
	return out
}

// collect resolves node IDs into node values, preserving order.
func (s *Store) collect(ids []string) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}
