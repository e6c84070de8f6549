// Package taxonomy provides the semantic graph store that links attack
// techniques to incident-classification actions and synthesized incidents.
//
// The graph holds three node kinds (Technique, Action, Incident) connected
// by typed relations: a technique REALIZES an action, and an action
// CLASSIFIES an incident. The graph is loaded once from a YAML document and
// is immutable afterwards; every query method is safe for unlimited
// concurrent use without locking.
//
// Load failures are fatal: the correlation engine cannot operate on a
// partial graph, so a malformed or unreadable taxonomy source surfaces as
// an error from LoadFile/NewStore and construction stops. Query misses, by
// contrast, are routine; asking for an unknown technique returns an empty
// result, never an error.
//
// Example:
//
//	store, err := taxonomy.LoadFile("taxonomy.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	actions := store.ActionsForTechnique("T1059.001")
//	incident := store.IncidentForActions(actions)
package taxonomy
