// Package sdk provides the ThreatLink correlation and retrieval engine.
//
// ThreatLink correlates security alerts with a standardized taxonomy of
// attack techniques and incident-classification actions, then surfaces
// contextually relevant reference passages to support analyst review. The
// engine's output, a correlated incident record and a ranked passage list,
// is consumed by presentation layers and language-model prompt assemblers;
// the engine itself renders nothing and serves no network protocol.
//
// # Core Concepts
//
// The engine is organized around a small set of concepts:
//
//   - Alerts: schema-less JSON-like records from which canonical technique
//     identifiers are extracted (package alert)
//   - Taxonomy: an immutable graph linking techniques to classification
//     actions and synthesized incidents (package taxonomy)
//   - Correlation: the deterministic chain Alert → Techniques → Actions →
//     Incident (package correlate)
//   - Retrieval: cosine ranking of reference passages against a term query
//     derived from the correlated incident (packages retrieval and query)
//
// # Architecture
//
// Engine is a thin handle over two long-lived immutable resources, the
// loaded taxonomy graph and the built retrieval index, shared read-only
// across any number of concurrent calls. Construction is a one-time phase;
// once built, no call mutates shared state, so steady-state operation needs
// no locking. Reload replaces a resource wholesale via atomic pointer swap:
// in-flight calls observe either the old or the new resource, never a mix.
//
// # Getting Started
//
//	store, err := taxonomy.LoadFile("taxonomy.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	corpus, err := retrieval.LoadCorpus("corpus.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	index, err := retrieval.BuildIndex(corpus)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := sdk.NewEngine(store, index, sdk.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analysis, err := engine.Analyze(ctx, record, "analyst notes")
//
// Optional components (a CEL admission filter, a Redis correlation cache,
// and an etcd-driven reload trigger) are wired through EngineOption values
// and the watch package; the engine works without any of them.
package sdk
