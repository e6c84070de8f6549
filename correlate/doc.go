// Package correlate produces the ordered correlation chain
// Alert → Techniques → Actions → Incident.
//
// A Correlator couples the alert normalizer with an immutable taxonomy
// store. Correlation is a pure in-memory computation: it never performs I/O,
// never blocks, and never fails per-request. An alert that matches nothing
// yields an Incident record with empty techniques, empty actions, and no
// synthesized incident node, which is a valid, reportable outcome for noisy
// alert streams.
package correlate
