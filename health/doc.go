// Package health provides readiness checks for ThreatLink deployments.
//
// This package offers standardized ways to verify that the engine's
// long-lived resources and optional backing services are usable before
// traffic is admitted. It is designed to help embedding applications
// implement consistent startup and liveness probes.
//
// # Check Functions
//
//   - TaxonomyCheck: Verify a taxonomy store is loaded and populated
//   - IndexCheck: Verify a retrieval index is built and searchable
//   - FileCheck: Verify a taxonomy or corpus file exists on disk
//   - PingCheck: Verify a backing service (Redis cache, etcd watcher)
//     answers a ping
//   - Combine: Aggregate multiple checks into a single status
//
// # Usage Example
//
//	overall := health.Combine(
//	    health.TaxonomyCheck(engine.Taxonomy()),
//	    health.IndexCheck(engine.Index()),
//	    health.PingCheck(ctx, "cache", corrCache),
//	)
//
//	if overall.IsUnhealthy() {
//	    log.Printf("not ready: %s", overall.Message)
//	    log.Printf("details: %+v", overall.Details)
//	}
//
// # Status Priority
//
// When combining checks with Combine(), the result follows this priority:
//
//   - Unhealthy: If any check is unhealthy, the combined result is unhealthy
//   - Degraded: If any check is degraded (and none unhealthy), the result is degraded
//   - Healthy: If all checks are healthy, the result is healthy
//
// # Context and Timeouts
//
// PingCheck accepts a context for timeout and cancellation control.
// If nil is passed, a default 5-second timeout is used.
package health
