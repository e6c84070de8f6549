package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/threatlink-ai/sdk/retrieval"
	"github.com/threatlink-ai/sdk/taxonomy"
)

// Status constants represent the operational state of a component.
const (
	// StatusHealthy indicates the component is fully operational.
	StatusHealthy = "healthy"

	// StatusDegraded indicates the component is operational but experiencing issues.
	StatusDegraded = "degraded"

	// StatusUnhealthy indicates the component is not operational.
	StatusUnhealthy = "unhealthy"
)

// Status represents the health state of a component or service.
// It provides detailed information about operational status, issues, and context.
type Status struct {
	// Status is the current health state (healthy, degraded, or unhealthy).
	Status string `json:"status"`

	// Message provides a human-readable description of the health status.
	Message string `json:"message,omitempty"`

	// Details contains additional context and diagnostic information.
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy returns true if the status is StatusHealthy.
func (s Status) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// IsDegraded returns true if the status is StatusDegraded.
func (s Status) IsDegraded() bool {
	return s.Status == StatusDegraded
}

// IsUnhealthy returns true if the status is StatusUnhealthy.
func (s Status) IsUnhealthy() bool {
	return s.Status == StatusUnhealthy
}

// NewHealthyStatus creates a new healthy status with an optional message.
func NewHealthyStatus(message string) Status {
	return Status{
		Status:  StatusHealthy,
		Message: message,
	}
}

// NewDegradedStatus creates a new degraded status with a message and optional details.
func NewDegradedStatus(message string, details map[string]any) Status {
	return Status{
		Status:  StatusDegraded,
		Message: message,
		Details: details,
	}
}

// NewUnhealthyStatus creates a new unhealthy status with a message and optional details.
func NewUnhealthyStatus(message string, details map[string]any) Status {
	return Status{
		Status:  StatusUnhealthy,
		Message: message,
		Details: details,
	}
}

// TaxonomyCheck verifies that a taxonomy store is loaded and populated.
// A nil store is unhealthy; a store with no nodes is degraded, since the
// correlator would run but every alert would correlate to nothing.
//
// Example:
//
//	status := health.TaxonomyCheck(engine.Taxonomy())
//	if status.IsUnhealthy() {
//	    log.Fatal("taxonomy is required but not loaded")
//	}
func TaxonomyCheck(store *taxonomy.Store) Status {
	if store == nil {
		return NewUnhealthyStatus("taxonomy store is nil", nil)
	}

	if store.Len() == 0 {
		return NewDegradedStatus(
			"taxonomy store is empty",
			map[string]any{"nodes": 0},
		)
	}

	return NewHealthyStatus(
		fmt.Sprintf("taxonomy loaded with %d nodes", store.Len()),
	)
}

// IndexCheck verifies that a retrieval index is built and searchable.
// A nil index is unhealthy; an index with an empty vocabulary is degraded,
// since every query would score zero against every passage.
func IndexCheck(index *retrieval.Index) Status {
	if index == nil {
		return NewUnhealthyStatus("retrieval index is nil", nil)
	}

	if index.VocabularySize() == 0 {
		return NewDegradedStatus(
			"retrieval index has an empty vocabulary",
			map[string]any{"passages": index.Len()},
		)
	}

	return NewHealthyStatus(
		fmt.Sprintf("index built with %d passages, %d terms", index.Len(), index.VocabularySize()),
	)
}

// FileCheck verifies that a file or directory exists at the specified path.
// It returns healthy if the path exists, unhealthy otherwise. Use it to
// probe taxonomy and corpus files before a reload.
//
// Example:
//
//	status := health.FileCheck("taxonomy.yaml")
//	if status.IsUnhealthy() {
//	    log.Fatal("taxonomy.yaml does not exist")
//	}
func FileCheck(path string) Status {
	if path == "" {
		return NewUnhealthyStatus("path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewUnhealthyStatus(
				fmt.Sprintf("path '%s' does not exist", path),
				map[string]any{
					"path": path,
				},
			)
		}

		return NewUnhealthyStatus(
			fmt.Sprintf("failed to stat path '%s'", path),
			map[string]any{
				"path":  path,
				"error": err.Error(),
			},
		)
	}

	fileType := "file"
	if info.IsDir() {
		fileType = "directory"
	}

	return NewHealthyStatus(
		fmt.Sprintf("%s '%s' exists", fileType, path),
	)
}

// Pinger is the probe surface of a backing service. Both the Redis
// correlation cache and the etcd reload watcher satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck verifies that a backing service answers a ping. A failed ping
// is degraded rather than unhealthy: the engine operates without its
// optional backing services, just more slowly.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//	status := health.PingCheck(ctx, "cache", corrCache)
func PingCheck(ctx context.Context, name string, p Pinger) Status {
	if p == nil {
		return NewUnhealthyStatus(
			fmt.Sprintf("service '%s' is nil", name),
			map[string]any{"service": name},
		)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	if err := p.Ping(ctx); err != nil {
		return NewDegradedStatus(
			fmt.Sprintf("service '%s' did not answer ping", name),
			map[string]any{
				"service": name,
				"error":   err.Error(),
			},
		)
	}

	return NewHealthyStatus(
		fmt.Sprintf("service '%s' is reachable", name),
	)
}

// Combine aggregates multiple health checks into a single status.
// The result follows this priority:
//   - If any check is unhealthy, the result is unhealthy
//   - If any check is degraded (and none unhealthy), the result is degraded
//   - If all checks are healthy, the result is healthy
//
// Example:
//
//	status := health.Combine(
//	    health.TaxonomyCheck(engine.Taxonomy()),
//	    health.IndexCheck(engine.Index()),
//	)
//	if status.IsUnhealthy() {
//	    log.Fatal("engine resources not ready")
//	}
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return NewHealthyStatus("no checks provided")
	}

	var unhealthyChecks []string
	var degradedChecks []string
	var healthyCount int

	for _, check := range checks {
		switch check.Status {
		case StatusUnhealthy:
			msg := check.Message
			if msg == "" {
				msg = "unnamed check"
			}
			unhealthyChecks = append(unhealthyChecks, msg)
		case StatusDegraded:
			msg := check.Message
			if msg == "" {
				msg = "unnamed check"
			}
			degradedChecks = append(degradedChecks, msg)
		case StatusHealthy:
			healthyCount++
		}
	}

	if len(unhealthyChecks) > 0 {
		return NewUnhealthyStatus(
			fmt.Sprintf("%d check(s) failed", len(unhealthyChecks)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthyChecks),
				"degraded":      len(degradedChecks),
				"healthy":       healthyCount,
				"failed_checks": unhealthyChecks,
			},
		)
	}

	if len(degradedChecks) > 0 {
		return NewDegradedStatus(
			fmt.Sprintf("%d check(s) degraded", len(degradedChecks)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degradedChecks),
				"healthy":         healthyCount,
				"degraded_checks": degradedChecks,
			},
		)
	}

	return NewHealthyStatus(
		fmt.Sprintf("all %d check(s) passed", len(checks)),
	)
}
