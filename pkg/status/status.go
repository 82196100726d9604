// Package status defines the narrow, read-only capability through which
// sky-local looks up cluster records. The actual record storage and SSH config
// materialization live behind the Client interface in an external backend;
// tests and embedders substitute their own implementations.
package status

import (
	"context"
	"errors"
)

// ErrClusterNotFound is returned when no record exists for the named cluster.
var ErrClusterNotFound = errors.New("cluster not found")

// ErrClusterNotUp is returned when a record exists but the cluster has no
// reachable address.
var ErrClusterNotUp = errors.New("cluster is not UP")

// Handle carries the connectivity state cached for a cluster.
type Handle struct {
	// CachedExternalIPs are the externally reachable addresses of the
	// cluster's nodes. A cluster is considered up iff this is non-empty.
	CachedExternalIPs []string
}

// ClusterRecord is a cluster descriptor as reported by the lookup backend.
type ClusterRecord struct {
	Name   string
	Handle Handle
}

// Client looks up cluster records by name. Implementations are expected to
// materialize any SSH configuration needed to reach the returned clusters as
// a side effect of the lookup.
type Client interface {
	// GetClusterRecords returns the records matching the given cluster name.
	// An empty slice means no such cluster exists.
	GetClusterRecords(ctx context.Context, name string) ([]ClusterRecord, error)
}

// Unconfigured is a Client with no lookup backend. Every lookup returns no
// records, so callers surface their regular cluster-not-found error. It is
// the default wiring for builds that have not injected a real backend.
type Unconfigured struct{}

// GetClusterRecords always reports no records.
func (Unconfigured) GetClusterRecords(_ context.Context, _ string) ([]ClusterRecord, error) {
	return nil, nil
}
