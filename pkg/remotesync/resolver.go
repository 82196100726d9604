// Package remotesync disambiguates "is this path local or does it reference a
// live cluster" for the rsync command, and resolves the addressed cluster to a
// reachable endpoint through the status lookup capability.
package remotesync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skypilot-org/sky-local/pkg/status"
)

// ErrRemoteToRemote is returned when both sync arguments reference clusters.
var ErrRemoteToRemote = errors.New("Remote-to-remote rsync is not supported")

// ErrNoClusterPrefix is returned when neither sync argument references a
// cluster.
var ErrNoClusterPrefix = errors.New(
	"either source or destination must contain a cluster prefix (e.g. my-cluster:~/path)",
)

// Target is a cluster-qualified sync argument, split at the first colon.
type Target struct {
	// Cluster is the candidate cluster name before the first colon.
	Cluster string
	// Path is the remainder, including any further colons.
	Path string
}

// ParseTarget splits a cluster-qualified argument of the form "cluster:path".
// The second return value reports whether the argument is cluster-qualified
// at all.
//
// Known limitation: paths are assumed to be POSIX-style. A Windows drive
// letter path such as C:\data would parse as cluster "C".
func ParseTarget(arg string) (Target, bool) {
	cluster, path, found := strings.Cut(arg, ":")
	if !found || cluster == "" {
		return Target{}, false
	}

	return Target{Cluster: cluster, Path: path}, true
}

// ExtractCluster determines which of the two sync arguments (if any) names a
// cluster. It returns an empty string when neither does, and ErrRemoteToRemote
// when both do.
func ExtractCluster(source, destination string) (string, error) {
	sourceTarget, sourceRemote := ParseTarget(source)
	destinationTarget, destinationRemote := ParseTarget(destination)

	switch {
	case sourceRemote && destinationRemote:
		return "", ErrRemoteToRemote
	case sourceRemote:
		return sourceTarget.Cluster, nil
	case destinationRemote:
		return destinationTarget.Cluster, nil
	default:
		return "", nil
	}
}

// Invocation holds the rewritten positional arguments for the external sync
// tool.
type Invocation struct {
	// Cluster is the resolved cluster name, empty for a purely local sync.
	Cluster string
	// Source and Destination are the positional paths, with the remote one
	// rewritten to use the cluster's resolved address.
	Source      string
	Destination string
}

// Resolver resolves cluster-qualified sync arguments against the status
// lookup capability.
type Resolver struct {
	client status.Client
}

// NewResolver creates a resolver backed by the given status client.
func NewResolver(client status.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve validates the two sync arguments and, when one of them references a
// cluster, resolves that cluster to its first cached external address and
// rewrites the argument to use it.
//
// It fails with ErrRemoteToRemote or ErrNoClusterPrefix on contract
// violations, status.ErrClusterNotFound when no record exists, and
// status.ErrClusterNotUp when the record has no reachable address.
func (r *Resolver) Resolve(ctx context.Context, source, destination string) (Invocation, error) {
	cluster, err := ExtractCluster(source, destination)
	if err != nil {
		return Invocation{}, err
	}

	if cluster == "" {
		return Invocation{}, ErrNoClusterPrefix
	}

	address, err := r.resolveAddress(ctx, cluster)
	if err != nil {
		return Invocation{}, err
	}

	return Invocation{
		Cluster:     cluster,
		Source:      rewriteTarget(source, cluster, address),
		Destination: rewriteTarget(destination, cluster, address),
	}, nil
}

// resolveAddress looks up the cluster record and returns its first cached
// external address.
func (r *Resolver) resolveAddress(ctx context.Context, cluster string) (string, error) {
	records, err := r.client.GetClusterRecords(ctx, cluster)
	if err != nil {
		return "", fmt.Errorf("look up cluster %q: %w", cluster, err)
	}

	if len(records) == 0 {
		return "", fmt.Errorf("%w: %s", status.ErrClusterNotFound, cluster)
	}

	ips := records[0].Handle.CachedExternalIPs
	if len(ips) == 0 {
		return "", fmt.Errorf("%w: %s", status.ErrClusterNotUp, cluster)
	}

	return ips[0], nil
}

// rewriteTarget substitutes the resolved address for the cluster prefix when
// arg addresses that cluster; local arguments pass through unchanged.
func rewriteTarget(arg, cluster, address string) string {
	target, remote := ParseTarget(arg)
	if !remote || target.Cluster != cluster {
		return arg
	}

	return address + ":" + target.Path
}
