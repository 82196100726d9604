// Package v1alpha1 defines the request payload types for local cluster
// bring-up and teardown. Only the field semantics live here; the transport
// carrying them across the client/server boundary is an external concern.
package v1alpha1

import "github.com/skypilot-org/sky-local/pkg/portalloc"

// UpRequest carries the user options for a local cluster bring-up.
type UpRequest struct {
	// Gpus requests GPU device passthrough into the cluster nodes.
	Gpus bool `json:"gpus"`
	// Name is the cluster name; absent means the default cluster.
	Name string `json:"name,omitempty"`
	// PortStart is the requested starting host port; absent lets the
	// allocator choose per policy.
	PortStart *int `json:"port_start,omitempty"`
	// Path is a tool search path override, forwarded to the path resolver.
	Path string `json:"path,omitempty"`
	// NumNodes is the total node count including the control plane.
	NumNodes int `json:"num_nodes,omitempty"`
}

// DownRequest carries the user options for a local cluster teardown.
type DownRequest struct {
	// Name is the cluster name; absent means the default cluster.
	Name string `json:"name,omitempty"`
	// Path is a tool search path override, forwarded to the path resolver.
	Path string `json:"path,omitempty"`
}

// Default fills absent fields with their defaults.
func (r *UpRequest) Default() {
	if r.Name == "" {
		r.Name = portalloc.DefaultClusterName
	}

	if r.NumNodes == 0 {
		r.NumNodes = 1
	}
}

// Default fills absent fields with their defaults.
func (r *DownRequest) Default() {
	if r.Name == "" {
		r.Name = portalloc.DefaultClusterName
	}
}
