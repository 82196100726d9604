// Package kindconfig generates the cluster-topology manifest consumed by the
// kind bootstrapper: one control-plane node, optional workers, and a
// container-port-to-host-port mapping for every port in the allocated range.
package kindconfig

import (
	"fmt"

	yamlmarshaller "github.com/skypilot-org/sky-local/pkg/marshaller/yaml"
	"github.com/skypilot-org/sky-local/pkg/portalloc"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

const (
	// InternalPortStart is the first container-internal service port. The
	// in-cluster port block is fixed regardless of which host band the
	// cluster was allocated.
	InternalPortStart = 30000

	// InternalPortEnd is the last container-internal service port.
	InternalPortEnd = InternalPortStart + portalloc.PortRangeSize - 1

	// nvidiaDevicesPath mounts the GPU device enumeration mechanism of the
	// NVIDIA container toolkit into the node container. The /dev/null host
	// path is the toolkit's documented trigger for exposing all GPUs.
	nvidiaDevicesPath = "/var/run/nvidia-container-devices/all"
)

// Generate builds the kind cluster topology for the given starting host port.
//
// The control-plane node maps the fixed internal port block
// InternalPortStart..InternalPortEnd 1:1, in increasing order, onto host ports
// portStart..portStart+PortRangeSize-1. numNodes-1 worker nodes follow the
// control-plane node; none are emitted when numNodes == 1. When gpus is true
// every node mounts the GPU device enumeration path.
//
// Generate is pure: no I/O, deterministic given its inputs.
func Generate(portStart int, gpus bool, numNodes int) *v1alpha4.Cluster {
	controlPlane := v1alpha4.Node{
		Role:              v1alpha4.ControlPlaneRole,
		ExtraPortMappings: portMappings(portStart),
	}

	nodes := []v1alpha4.Node{controlPlane}

	for range max(numNodes-1, 0) {
		nodes = append(nodes, v1alpha4.Node{Role: v1alpha4.WorkerRole})
	}

	if gpus {
		for i := range nodes {
			nodes[i].ExtraMounts = append(nodes[i].ExtraMounts, v1alpha4.Mount{
				HostPath:      "/dev/null",
				ContainerPath: nvidiaDevicesPath,
			})
		}
	}

	return &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{
			Kind:       "Cluster",
			APIVersion: "kind.x-k8s.io/v1alpha4",
		},
		Nodes:                nodes,
		KubeadmConfigPatches: []string{serviceNodePortRangePatch()},
	}
}

// Render marshals the cluster topology to the YAML document the kind binary
// consumes.
func Render(cluster *v1alpha4.Cluster) (string, error) {
	marshaller := yamlmarshaller.NewMarshaller[*v1alpha4.Cluster]()

	out, err := marshaller.Marshal(cluster)
	if err != nil {
		return "", fmt.Errorf("marshal kind config: %w", err)
	}

	return out, nil
}

// portMappings maps the fixed internal port block onto the allocated host band.
func portMappings(portStart int) []v1alpha4.PortMapping {
	mappings := make([]v1alpha4.PortMapping, 0, portalloc.PortRangeSize)

	for i := range portalloc.PortRangeSize {
		mappings = append(mappings, v1alpha4.PortMapping{
			ContainerPort: int32(InternalPortStart + i),
			HostPort:      int32(portStart + i),
			Protocol:      v1alpha4.PortMappingProtocolTCP,
		})
	}

	return mappings
}

// serviceNodePortRangePatch widens the API server's NodePort range to the
// internal port block, so services scheduled later can self-select a port the
// host already exposes.
func serviceNodePortRangePatch() string {
	return fmt.Sprintf(
		"kind: ClusterConfiguration\napiServer:\n  extraArgs:\n    \"service-node-port-range\": \"%d-%d\"\n",
		InternalPortStart,
		InternalPortEnd,
	)
}
