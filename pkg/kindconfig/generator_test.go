package kindconfig_test

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/skypilot-org/sky-local/pkg/kindconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

func TestGenerateBasicStructure(t *testing.T) {
	t.Parallel()

	cluster := kindconfig.Generate(30000, false, 1)

	assert.Equal(t, "Cluster", cluster.Kind)
	assert.Equal(t, "kind.x-k8s.io/v1alpha4", cluster.APIVersion)
	require.Len(t, cluster.Nodes, 1)
	assert.Equal(t, v1alpha4.ControlPlaneRole, cluster.Nodes[0].Role)
	assert.Empty(t, cluster.Nodes[0].ExtraMounts)
}

func TestGeneratePortMappings(t *testing.T) {
	t.Parallel()

	const portStart = 40000

	cluster := kindconfig.Generate(portStart, false, 1)

	mappings := cluster.Nodes[0].ExtraPortMappings
	require.Len(t, mappings, 100)

	for i, mapping := range mappings {
		assert.Equal(t, int32(30000+i), mapping.ContainerPort)
		assert.Equal(t, int32(portStart+i), mapping.HostPort)
		assert.Equal(t, v1alpha4.PortMappingProtocolTCP, mapping.Protocol)
	}
}

func TestGenerateGpuSupport(t *testing.T) {
	t.Parallel()

	cluster := kindconfig.Generate(30000, true, 3)

	require.Len(t, cluster.Nodes, 3)
	assert.Equal(t, v1alpha4.ControlPlaneRole, cluster.Nodes[0].Role)
	assert.Equal(t, v1alpha4.WorkerRole, cluster.Nodes[1].Role)
	assert.Equal(t, v1alpha4.WorkerRole, cluster.Nodes[2].Role)

	for _, node := range cluster.Nodes {
		require.Len(t, node.ExtraMounts, 1)
		assert.Equal(t, "/dev/null", node.ExtraMounts[0].HostPath)
		assert.Contains(t, node.ExtraMounts[0].ContainerPath, "nvidia-container-devices")
	}
}

func TestGenerateWorkersCarryNoPortMappings(t *testing.T) {
	t.Parallel()

	cluster := kindconfig.Generate(30000, false, 3)

	require.Len(t, cluster.Nodes, 3)
	assert.Len(t, cluster.Nodes[0].ExtraPortMappings, 100)

	// The host band is bound once, on the control-plane container.
	for _, node := range cluster.Nodes[1:] {
		assert.Empty(t, node.ExtraPortMappings)
	}
}

func TestGenerateNoGpuSupport(t *testing.T) {
	t.Parallel()

	rendered := mustRender(t, kindconfig.Generate(30000, false, 1))

	assert.NotContains(t, rendered, "nvidia-container-devices")
}

func TestGenerateSingleNodeNoWorkers(t *testing.T) {
	t.Parallel()

	cluster := kindconfig.Generate(30000, false, 1)

	for _, node := range cluster.Nodes {
		assert.NotEqual(t, v1alpha4.WorkerRole, node.Role)
	}
}

func TestGenerateServiceNodePortRange(t *testing.T) {
	t.Parallel()

	cluster := kindconfig.Generate(40000, false, 1)

	require.Len(t, cluster.KubeadmConfigPatches, 1)
	assert.Contains(t, cluster.KubeadmConfigPatches[0], "service-node-port-range")
	assert.Contains(t, cluster.KubeadmConfigPatches[0], "30000-30099")
}

func TestRenderedManifest(t *testing.T) {
	t.Parallel()

	rendered := mustRender(t, kindconfig.Generate(30000, false, 1))

	assert.Contains(t, rendered, "kind: Cluster")
	assert.Contains(t, rendered, "apiVersion: kind.x-k8s.io/v1alpha4")
	assert.Contains(t, rendered, "role: control-plane")
	assert.Contains(t, rendered, "containerPort: 30000")
	assert.Contains(t, rendered, "hostPort: 30000")
	assert.Equal(t, 100, strings.Count(rendered, "containerPort:"))
}

func TestRenderedManifestSnapshot(t *testing.T) {
	t.Parallel()

	// Two workers and GPUs exercise every manifest branch.
	rendered := mustRender(t, kindconfig.Generate(30100, true, 3))

	snaps.MatchSnapshot(t, rendered)
}

func mustRender(t *testing.T, cluster *v1alpha4.Cluster) string {
	t.Helper()

	rendered, err := kindconfig.Render(cluster)
	require.NoError(t, err)

	return rendered
}
