package cmd

import (
	v1alpha1 "github.com/skypilot-org/sky-local/pkg/apis/local/v1alpha1"
	"github.com/skypilot-org/sky-local/pkg/di"
	"github.com/skypilot-org/sky-local/pkg/kindconfig"
	"github.com/skypilot-org/sky-local/pkg/notify"
	"github.com/skypilot-org/sky-local/pkg/pathenv"
	"github.com/skypilot-org/sky-local/pkg/portalloc"
	kindprovisioner "github.com/skypilot-org/sky-local/pkg/provisioner/kind"
	"github.com/skypilot-org/sky-local/pkg/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// UpDeps carries the collaborators of the up command. Tests substitute fakes
// here instead of going through the runtime container.
type UpDeps struct {
	Runner       runner.CommandRunner
	PathResolver *pathenv.Resolver
	Allocator    *portalloc.Allocator
}

// NewUpCmd wires the up command using the shared runtime container.
func NewUpCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bring up a local Kubernetes cluster",
		Long: "Bring up a local multi-node Kubernetes cluster using kind, exposing a " +
			"contiguous range of host ports for cluster services.",
		SilenceUsage: true,
	}

	cmd.Flags().String("name", portalloc.DefaultClusterName, "Cluster name")
	cmd.Flags().Int("port-start", 0,
		"Starting host port for the cluster's service range (0 lets the allocator choose)")
	cmd.Flags().Bool("gpus", false, "Enable GPU device passthrough into the cluster nodes")
	cmd.Flags().Int("nodes", 1, "Total node count, including the control plane")
	cmd.Flags().String("path", "",
		"Additional PATH entries searched first when locating required tools")

	vip := newCommandViper()
	bindFlags(cmd, vip, "name", "port-start", "gpus", "nodes", "path")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		deps, err := upDepsFromRuntime(runtimeContainer)
		if err != nil {
			return err
		}

		return HandleUpRunE(cmd, upRequestFromViper(vip), deps)
	}

	return cmd
}

// HandleUpRunE executes cluster bring-up: allocate the host port range,
// generate the topology config, resolve the tool environment, and invoke the
// bootstrapper.
func HandleUpRunE(cmd *cobra.Command, request v1alpha1.UpRequest, deps UpDeps) error {
	request.Default()

	err := request.Validate()
	if err != nil {
		return err
	}

	portRange, err := deps.Allocator.Allocate(request.Name, request.PortStart)
	if err != nil {
		return err
	}

	notify.Titlef(cmd.OutOrStdout(), "🚀", "Bring up cluster %q...", request.Name)

	ctx := commandContext(cmd)
	env := deps.PathResolver.Resolve(ctx, request.Path)
	config := kindconfig.Generate(portRange.Start, request.Gpus, request.NumNodes)
	provisioner := kindprovisioner.New(env, deps.Runner)

	notify.Activityf(cmd.OutOrStdout(), "creating cluster %q (%d nodes, host ports %d-%d)",
		request.Name, request.NumNodes, portRange.Start, portRange.End)

	err = provisioner.Create(ctx, request.Name, config)
	if err != nil {
		return err
	}

	notify.Successf(cmd.OutOrStdout(), "cluster %q is up; services are reachable on host ports %d-%d",
		request.Name, portRange.Start, portRange.End)

	return nil
}

// upRequestFromViper assembles the bring-up request from the bound flag and
// environment values. A zero port-start means the allocator chooses.
func upRequestFromViper(vip *viper.Viper) v1alpha1.UpRequest {
	request := v1alpha1.UpRequest{
		Gpus:     vip.GetBool("gpus"),
		Name:     vip.GetString("name"),
		Path:     vip.GetString("path"),
		NumNodes: vip.GetInt("nodes"),
	}

	if portStart := vip.GetInt("port-start"); portStart != 0 {
		request.PortStart = &portStart
	}

	return request
}

// upDepsFromRuntime resolves the up command's collaborators from the runtime
// container.
func upDepsFromRuntime(runtimeContainer *di.Runtime) (UpDeps, error) {
	commandRunner, err := di.ResolveCommandRunner(runtimeContainer.Injector)
	if err != nil {
		return UpDeps{}, err
	}

	pathResolver, err := di.ResolvePathResolver(runtimeContainer.Injector)
	if err != nil {
		return UpDeps{}, err
	}

	allocator, err := di.ResolvePortAllocator(runtimeContainer.Injector)
	if err != nil {
		return UpDeps{}, err
	}

	return UpDeps{
		Runner:       commandRunner,
		PathResolver: pathResolver,
		Allocator:    allocator,
	}, nil
}
