package cmd

import (
	v1alpha1 "github.com/skypilot-org/sky-local/pkg/apis/local/v1alpha1"
	"github.com/skypilot-org/sky-local/pkg/di"
	"github.com/skypilot-org/sky-local/pkg/notify"
	"github.com/skypilot-org/sky-local/pkg/pathenv"
	"github.com/skypilot-org/sky-local/pkg/portalloc"
	kindprovisioner "github.com/skypilot-org/sky-local/pkg/provisioner/kind"
	"github.com/skypilot-org/sky-local/pkg/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DownDeps carries the collaborators of the down command.
type DownDeps struct {
	Runner       runner.CommandRunner
	PathResolver *pathenv.Resolver
}

// NewDownCmd wires the down command using the shared runtime container.
func NewDownCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "down",
		Short:        "Tear down a local Kubernetes cluster",
		SilenceUsage: true,
	}

	cmd.Flags().String("name", portalloc.DefaultClusterName, "Cluster name")
	cmd.Flags().String("path", "",
		"Additional PATH entries searched first when locating required tools")

	vip := newCommandViper()
	bindFlags(cmd, vip, "name", "path")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		deps, err := downDepsFromRuntime(runtimeContainer)
		if err != nil {
			return err
		}

		return HandleDownRunE(cmd, downRequestFromViper(vip), deps)
	}

	return cmd
}

// HandleDownRunE executes cluster teardown through the bootstrapper with the
// resolved tool environment.
func HandleDownRunE(cmd *cobra.Command, request v1alpha1.DownRequest, deps DownDeps) error {
	request.Default()

	notify.Titlef(cmd.OutOrStdout(), "🔥", "Tear down cluster %q...", request.Name)

	ctx := commandContext(cmd)
	env := deps.PathResolver.Resolve(ctx, request.Path)
	provisioner := kindprovisioner.New(env, deps.Runner)

	notify.Activityf(cmd.OutOrStdout(), "deleting cluster %q", request.Name)

	err := provisioner.Delete(ctx, request.Name)
	if err != nil {
		return err
	}

	notify.Successf(cmd.OutOrStdout(), "cluster %q deleted", request.Name)

	return nil
}

// downRequestFromViper assembles the teardown request from the bound flag and
// environment values.
func downRequestFromViper(vip *viper.Viper) v1alpha1.DownRequest {
	return v1alpha1.DownRequest{
		Name: vip.GetString("name"),
		Path: vip.GetString("path"),
	}
}

// downDepsFromRuntime resolves the down command's collaborators from the
// runtime container.
func downDepsFromRuntime(runtimeContainer *di.Runtime) (DownDeps, error) {
	commandRunner, err := di.ResolveCommandRunner(runtimeContainer.Injector)
	if err != nil {
		return DownDeps{}, err
	}

	pathResolver, err := di.ResolvePathResolver(runtimeContainer.Injector)
	if err != nil {
		return DownDeps{}, err
	}

	return DownDeps{
		Runner:       commandRunner,
		PathResolver: pathResolver,
	}, nil
}
