package cmd

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/skypilot-org/sky-local/pkg/di"
	"github.com/skypilot-org/sky-local/pkg/remotesync"
	"github.com/skypilot-org/sky-local/pkg/runner"
	"github.com/skypilot-org/sky-local/pkg/status"
	"github.com/spf13/cobra"
)

// ErrRsyncNotInstalled is returned when the rsync binary cannot be found.
var ErrRsyncNotInstalled = errors.New(
	"rsync is not installed; install it with your system package manager",
)

// RsyncDeps carries the collaborators of the rsync command.
type RsyncDeps struct {
	Runner       runner.CommandRunner
	StatusClient status.Client
}

// NewRsyncCmd wires the rsync command using the shared runtime container.
func NewRsyncCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsync SOURCE DESTINATION [-- RSYNC_ARG...]",
		Short: "Sync files to or from a cluster",
		Long: "Sync files between the local machine and a cluster using rsync. Exactly one " +
			"of SOURCE or DESTINATION must carry a cluster prefix (e.g. my-cluster:~/path); " +
			"the cluster must be UP. Arguments after -- are forwarded to rsync verbatim.",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		deps, err := rsyncDepsFromRuntime(runtimeContainer)
		if err != nil {
			return err
		}

		return HandleRsyncRunE(cmd, args, deps)
	}

	return cmd
}

// HandleRsyncRunE resolves which positional argument addresses a cluster,
// rewrites it to the cluster's reachable address, and invokes rsync with any
// post-separator arguments placed before the two positional paths.
func HandleRsyncRunE(cmd *cobra.Command, args []string, deps RsyncDeps) error {
	source, destination := args[0], args[1]
	extraArgs := args[2:]

	resolver := remotesync.NewResolver(deps.StatusClient)

	invocation, err := resolver.Resolve(commandContext(cmd), source, destination)
	if err != nil {
		return err
	}

	rsyncArgs := make([]string, 0, len(extraArgs)+2)
	rsyncArgs = append(rsyncArgs, extraArgs...)
	rsyncArgs = append(rsyncArgs, invocation.Source, invocation.Destination)

	_, err = deps.Runner.Run(commandContext(cmd), runner.Command{
		Name: "rsync",
		Args: rsyncArgs,
	})
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrRsyncNotInstalled
		}

		return fmt.Errorf("rsync failed: %w", err)
	}

	return nil
}

// rsyncDepsFromRuntime resolves the rsync command's collaborators from the
// runtime container.
func rsyncDepsFromRuntime(runtimeContainer *di.Runtime) (RsyncDeps, error) {
	commandRunner, err := di.ResolveCommandRunner(runtimeContainer.Injector)
	if err != nil {
		return RsyncDeps{}, err
	}

	statusClient, err := di.ResolveStatusClient(runtimeContainer.Injector)
	if err != nil {
		return RsyncDeps{}, err
	}

	return RsyncDeps{
		Runner:       commandRunner,
		StatusClient: statusClient,
	}, nil
}
