// Package cmd wires the sky-local CLI commands.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/skypilot-org/sky-local/pkg/di"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment variables bound to command flags
// (e.g. SKY_LOCAL_NAME overrides --name).
const envPrefix = "SKY_LOCAL"

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	runtimeContainer := di.NewRuntime()

	cmd := &cobra.Command{
		Use:          "sky-local",
		Short:        "sky-local provisions a local multi-node Kubernetes cluster on a single host",
		Long: "sky-local provisions and configures a local, multi-node container-based " +
			"Kubernetes cluster, emulating a production orchestration environment on a single host.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.AddCommand(NewUpCmd(runtimeContainer))
	cmd.AddCommand(NewDownCmd(runtimeContainer))
	cmd.AddCommand(NewRsyncCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}

// newCommandViper creates a viper instance with the shared env binding rules.
func newCommandViper() *viper.Viper {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	return vip
}

// bindFlags binds the named command flags to the viper instance so that
// SKY_LOCAL_* environment variables can override them.
func bindFlags(cmd *cobra.Command, vip *viper.Viper, names ...string) {
	for _, name := range names {
		_ = vip.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}

// commandContext returns the command's context, falling back to Background
// when the command is invoked outside cobra's Execute flow.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return ctx
}
