// Package kindprovisioner brings up and tears down the local kind cluster by
// invoking the kind binary as a subprocess with a resolved tool environment.
package kindprovisioner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skypilot-org/sky-local/pkg/kindconfig"
	"github.com/skypilot-org/sky-local/pkg/pathenv"
	"github.com/skypilot-org/sky-local/pkg/runner"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

// ErrKindNotInstalled is returned when the kind binary cannot be found on the
// resolved search path.
var ErrKindNotInstalled = errors.New(
	"kind is not installed or not on PATH; see https://kind.sigs.k8s.io/docs/user/quick-start/#installation",
)

// ErrClusterNotFound is returned when a teardown is attempted on a
// non-existent cluster.
var ErrClusterNotFound = errors.New("cluster not found")

// Provisioner invokes the kind binary through the command runner. The binary
// is located via the resolved environment rather than the process PATH, so
// installations only visible to the user's login shell are honored.
type Provisioner struct {
	env    pathenv.Environment
	runner runner.CommandRunner
}

// New constructs a Provisioner bound to the resolved environment.
func New(env pathenv.Environment, commandRunner runner.CommandRunner) *Provisioner {
	return &Provisioner{
		env:    env,
		runner: commandRunner,
	}
}

// Create creates a kind cluster from the given topology config. The config is
// serialized to a temp file because the kind binary only accepts file input.
func (p *Provisioner) Create(ctx context.Context, name string, config *v1alpha4.Cluster) error {
	kindPath, err := p.kindPath()
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp("", "kind-config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	defer func() { _ = tmpFile.Close() }()
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	configYAML, err := kindconfig.Render(config)
	if err != nil {
		return err
	}

	const configFilePerms = 0o600

	err = os.WriteFile(tmpFile.Name(), []byte(configYAML), configFilePerms)
	if err != nil {
		return fmt.Errorf("write temp config file: %w", err)
	}

	args := []string{"create", "cluster", "--name", name, "--config", tmpFile.Name()}

	logrus.Debugf("invoking %s %s", kindPath, strings.Join(args, " "))

	_, err = p.runner.Run(ctx, runner.Command{
		Name: kindPath,
		Args: args,
		Env:  p.env.Environ,
	})
	if err != nil {
		return fmt.Errorf("failed to create kind cluster: %w", err)
	}

	return nil
}

// Delete deletes a kind cluster.
// Returns ErrClusterNotFound if the cluster does not exist.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	kindPath, err := p.kindPath()
	if err != nil {
		return err
	}

	exists, err := p.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check cluster existence: %w", err)
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrClusterNotFound, name)
	}

	_, err = p.runner.Run(ctx, runner.Command{
		Name: kindPath,
		Args: []string{"delete", "cluster", "--name", name},
		Env:  p.env.Environ,
	})
	if err != nil {
		return fmt.Errorf("failed to delete kind cluster: %w", err)
	}

	return nil
}

// List returns the names of all kind clusters.
func (p *Provisioner) List(ctx context.Context) ([]string, error) {
	kindPath, err := p.kindPath()
	if err != nil {
		return nil, err
	}

	result, err := p.runner.Run(ctx, runner.Command{
		Name: kindPath,
		Args: []string{"get", "clusters"},
		Env:  p.env.Environ,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list kind clusters: %w", err)
	}

	const noKindClustersMsg = "No kind clusters found."

	var clusters []string

	for _, line := range strings.Split(result.Stdout, "\n") {
		name := strings.TrimSpace(line)
		if name != "" && name != noKindClustersMsg {
			clusters = append(clusters, name)
		}
	}

	return clusters, nil
}

// Exists checks if a kind cluster with the given name exists.
func (p *Provisioner) Exists(ctx context.Context, name string) (bool, error) {
	clusters, err := p.List(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(clusters, name), nil
}

// kindPath locates the kind binary on the resolved search path.
func (p *Provisioner) kindPath() (string, error) {
	kindPath, err := p.env.LookPath("kind")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKindNotInstalled, err)
	}

	return kindPath, nil
}
