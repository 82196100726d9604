package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/skypilot-org/sky-local/pkg/pathenv"
	"github.com/skypilot-org/sky-local/pkg/portalloc"
	"github.com/skypilot-org/sky-local/pkg/runner"
	"github.com/skypilot-org/sky-local/pkg/status"
)

// Dependency resolvers.

// ResolveCommandRunner retrieves the command runner dependency from the injector.
func ResolveCommandRunner(injector Injector) (runner.CommandRunner, error) {
	commandRunner, err := do.Invoke[runner.CommandRunner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve command runner dependency: %w", err)
	}

	return commandRunner, nil
}

// ResolveStatusClient retrieves the cluster lookup client dependency from the injector.
func ResolveStatusClient(injector Injector) (status.Client, error) {
	client, err := do.Invoke[status.Client](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve status client dependency: %w", err)
	}

	return client, nil
}

// ResolvePathResolver retrieves the path resolver dependency from the injector.
func ResolvePathResolver(injector Injector) (*pathenv.Resolver, error) {
	resolver, err := do.Invoke[*pathenv.Resolver](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve path resolver dependency: %w", err)
	}

	return resolver, nil
}

// ResolvePortAllocator retrieves the port allocator dependency from the injector.
func ResolvePortAllocator(injector Injector) (*portalloc.Allocator, error) {
	allocator, err := do.Invoke[*portalloc.Allocator](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve port allocator dependency: %w", err)
	}

	return allocator, nil
}
