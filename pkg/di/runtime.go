// Package di wires the shared runtime container used by the CLI commands.
// Commands resolve their collaborators (command runner, status client, path
// resolver, port allocator) from the container, and tests override them with
// fakes.
package di

import (
	"github.com/samber/do/v2"
)

// Injector is the dependency injector used across the runtime container.
type Injector = do.Injector

// Provider registers one dependency with the injector.
type Provider func(Injector) error

// Runtime is the shared dependency container passed to command constructors.
type Runtime struct {
	Injector Injector
}

// New constructs a runtime container from the given providers.
func New(providers ...Provider) *Runtime {
	injector := do.New()

	for _, provider := range providers {
		// Providers only register constructors; registration cannot fail at
		// runtime.
		_ = provider(injector)
	}

	return &Runtime{Injector: injector}
}

// NewRuntime constructs the runtime container with default implementations.
func NewRuntime() *Runtime {
	return New(
		provideCommandRunner,
		provideStatusClient,
		providePathResolver,
		providePortAllocator,
	)
}
