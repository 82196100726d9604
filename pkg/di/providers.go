package di

import (
	"github.com/samber/do/v2"
	"github.com/skypilot-org/sky-local/pkg/pathenv"
	"github.com/skypilot-org/sky-local/pkg/portalloc"
	"github.com/skypilot-org/sky-local/pkg/runner"
	"github.com/skypilot-org/sky-local/pkg/status"
)

// Dependency providers.

// provideCommandRunner registers the default exec-backed command runner.
func provideCommandRunner(i Injector) error {
	do.Provide(i, func(Injector) (runner.CommandRunner, error) {
		return runner.NewExecCommandRunner(nil, nil), nil
	})

	return nil
}

// provideStatusClient registers the cluster lookup client. The default build
// carries no lookup backend; embedders override this with a real one.
func provideStatusClient(i Injector) error {
	do.Provide(i, func(Injector) (status.Client, error) {
		return status.Unconfigured{}, nil
	})

	return nil
}

// providePathResolver registers the path resolver with the real login-shell
// prober.
func providePathResolver(i Injector) error {
	do.Provide(i, func(Injector) (*pathenv.Resolver, error) {
		return pathenv.NewResolver(), nil
	})

	return nil
}

// providePortAllocator registers the port allocator with the default random
// source.
func providePortAllocator(i Injector) error {
	do.Provide(i, func(Injector) (*portalloc.Allocator, error) {
		return portalloc.NewAllocator(), nil
	})

	return nil
}
