// Package portalloc computes collision-avoiding host port ranges for exposing
// local cluster services.
//
// The default cluster gets a stable, well-known port band so tooling can
// hardcode it; every other cluster is partitioned by hundreds to avoid
// accidental overlap while remaining human-typeable.
package portalloc

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	// DefaultClusterName is the distinguished cluster with a reserved port band.
	DefaultClusterName = "skypilot"

	// DefaultPortStart is the reserved starting port of the default cluster.
	DefaultPortStart = 30000

	// PortRangeSize is the number of host ports a cluster topology needs.
	PortRangeSize = 100

	// randBandStart..randBandEnd is the band from which non-default clusters
	// draw a random starting port, in steps of 100. It sits above the default
	// range so a randomly placed cluster can never collide with it.
	randBandStart = DefaultPortStart + PortRangeSize
	randBandEnd   = DefaultPortStart + 9900
)

// ErrInvalidPort is returned when a requested starting port violates the
// allocation policy.
var ErrInvalidPort = errors.New("invalid port")

// PortRange is a contiguous range of host ports, inclusive on both ends.
// End is always Start + PortRangeSize - 1.
type PortRange struct {
	Start int
	End   int
}

// RandSource returns a pseudo-random int in [0, n). Injected so allocation
// tests stay deterministic.
type RandSource func(n int) int

// Allocator computes validated port ranges per the allocation policy.
type Allocator struct {
	rand RandSource
}

// NewAllocator creates an allocator backed by math/rand.
func NewAllocator() *Allocator {
	return NewAllocatorWithRand(rand.Intn)
}

// NewAllocatorWithRand creates an allocator with an explicit random source.
func NewAllocatorWithRand(randSource RandSource) *Allocator {
	return &Allocator{rand: randSource}
}

// Allocate computes the host port range for the named cluster.
//
// The default cluster must use its reserved band: a nil requestedStart selects
// it, any other value fails. Non-default clusters must not use the reserved
// starting port and must request a multiple of 100; when requestedStart is nil
// a pseudo-random multiple of 100 above the default band is chosen.
func (a *Allocator) Allocate(clusterName string, requestedStart *int) (PortRange, error) {
	start, err := a.portStart(clusterName, requestedStart)
	if err != nil {
		return PortRange{}, err
	}

	return PortRange{Start: start, End: start + PortRangeSize - 1}, nil
}

func (a *Allocator) portStart(clusterName string, requestedStart *int) (int, error) {
	if clusterName == DefaultClusterName {
		if requestedStart != nil && *requestedStart != DefaultPortStart {
			return 0, fmt.Errorf(
				"%w: port range for the default cluster %q must be %d to %d, got %d",
				ErrInvalidPort,
				DefaultClusterName,
				DefaultPortStart,
				DefaultPortStart+PortRangeSize-1,
				*requestedStart,
			)
		}

		return DefaultPortStart, nil
	}

	if requestedStart == nil {
		steps := (randBandEnd-randBandStart)/PortRangeSize + 1

		return randBandStart + a.rand(steps)*PortRangeSize, nil
	}

	if *requestedStart == DefaultPortStart {
		return 0, fmt.Errorf(
			"%w: port %d is reserved for the default cluster %q",
			ErrInvalidPort,
			DefaultPortStart,
			DefaultClusterName,
		)
	}

	if *requestedStart%100 != 0 {
		return 0, fmt.Errorf(
			"%w: port %d must be a multiple of 100",
			ErrInvalidPort,
			*requestedStart,
		)
	}

	return *requestedStart, nil
}
