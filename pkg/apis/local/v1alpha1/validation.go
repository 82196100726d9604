package v1alpha1

import (
	"errors"
	"fmt"
)

// ErrInvalidNodeCount is returned when a bring-up request asks for fewer than
// one node.
var ErrInvalidNodeCount = errors.New("node count must be at least 1")

// Validate checks the request after defaulting.
func (r *UpRequest) Validate() error {
	if r.NumNodes < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidNodeCount, r.NumNodes)
	}

	return nil
}
