package simulator

import (
	"errors"
	"fmt"

	"github.com/sarchlab/vmsim/mem/vm/replacement"
)

// Errors reported when a Spec cannot drive a run.
var (
	ErrInvalidNumFrames = errors.New("number of frames must be positive")
	ErrMissingRefresh   = errors.New("aging requires a positive refresh interval")
	ErrInvalidPageSize  = errors.New("log2 page size must be below 64")
)

// Spec is the immutable configuration of one simulation run.
type Spec struct {
	NumFrames       int
	Algorithm       replacement.Algorithm
	RefreshInterval uint64
	Log2PageSize    uint64
}

// DefaultSpec returns a FIFO spec with 4 KiB pages. The number of frames has
// no default and must be set.
func DefaultSpec() Spec {
	return Spec{
		Algorithm:    replacement.FIFO,
		Log2PageSize: 12,
	}
}

// Validate checks that the spec describes a runnable simulation.
func (s Spec) Validate() error {
	if s.NumFrames <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidNumFrames, s.NumFrames)
	}

	switch s.Algorithm {
	case replacement.FIFO, replacement.OPT:
	case replacement.Aging:
		if s.RefreshInterval == 0 {
			return ErrMissingRefresh
		}
	default:
		return fmt.Errorf("%w: %s", replacement.ErrUnknownAlgorithm, s.Algorithm)
	}

	if s.Log2PageSize >= 64 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, s.Log2PageSize)
	}

	return nil
}
