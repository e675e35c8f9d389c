// Package replacement provides the page replacement policies that decide
// which resident page to evict when every frame is occupied.
package replacement

import (
	"fmt"

	"github.com/sarchlab/vmsim/mem/vm"
)

// A VictimFinder decides which frame should be evicted. FindVictim is only
// called when every frame holds a page.
type VictimFinder interface {
	Name() string
	FindVictim(frames *vm.FrameTable) int
}

// An AccessTracker is a VictimFinder that keeps per-page recency state. The
// simulator reports elapsed cycles before looking up every access, touches the
// page on a hit, and loads the page after it is swapped in.
type AccessTracker interface {
	Elapse(frames *vm.FrameTable, cycles uint64)
	Touch(pte *vm.PTE)
	Load(pte *vm.PTE)
}

// NewVictimFinder creates the victim finder that implements the algorithm.
// The index is only used by OPT and the refresh interval only by AGING.
func NewVictimFinder(
	alg Algorithm,
	index *FutureAccessIndex,
	refreshInterval uint64,
) VictimFinder {
	switch alg {
	case FIFO:
		return NewFIFOVictimFinder()
	case OPT:
		return NewOptimalVictimFinder(index)
	case Aging:
		return NewAgingVictimFinder(refreshInterval)
	default:
		panic(fmt.Sprintf("unsupported algorithm %d", alg))
	}
}
