package replacement

import "github.com/sarchlab/vmsim/mem/vm"

// OptimalVictimFinder evicts the page whose next use is farthest in the
// future (Belady's algorithm).
type OptimalVictimFinder struct {
	index *FutureAccessIndex
}

// NewOptimalVictimFinder returns an optimal victim finder that looks ahead
// with the given index.
func NewOptimalVictimFinder(index *FutureAccessIndex) *OptimalVictimFinder {
	if index == nil {
		panic("optimal replacement requires a future access index")
	}

	return &OptimalVictimFinder{index: index}
}

// Name returns "OPT".
func (e *OptimalVictimFinder) Name() string {
	return OPT.String()
}

// FindVictim returns the frame whose page is used farthest in the future. A
// page that is never used again is evicted right away. Ties go to the lowest
// frame index.
func (e *OptimalVictimFinder) FindVictim(frames *vm.FrameTable) int {
	victim := -1
	farthest := uint64(0)

	for i := 0; i < frames.NumFrames(); i++ {
		frame := frames.Frame(i)
		if !frame.IsOccupied() {
			continue
		}

		next := e.index.Peek(frame.VPN)
		if next == Infinity {
			return i
		}

		if victim < 0 || next > farthest {
			victim = i
			farthest = next
		}
	}

	if victim < 0 {
		panic("no resident page to evict")
	}

	return victim
}
