package replacement

import (
	"github.com/sarchlab/vmsim/mem/vm"
)

const agingCounterMSB = uint8(0x80)

// AgingVictimFinder approximates LRU with an 8-bit history counter per page.
// Every refresh interval, each resident page's counter shifts right and takes
// the page's reference bit as its most significant bit.
type AgingVictimFinder struct {
	refreshInterval uint64
	elapsed         uint64
	numShifts       uint64
}

// NewAgingVictimFinder creates an aging victim finder that shifts the
// counters every refreshInterval cycles.
func NewAgingVictimFinder(refreshInterval uint64) *AgingVictimFinder {
	if refreshInterval == 0 {
		panic("aging replacement requires a positive refresh interval")
	}

	return &AgingVictimFinder{refreshInterval: refreshInterval}
}

// Name returns "AGING".
func (e *AgingVictimFinder) Name() string {
	return Aging.String()
}

// NumShifts returns how many shift passes have run.
func (e *AgingVictimFinder) NumShifts() uint64 {
	return e.numShifts
}

// Elapse advances the aging clock by the cost of one access. One shift pass
// runs for every full refresh interval accumulated.
func (e *AgingVictimFinder) Elapse(frames *vm.FrameTable, cycles uint64) {
	e.elapsed += cycles + 1

	for e.elapsed >= e.refreshInterval {
		e.shift(frames)
		e.elapsed -= e.refreshInterval
	}
}

func (e *AgingVictimFinder) shift(frames *vm.FrameTable) {
	for i := 0; i < frames.NumFrames(); i++ {
		pte := frames.Frame(i).PTE
		if pte == nil {
			continue
		}

		pte.AgingCounter >>= 1
		if pte.ReferenceBit {
			pte.AgingCounter |= agingCounterMSB
		}

		pte.ReferenceBit = false
	}

	e.numShifts++
}

// Touch marks the page as referenced.
func (e *AgingVictimFinder) Touch(pte *vm.PTE) {
	pte.ReferenceBit = true
}

// Load resets the history of a page that has just been swapped in.
func (e *AgingVictimFinder) Load(pte *vm.PTE) {
	pte.AgingCounter = agingCounterMSB
	pte.ReferenceBit = false
}

// FindVictim returns the frame with the smallest counter. Among equal
// counters, clean pages go before dirty ones, and then smaller page numbers
// go first.
func (e *AgingVictimFinder) FindVictim(frames *vm.FrameTable) int {
	victim := -1

	for i := 0; i < frames.NumFrames(); i++ {
		frame := frames.Frame(i)
		if !frame.IsOccupied() {
			continue
		}

		if victim < 0 || evictsBefore(frame, frames.Frame(victim)) {
			victim = i
		}
	}

	if victim < 0 {
		panic("no resident page to evict")
	}

	return victim
}

func evictsBefore(candidate, current vm.Frame) bool {
	a, b := candidate.PTE, current.PTE

	if a.AgingCounter != b.AgingCounter {
		return a.AgingCounter < b.AgingCounter
	}

	if a.Dirty != b.Dirty {
		return !a.Dirty
	}

	return candidate.VPN < current.VPN
}
