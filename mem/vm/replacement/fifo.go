package replacement

import "github.com/sarchlab/vmsim/mem/vm"

// FIFOVictimFinder evicts frames in round-robin order, regardless of how
// recently their pages were used.
type FIFOVictimFinder struct {
	cursor int
}

// NewFIFOVictimFinder returns a FIFO victim finder whose first victim is
// frame 0.
func NewFIFOVictimFinder() *FIFOVictimFinder {
	return &FIFOVictimFinder{cursor: -1}
}

// Name returns "FIFO".
func (e *FIFOVictimFinder) Name() string {
	return FIFO.String()
}

// FindVictim returns the frame after the previous victim.
func (e *FIFOVictimFinder) FindVictim(frames *vm.FrameTable) int {
	e.cursor = (e.cursor + 1) % frames.NumFrames()
	return e.cursor
}
