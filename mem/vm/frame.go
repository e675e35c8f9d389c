package vm

import "fmt"

// A Frame is one unit of physical memory. A frame holds at most one page.
type Frame struct {
	ID  int
	VPN uint64
	PTE *PTE
}

// IsOccupied returns true if a page is resident in the frame.
func (f Frame) IsOccupied() bool {
	return f.PTE != nil
}

// Eviction describes the page that a Bind pushed out of its frame.
type Eviction struct {
	Evicted   bool
	VPN       uint64
	WroteBack bool
}

// A FrameTable is the fixed pool of physical frames. Frames are addressed by
// their index, which is also the order they were created in.
type FrameTable struct {
	frames        []Frame
	numOccupied   int
	numWriteBacks uint64
}

// NewFrameTable creates a pool of numFrames empty frames.
func NewFrameTable(numFrames int) *FrameTable {
	if numFrames <= 0 {
		panic(fmt.Sprintf("invalid number of frames %d", numFrames))
	}

	t := &FrameTable{
		frames: make([]Frame, numFrames),
	}

	for i := range t.frames {
		t.frames[i].ID = i
	}

	return t
}

// NumFrames returns the size of the pool.
func (t *FrameTable) NumFrames() int {
	return len(t.frames)
}

// NumOccupied returns the number of frames that hold a page.
func (t *FrameTable) NumOccupied() int {
	return t.numOccupied
}

// IsFull returns true if no frame is empty.
func (t *FrameTable) IsFull() bool {
	return t.numOccupied == len(t.frames)
}

// NumWriteBacks returns how many dirty pages have been evicted.
func (t *FrameTable) NumWriteBacks() uint64 {
	return t.numWriteBacks
}

// Frame returns the frame at index i.
func (t *FrameTable) Frame(i int) Frame {
	return t.frames[i]
}

// Frames returns a copy of all the frames in creation order.
func (t *FrameTable) Frames() []Frame {
	frames := make([]Frame, len(t.frames))
	copy(frames, t.frames)

	return frames
}

// Lookup returns the index of the frame that holds the page of the entry. The
// bool return value indicates if the page is resident.
func (t *FrameTable) Lookup(pte *PTE) (int, bool) {
	if !pte.Present || !pte.IsBound() {
		return -1, false
	}

	if t.frames[pte.Frame].PTE != pte {
		return -1, false
	}

	return pte.Frame, true
}

// EmptyFrame returns the lowest-indexed frame that holds no page.
func (t *FrameTable) EmptyFrame() (int, bool) {
	// Frames are filled in index order and never released, so the empty
	// frames are exactly the ones after the occupied ones.
	if t.IsFull() {
		return -1, false
	}

	return t.numOccupied, true
}

// Bind places the page of the entry into frame i. The page previously held by
// the frame becomes non-present, and it is written back if it is dirty.
func (t *FrameTable) Bind(i int, vpn uint64, pte *PTE) Eviction {
	if i < 0 || i >= len(t.frames) {
		panic(fmt.Sprintf("frame %d out of range", i))
	}

	if pte.Present {
		panic(fmt.Sprintf("page 0x%x is already resident", vpn))
	}

	frame := &t.frames[i]
	eviction := t.unbind(frame)

	frame.VPN = vpn
	frame.PTE = pte
	pte.Frame = i
	pte.Present = true

	if !eviction.Evicted {
		t.numOccupied++
	}

	return eviction
}

func (t *FrameTable) unbind(frame *Frame) Eviction {
	old := frame.PTE
	if old == nil {
		return Eviction{}
	}

	eviction := Eviction{
		Evicted: true,
		VPN:     frame.VPN,
	}

	old.Present = false
	old.Frame = -1

	if old.Dirty {
		t.numWriteBacks++
		old.Dirty = false
		eviction.WroteBack = true
	}

	frame.PTE = nil

	return eviction
}
