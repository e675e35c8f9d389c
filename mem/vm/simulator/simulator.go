// Package simulator drives a memory trace through a page table and a frame
// pool, handling page faults with a replacement policy.
package simulator

import (
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
	"github.com/sarchlab/vmsim/sim"
)

// Comp is one page replacement simulation run. It owns all the state of the
// run and is not safe for concurrent use.
type Comp struct {
	sim.HookableBase

	name          string
	spec          Spec
	accesses      []vm.Access
	pageTable     vm.PageTable
	frames        *vm.FrameTable
	index         *replacement.FutureAccessIndex
	victimFinder  replacement.VictimFinder
	accessTracker replacement.AccessTracker

	nextAccess int
	numHits    uint64
	numFaults  uint64
}

// Name returns the name of the run.
func (c *Comp) Name() string {
	return c.name
}

// Spec returns the configuration of the run.
func (c *Comp) Spec() Spec {
	return c.spec
}

// PageTable returns the page table of the run.
func (c *Comp) PageTable() vm.PageTable {
	return c.pageTable
}

// Frames returns the frame pool of the run.
func (c *Comp) Frames() *vm.FrameTable {
	return c.frames
}

// FutureAccessIndex returns the look-ahead index of the run.
func (c *Comp) FutureAccessIndex() *replacement.FutureAccessIndex {
	return c.index
}

// NumAccesses returns the length of the trace.
func (c *Comp) NumAccesses() int {
	return len(c.accesses)
}

// Done returns true if every access has been processed.
func (c *Comp) Done() bool {
	return c.nextAccess >= len(c.accesses)
}

// Run processes all the remaining accesses and returns the statistics.
func (c *Comp) Run() Stats {
	for c.Step() {
	}

	return c.Stats()
}

// Step processes the next access. It returns false if there is no access
// left.
func (c *Comp) Step() bool {
	if c.Done() {
		return false
	}

	position := uint64(c.nextAccess)
	access := c.accesses[c.nextAccess]
	c.nextAccess++

	vpn := c.pageTable.PageNumber(access.VAddr)
	pte := c.pageTable.LookupOrCreate(vpn)

	if access.Mode == vm.Store {
		pte.Dirty = true
	}

	if c.accessTracker != nil {
		c.accessTracker.Elapse(c.frames, access.Cycles)
	}

	evt := AccessEvent{
		Position: position,
		Access:   access,
		VPN:      vpn,
	}

	frame, hit := c.frames.Lookup(pte)
	if hit {
		evt.Frame = frame
		c.handleHit(evt, pte)
	} else {
		c.handleFault(evt, pte)
	}

	return true
}

func (c *Comp) handleHit(evt AccessEvent, pte *vm.PTE) {
	c.numHits++

	if c.accessTracker != nil {
		c.accessTracker.Touch(pte)
	}

	c.index.Consume(evt.VPN)

	c.invoke(HookPosPageHit, evt, nil)
}

func (c *Comp) handleFault(evt AccessEvent, pte *vm.PTE) {
	c.numFaults++

	frame := c.selectFrame()
	eviction := c.frames.Bind(frame, evt.VPN, pte)

	if c.accessTracker != nil {
		c.accessTracker.Load(pte)
	}

	c.index.Consume(evt.VPN)

	if eviction.Evicted {
		c.invoke(HookPosPageEvict, EvictionEvent{
			Position:  evt.Position,
			Frame:     frame,
			VPN:       eviction.VPN,
			WroteBack: eviction.WroteBack,
		}, nil)
	}

	evt.Frame = frame
	c.invoke(HookPosPageFault, evt, eviction)
}

func (c *Comp) selectFrame() int {
	if frame, ok := c.frames.EmptyFrame(); ok {
		return frame
	}

	return c.victimFinder.FindVictim(c.frames)
}

func (c *Comp) invoke(pos *sim.HookPos, item, detail interface{}) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

// Stats returns the statistics of the accesses processed so far.
func (c *Comp) Stats() Stats {
	return Stats{
		Algorithm:  c.victimFinder.Name(),
		NumFrames:  c.frames.NumFrames(),
		Accesses:   uint64(c.nextAccess),
		Hits:       c.numHits,
		Faults:     c.numFaults,
		WriteBacks: c.frames.NumWriteBacks(),
	}
}
