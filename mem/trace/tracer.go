package trace

import (
	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/simulator"
	"github.com/sarchlab/vmsim/sim"
)

const faultTableName = "vmsim_faults"

// faultEntry represents a page fault in the database. SQLite integers are
// signed, so addresses and page numbers are stored as the int64 with the same
// bits.
type faultEntry struct {
	RunID      string
	Position   uint64
	Mode       string
	VAddr      int64
	VPN        int64
	Frame      int
	Evicted    bool
	EvictedVPN int64
	WroteBack  bool
}

// A DBTracer is a hook that records the page faults of a simulator into a
// data recorder.
type DBTracer struct {
	runID    string
	recorder datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer that tags every row with runID.
func NewDBTracer(
	recorder datarecording.DataRecorder,
	runID string,
) *DBTracer {
	recorder.CreateTable(faultTableName, faultEntry{})

	return &DBTracer{
		runID:    runID,
		recorder: recorder,
	}
}

// Func records page-fault events and ignores the rest.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != simulator.HookPosPageFault {
		return
	}

	evt, ok := ctx.Item.(simulator.AccessEvent)
	if !ok {
		return
	}

	entry := faultEntry{
		RunID:    t.runID,
		Position: evt.Position,
		Mode:     evt.Access.Mode.String(),
		VAddr:    int64(evt.Access.VAddr),
		VPN:      int64(evt.VPN),
		Frame:    evt.Frame,
	}

	if eviction, ok := ctx.Detail.(vm.Eviction); ok {
		entry.Evicted = eviction.Evicted
		entry.EvictedVPN = int64(eviction.VPN)
		entry.WroteBack = eviction.WroteBack
	}

	t.recorder.InsertData(faultTableName, entry)
}
