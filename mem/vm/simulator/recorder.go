package simulator

import "github.com/sarchlab/vmsim/datarecording"

// RunTableName is the table that holds one row per finished run.
const RunTableName = "vmsim_runs"

// RunEntry is a row of the run table.
type RunEntry struct {
	RunID           string
	Name            string
	Algorithm       string
	NumFrames       int
	RefreshInterval uint64
	Log2PageSize    uint64
	Accesses        uint64
	Hits            uint64
	Faults          uint64
	WriteBacks      uint64
	FaultRate       float64
}

// A RunRecorder writes the outcome of runs into a data recorder.
type RunRecorder struct {
	recorder datarecording.DataRecorder
}

// NewRunRecorder creates the run table in the recorder.
func NewRunRecorder(recorder datarecording.DataRecorder) *RunRecorder {
	recorder.CreateTable(RunTableName, RunEntry{})

	return &RunRecorder{recorder: recorder}
}

// Record stores the current statistics of c under runID.
func (r *RunRecorder) Record(runID string, c *Comp) {
	spec := c.Spec()
	stats := c.Stats()

	r.recorder.InsertData(RunTableName, RunEntry{
		RunID:           runID,
		Name:            c.Name(),
		Algorithm:       stats.Algorithm,
		NumFrames:       stats.NumFrames,
		RefreshInterval: spec.RefreshInterval,
		Log2PageSize:    spec.Log2PageSize,
		Accesses:        stats.Accesses,
		Hits:            stats.Hits,
		Faults:          stats.Faults,
		WriteBacks:      stats.WriteBacks,
		FaultRate:       stats.FaultRate(),
	})
}
