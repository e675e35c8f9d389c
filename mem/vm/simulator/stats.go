package simulator

import (
	"fmt"
	"io"
)

// Stats summarizes a run.
type Stats struct {
	Algorithm  string
	NumFrames  int
	Accesses   uint64
	Hits       uint64
	Faults     uint64
	WriteBacks uint64
}

// FaultRate returns the fraction of accesses that faulted.
func (s Stats) FaultRate() float64 {
	if s.Accesses == 0 {
		return 0
	}

	return float64(s.Faults) / float64(s.Accesses)
}

// Report prints the statistics in the reporting format of the simulator.
func (s Stats) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Algorithm: %s\n"+
			"Number of frames: %d\n"+
			"Total memory accesses: %d\n"+
			"Total page faults: %d\n"+
			"Total writes to disk: %d\n",
		s.Algorithm, s.NumFrames, s.Accesses, s.Faults, s.WriteBacks)

	return err
}
