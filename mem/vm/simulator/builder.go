package simulator

import (
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
)

// A Builder can build simulator components.
type Builder struct {
	spec         Spec
	accesses     []vm.Access
	victimFinder replacement.VictimFinder
}

// MakeBuilder creates a new builder with the default spec.
func MakeBuilder() Builder {
	return Builder{spec: DefaultSpec()}
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithNumFrames sets the size of the physical frame pool.
func (b Builder) WithNumFrames(n int) Builder {
	b.spec.NumFrames = n
	return b
}

// WithAlgorithm sets the replacement policy.
func (b Builder) WithAlgorithm(alg replacement.Algorithm) Builder {
	b.spec.Algorithm = alg
	return b
}

// WithRefreshInterval sets the number of cycles between two aging shifts.
func (b Builder) WithRefreshInterval(cycles uint64) Builder {
	b.spec.RefreshInterval = cycles
	return b
}

// WithLog2PageSize sets the page size.
func (b Builder) WithLog2PageSize(log2PageSize uint64) Builder {
	b.spec.Log2PageSize = log2PageSize
	return b
}

// WithAccesses sets the trace to simulate.
func (b Builder) WithAccesses(accesses []vm.Access) Builder {
	b.accesses = accesses
	return b
}

// WithVictimFinder replaces the victim finder that the algorithm in the spec
// would create.
func (b Builder) WithVictimFinder(f replacement.VictimFinder) Builder {
	b.victimFinder = f
	return b
}

// Build creates a simulator positioned before the first access. It panics if
// the spec is invalid.
func (b Builder) Build(name string) *Comp {
	err := b.spec.Validate()
	if err != nil {
		panic(err)
	}

	c := &Comp{
		name:      name,
		spec:      b.spec,
		accesses:  b.accesses,
		pageTable: vm.NewPageTable(b.spec.Log2PageSize),
		frames:    vm.NewFrameTable(b.spec.NumFrames),
		index: replacement.BuildFutureAccessIndex(
			b.accesses, b.spec.Log2PageSize),
	}

	b.createVictimFinder(c)

	return c
}

func (b Builder) createVictimFinder(c *Comp) {
	c.victimFinder = b.victimFinder
	if c.victimFinder == nil {
		c.victimFinder = replacement.NewVictimFinder(
			b.spec.Algorithm, c.index, b.spec.RefreshInterval)
	}

	if tracker, ok := c.victimFinder.(replacement.AccessTracker); ok {
		c.accessTracker = tracker
	}
}
