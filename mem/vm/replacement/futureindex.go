package replacement

import (
	"fmt"
	"math"

	"github.com/sarchlab/vmsim/mem/vm"
)

// Infinity is the position of the next access to a page that is never
// accessed again.
const Infinity = uint64(math.MaxUint64)

// A FutureAccessIndex lists, for every page, the trace positions at which
// the page is still to be accessed, in ascending order.
type FutureAccessIndex struct {
	positions map[uint64][]uint64
	remaining int
}

// NewFutureAccessIndex creates an empty index.
func NewFutureAccessIndex() *FutureAccessIndex {
	return &FutureAccessIndex{
		positions: make(map[uint64][]uint64),
	}
}

// BuildFutureAccessIndex indexes every access of the trace.
func BuildFutureAccessIndex(
	accesses []vm.Access,
	log2PageSize uint64,
) *FutureAccessIndex {
	index := NewFutureAccessIndex()

	for i, access := range accesses {
		index.Append(access.VAddr>>log2PageSize, uint64(i))
	}

	return index
}

// Append records that the page is accessed at the given position. Positions
// of a page must be appended in ascending order.
func (x *FutureAccessIndex) Append(vpn, position uint64) {
	queue := x.positions[vpn]

	if n := len(queue); n > 0 && queue[n-1] >= position {
		panic(fmt.Sprintf(
			"position %d of page 0x%x is not after %d",
			position, vpn, queue[n-1]))
	}

	x.positions[vpn] = append(queue, position)
	x.remaining++
}

// Peek returns the next position at which the page is accessed, or Infinity
// if the page is not accessed again.
func (x *FutureAccessIndex) Peek(vpn uint64) uint64 {
	queue := x.positions[vpn]
	if len(queue) == 0 {
		return Infinity
	}

	return queue[0]
}

// Consume drops the next position of the page. It should be called once for
// every processed access to the page.
func (x *FutureAccessIndex) Consume(vpn uint64) {
	queue, found := x.positions[vpn]
	if !found {
		return
	}

	if len(queue) <= 1 {
		delete(x.positions, vpn)
	} else {
		x.positions[vpn] = queue[1:]
	}

	x.remaining--
}

// Remaining returns the number of positions not consumed yet, over all pages.
func (x *FutureAccessIndex) Remaining() int {
	return x.remaining
}

// NumPages returns the number of pages that are still to be accessed.
func (x *FutureAccessIndex) NumPages() int {
	return len(x.positions)
}
