package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/mem/vm"
)

var _ = Describe("OptimalVictimFinder", func() {
	var (
		pt     vm.PageTable
		frames *vm.FrameTable
		index  *FutureAccessIndex
		finder *OptimalVictimFinder
	)

	BeforeEach(func() {
		pt = vm.NewPageTable(12)
		frames = vm.NewFrameTable(3)
		fillFrames(pt, frames, 1, 2, 3)
		index = NewFutureAccessIndex()
		finder = NewOptimalVictimFinder(index)
	})

	It("should panic without an index", func() {
		Expect(func() { NewOptimalVictimFinder(nil) }).To(Panic())
	})

	It("should evict the page used farthest in the future", func() {
		index.Append(1, 10)
		index.Append(2, 30)
		index.Append(3, 20)

		Expect(finder.FindVictim(frames)).To(Equal(1))
	})

	It("should evict a page that is never used again", func() {
		index.Append(1, 10)
		index.Append(3, 20)

		Expect(finder.FindVictim(frames)).To(Equal(1))
	})

	It("should pick the first of several pages never used again", func() {
		index.Append(2, 10)

		Expect(finder.FindVictim(frames)).To(Equal(0))
	})

	It("should only consider remaining accesses", func() {
		index.Append(1, 10)
		index.Append(1, 50)
		index.Append(2, 30)
		index.Append(3, 20)
		index.Consume(1)

		Expect(finder.FindVictim(frames)).To(Equal(0))
	})
})
