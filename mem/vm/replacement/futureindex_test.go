package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/mem/vm"
)

var _ = Describe("FutureAccessIndex", func() {
	var accesses []vm.Access

	BeforeEach(func() {
		accesses = []vm.Access{
			{Mode: vm.Load, VAddr: 0x0000, Cycles: 1},
			{Mode: vm.Load, VAddr: 0x1000, Cycles: 1},
			{Mode: vm.Store, VAddr: 0x0010, Cycles: 1},
			{Mode: vm.Load, VAddr: 0x2000, Cycles: 1},
			{Mode: vm.Load, VAddr: 0x0fff, Cycles: 1},
		}
	})

	It("should hold one position per access", func() {
		index := BuildFutureAccessIndex(accesses, 12)

		Expect(index.Remaining()).To(Equal(len(accesses)))
		Expect(index.NumPages()).To(Equal(3))
	})

	It("should peek the smallest remaining position", func() {
		index := BuildFutureAccessIndex(accesses, 12)

		Expect(index.Peek(0)).To(Equal(uint64(0)))
		Expect(index.Peek(1)).To(Equal(uint64(1)))
		Expect(index.Peek(2)).To(Equal(uint64(3)))
	})

	It("should consume positions in order", func() {
		index := BuildFutureAccessIndex(accesses, 12)

		index.Consume(0)
		Expect(index.Peek(0)).To(Equal(uint64(2)))

		index.Consume(0)
		Expect(index.Peek(0)).To(Equal(uint64(4)))

		index.Consume(0)
		Expect(index.Peek(0)).To(Equal(Infinity))
		Expect(index.Remaining()).To(Equal(2))
		Expect(index.NumPages()).To(Equal(2))
	})

	It("should ignore consuming an exhausted page", func() {
		index := BuildFutureAccessIndex(accesses, 12)

		index.Consume(1)
		index.Consume(1)

		Expect(index.Peek(1)).To(Equal(Infinity))
		Expect(index.Remaining()).To(Equal(4))
	})

	It("should report infinity for unknown pages", func() {
		index := NewFutureAccessIndex()

		Expect(index.Peek(42)).To(Equal(Infinity))
	})

	It("should reject positions out of order", func() {
		index := NewFutureAccessIndex()
		index.Append(1, 5)

		Expect(func() { index.Append(1, 5) }).To(Panic())
		Expect(func() { index.Append(1, 3) }).To(Panic())
	})
})
