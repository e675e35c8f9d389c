package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Algorithm", func() {
	DescribeTable("parsing names case-insensitively",
		func(name string, expected Algorithm) {
			alg, err := ParseAlgorithm(name)

			Expect(err).NotTo(HaveOccurred())
			Expect(alg).To(Equal(expected))
		},
		Entry("fifo", "fifo", FIFO),
		Entry("FIFO", "FIFO", FIFO),
		Entry("opt", "opt", OPT),
		Entry("Optimal", "Optimal", OPT),
		Entry("aging", "aging", Aging),
		Entry("AgInG", "AgInG", Aging),
	)

	It("should reject unknown names", func() {
		_, err := ParseAlgorithm("lru")

		Expect(err).To(MatchError(ErrUnknownAlgorithm))
	})

	It("should print reported names", func() {
		Expect(FIFO.String()).To(Equal("FIFO"))
		Expect(OPT.String()).To(Equal("OPT"))
		Expect(Aging.String()).To(Equal("AGING"))
	})

	It("should build the matching victim finder", func() {
		index := NewFutureAccessIndex()

		Expect(NewVictimFinder(FIFO, nil, 0)).
			To(BeAssignableToTypeOf(&FIFOVictimFinder{}))
		Expect(NewVictimFinder(OPT, index, 0)).
			To(BeAssignableToTypeOf(&OptimalVictimFinder{}))
		Expect(NewVictimFinder(Aging, nil, 10)).
			To(BeAssignableToTypeOf(&AgingVictimFinder{}))
	})

	It("should only make aging an access tracker", func() {
		_, ok := NewVictimFinder(FIFO, nil, 0).(AccessTracker)
		Expect(ok).To(BeFalse())

		_, ok = NewVictimFinder(Aging, nil, 10).(AccessTracker)
		Expect(ok).To(BeTrue())
	})
})
