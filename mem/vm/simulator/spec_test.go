package simulator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/mem/vm/replacement"
)

var _ = Describe("Spec", func() {
	var spec Spec

	BeforeEach(func() {
		spec = DefaultSpec()
		spec.NumFrames = 4
	})

	It("should accept a FIFO spec", func() {
		Expect(spec.Validate()).To(Succeed())
	})

	It("should reject a missing frame count", func() {
		spec.NumFrames = 0

		Expect(spec.Validate()).To(MatchError(ErrInvalidNumFrames))
	})

	It("should reject a negative frame count", func() {
		spec.NumFrames = -3

		Expect(spec.Validate()).To(MatchError(ErrInvalidNumFrames))
	})

	It("should require a refresh interval for aging", func() {
		spec.Algorithm = replacement.Aging

		Expect(spec.Validate()).To(MatchError(ErrMissingRefresh))

		spec.RefreshInterval = 100
		Expect(spec.Validate()).To(Succeed())
	})

	It("should not require a refresh interval for OPT", func() {
		spec.Algorithm = replacement.OPT

		Expect(spec.Validate()).To(Succeed())
	})

	It("should reject unknown algorithms", func() {
		spec.Algorithm = replacement.Algorithm(42)

		Expect(spec.Validate()).To(MatchError(replacement.ErrUnknownAlgorithm))
	})

	It("should reject oversized pages", func() {
		spec.Log2PageSize = 64

		Expect(spec.Validate()).To(MatchError(ErrInvalidPageSize))
	})
})
