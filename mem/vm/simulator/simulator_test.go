package simulator

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
	"github.com/sarchlab/vmsim/sim"
)

func load(page uint64) vm.Access {
	return vm.Access{Mode: vm.Load, VAddr: page << 12, Cycles: 1}
}

func store(page uint64) vm.Access {
	return vm.Access{Mode: vm.Store, VAddr: page << 12, Cycles: 1}
}

func loads(pages ...uint64) []vm.Access {
	accesses := make([]vm.Access, 0, len(pages))
	for _, p := range pages {
		accesses = append(accesses, load(p))
	}

	return accesses
}

func randomTrace(seed int64, length int, numPages int) []vm.Access {
	r := rand.New(rand.NewSource(seed))
	accesses := make([]vm.Access, 0, length)

	for i := 0; i < length; i++ {
		page := uint64(r.Intn(numPages))
		access := vm.Access{
			Mode:   vm.Load,
			VAddr:  page<<12 | uint64(r.Intn(4096)),
			Cycles: uint64(r.Intn(5)),
		}

		if r.Intn(3) == 0 {
			access.Mode = vm.Store
		}

		accesses = append(accesses, access)
	}

	return accesses
}

func simulate(
	alg replacement.Algorithm,
	numFrames int,
	accesses []vm.Access,
) Stats {
	return MakeBuilder().
		WithAlgorithm(alg).
		WithNumFrames(numFrames).
		WithRefreshInterval(4).
		WithAccesses(accesses).
		Build("Sim").
		Run()
}

var classicReferenceString = []uint64{
	7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2, 1, 2, 0, 1, 7, 0, 1,
}

var beladyReferenceString = []uint64{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5}

var allAlgorithms = []replacement.Algorithm{
	replacement.FIFO, replacement.OPT, replacement.Aging,
}

var _ = Describe("Simulator", func() {
	It("should reproduce the FIFO worked example", func() {
		accesses := []vm.Access{
			{Mode: vm.Load, VAddr: 0x0000, Cycles: 1},
			{Mode: vm.Load, VAddr: 0x1000, Cycles: 1},
			{Mode: vm.Load, VAddr: 0x2000, Cycles: 1},
			{Mode: vm.Load, VAddr: 0x0000, Cycles: 1},
		}

		stats := simulate(replacement.FIFO, 2, accesses)

		Expect(stats).To(Equal(Stats{
			Algorithm:  "FIFO",
			NumFrames:  2,
			Accesses:   4,
			Hits:       0,
			Faults:     4,
			WriteBacks: 0,
		}))
	})

	It("should count every access as either a hit or a fault", func() {
		accesses := randomTrace(1, 2000, 24)

		for _, alg := range allAlgorithms {
			for numFrames := 1; numFrames <= 16; numFrames *= 2 {
				stats := simulate(alg, numFrames, accesses)

				Expect(stats.Accesses).To(Equal(uint64(len(accesses))))
				Expect(stats.Hits + stats.Faults).To(Equal(stats.Accesses))
			}
		}
	})

	It("should only take cold misses when the working set fits", func() {
		pages := []uint64{}
		for round := 0; round < 4; round++ {
			pages = append(pages, 1, 2, 3)
		}

		for _, alg := range allAlgorithms {
			stats := simulate(alg, 3, loads(pages...))

			Expect(stats.Faults).To(Equal(uint64(3)), alg.String())
			Expect(stats.Hits).To(Equal(uint64(9)), alg.String())
		}
	})

	It("should match the known fault counts of a classic reference string", func() {
		accesses := loads(classicReferenceString...)

		Expect(simulate(replacement.FIFO, 3, accesses).Faults).
			To(Equal(uint64(15)))
		Expect(simulate(replacement.OPT, 3, accesses).Faults).
			To(Equal(uint64(9)))
		Expect(simulate(replacement.Aging, 3, accesses).Faults).
			To(Equal(uint64(14)))
	})

	It("should show Belady's anomaly under FIFO but not under OPT", func() {
		accesses := loads(beladyReferenceString...)

		Expect(simulate(replacement.FIFO, 3, accesses).Faults).
			To(Equal(uint64(9)))
		Expect(simulate(replacement.FIFO, 4, accesses).Faults).
			To(Equal(uint64(10)))
		Expect(simulate(replacement.OPT, 3, accesses).Faults).
			To(Equal(uint64(7)))
		Expect(simulate(replacement.OPT, 4, accesses).Faults).
			To(Equal(uint64(6)))
	})

	It("should never fault more under OPT than under other policies", func() {
		for seed := int64(1); seed <= 5; seed++ {
			accesses := randomTrace(seed, 1000, 16)

			for numFrames := 1; numFrames <= 12; numFrames++ {
				opt := simulate(replacement.OPT, numFrames, accesses)
				fifo := simulate(replacement.FIFO, numFrames, accesses)
				aging := simulate(replacement.Aging, numFrames, accesses)

				Expect(opt.Faults).To(BeNumerically("<=", fifo.Faults))
				Expect(opt.Faults).To(BeNumerically("<=", aging.Faults))
			}
		}
	})

	It("should not fault more under OPT when frames are added", func() {
		accesses := randomTrace(7, 3000, 32)

		previous := simulate(replacement.OPT, 1, accesses).Faults
		for numFrames := 2; numFrames <= 40; numFrames++ {
			faults := simulate(replacement.OPT, numFrames, accesses).Faults

			Expect(faults).To(BeNumerically("<=", previous))
			previous = faults
		}
	})

	It("should write back dirty pages when they are evicted", func() {
		accesses := []vm.Access{store(1), load(2), load(3), load(1)}

		stats := simulate(replacement.FIFO, 2, accesses)

		Expect(stats.Faults).To(Equal(uint64(4)))
		Expect(stats.WriteBacks).To(Equal(uint64(1)))
	})

	It("should mark a page dirty on a store hit", func() {
		accesses := []vm.Access{load(1), store(1), load(2), load(3)}

		stats := simulate(replacement.FIFO, 2, accesses)

		Expect(stats.Hits).To(Equal(uint64(1)))
		Expect(stats.WriteBacks).To(Equal(uint64(1)))
	})

	It("should consume the whole future access index", func() {
		accesses := randomTrace(3, 500, 10)
		comp := MakeBuilder().
			WithAlgorithm(replacement.OPT).
			WithNumFrames(4).
			WithAccesses(accesses).
			Build("Sim")

		Expect(comp.FutureAccessIndex().Remaining()).To(Equal(len(accesses)))

		comp.Run()

		Expect(comp.FutureAccessIndex().Remaining()).To(Equal(0))
	})

	It("should keep present pages and frames bound one to one", func() {
		accesses := randomTrace(11, 800, 12)
		comp := MakeBuilder().
			WithAlgorithm(replacement.Aging).
			WithRefreshInterval(6).
			WithNumFrames(5).
			WithAccesses(accesses).
			Build("Sim")

		for comp.Step() {
			frames := comp.Frames()
			numPresent := 0

			for vpn := uint64(0); vpn < 12; vpn++ {
				pte, found := comp.PageTable().Find(vpn)
				if !found || !pte.Present {
					continue
				}

				numPresent++
				Expect(frames.Frame(pte.Frame).PTE).To(BeIdenticalTo(pte))
				Expect(frames.Frame(pte.Frame).VPN).To(Equal(vpn))
			}

			Expect(numPresent).To(Equal(frames.NumOccupied()))
		}
	})

	Context("with aging", func() {
		var comp *Comp

		build := func(accesses []vm.Access) {
			comp = MakeBuilder().
				WithAlgorithm(replacement.Aging).
				WithRefreshInterval(1000).
				WithNumFrames(2).
				WithAccesses(accesses).
				Build("Sim")
		}

		It("should evict a clean page before a dirty one", func() {
			build([]vm.Access{store(5), load(3), load(1)})

			comp.Run()

			Expect(comp.Frames().Frame(0).VPN).To(Equal(uint64(5)))
			Expect(comp.Frames().Frame(1).VPN).To(Equal(uint64(1)))
		})

		It("should evict the smaller page number on a full tie", func() {
			build(loads(7, 2, 1))

			comp.Run()

			Expect(comp.Frames().Frame(0).VPN).To(Equal(uint64(7)))
			Expect(comp.Frames().Frame(1).VPN).To(Equal(uint64(1)))
		})

		It("should load pages with a fresh history and mark hits", func() {
			build(loads(4, 4))

			comp.Step()
			pte, _ := comp.PageTable().Find(4)
			Expect(pte.AgingCounter).To(Equal(uint8(0x80)))
			Expect(pte.ReferenceBit).To(BeFalse())

			comp.Step()
			Expect(pte.ReferenceBit).To(BeTrue())
		})
	})

	Context("with a mocked victim finder", func() {
		var (
			mockCtrl     *gomock.Controller
			victimFinder *MockVictimFinder
			hook         *MockHook
			comp         *Comp
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			victimFinder = NewMockVictimFinder(mockCtrl)
			hook = NewMockHook(mockCtrl)

			comp = MakeBuilder().
				WithNumFrames(1).
				WithVictimFinder(victimFinder).
				WithAccesses([]vm.Access{load(1), store(2), load(2), load(1)}).
				Build("Sim")
			comp.AcceptHook(hook)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should fill empty frames without asking the policy", func() {
			hook.EXPECT().Func(gomock.Any())

			Expect(comp.Step()).To(BeTrue())
		})

		It("should ask the policy once the frames are full", func() {
			positions := []*sim.HookPos{}
			hook.EXPECT().Func(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Domain).To(BeIdenticalTo(comp))
					positions = append(positions, ctx.Pos)
				}).
				AnyTimes()
			victimFinder.EXPECT().FindVictim(comp.Frames()).Return(0).Times(2)
			victimFinder.EXPECT().Name().Return("MOCK")

			stats := comp.Run()

			Expect(positions).To(Equal([]*sim.HookPos{
				HookPosPageFault,
				HookPosPageEvict, HookPosPageFault,
				HookPosPageHit,
				HookPosPageEvict, HookPosPageFault,
			}))
			Expect(stats).To(Equal(Stats{
				Algorithm:  "MOCK",
				NumFrames:  1,
				Accesses:   4,
				Hits:       1,
				Faults:     3,
				WriteBacks: 1,
			}))
		})

		It("should report the evicted page", func() {
			var evicted EvictionEvent
			var eviction vm.Eviction

			hook.EXPECT().Func(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					switch ctx.Pos {
					case HookPosPageEvict:
						evicted = ctx.Item.(EvictionEvent)
					case HookPosPageFault:
						eviction = ctx.Detail.(vm.Eviction)
					}
				}).
				Times(3)
			victimFinder.EXPECT().FindVictim(gomock.Any()).Return(0)

			comp.Step()
			comp.Step()

			Expect(evicted).To(Equal(EvictionEvent{Position: 1, Frame: 0, VPN: 1}))
			Expect(eviction).To(Equal(vm.Eviction{Evicted: true, VPN: 1}))
		})
	})

	It("should stop stepping at the end of the trace", func() {
		comp := MakeBuilder().
			WithNumFrames(1).
			WithAccesses(loads(1)).
			Build("Sim")

		Expect(comp.Step()).To(BeTrue())
		Expect(comp.Step()).To(BeFalse())
		Expect(comp.Done()).To(BeTrue())
		Expect(comp.Run().Accesses).To(Equal(uint64(1)))
	})

	It("should panic when built from an invalid spec", func() {
		Expect(func() { MakeBuilder().Build("Sim") }).To(Panic())
	})
})
