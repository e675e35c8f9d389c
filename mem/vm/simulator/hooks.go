package simulator

import (
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/sim"
)

// Hook positions triggered while an access is processed.
var (
	// HookPosPageHit is triggered when the page of an access is resident.
	// The item is an AccessEvent.
	HookPosPageHit = &sim.HookPos{Name: "PageHit"}

	// HookPosPageFault is triggered after a faulting page is swapped in. The
	// item is an AccessEvent and the detail is the vm.Eviction of the frame.
	HookPosPageFault = &sim.HookPos{Name: "PageFault"}

	// HookPosPageEvict is triggered when a fault pushes a resident page out.
	// The item is an EvictionEvent.
	HookPosPageEvict = &sim.HookPos{Name: "PageEvict"}
)

// AccessEvent describes one processed access.
type AccessEvent struct {
	Position uint64
	Access   vm.Access
	VPN      uint64
	Frame    int
}

// EvictionEvent describes a page leaving its frame.
type EvictionEvent struct {
	Position  uint64
	Frame     int
	VPN       uint64
	WroteBack bool
}
