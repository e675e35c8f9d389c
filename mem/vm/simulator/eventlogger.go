package simulator

import (
	"log"

	"github.com/sarchlab/vmsim/sim"
)

// EventLogger is a hook that prints every hit, fault and eviction.
type EventLogger struct {
	sim.LogHookBase
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func writes the event into the logger.
func (h *EventLogger) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosPageHit:
		evt := ctx.Item.(AccessEvent)
		h.Printf("%5d: page hit   %s 0x%08x page 0x%x frame %d",
			evt.Position, evt.Access.Mode, evt.Access.VAddr, evt.VPN, evt.Frame)
	case HookPosPageFault:
		evt := ctx.Item.(AccessEvent)
		h.Printf("%5d: page fault %s 0x%08x page 0x%x frame %d",
			evt.Position, evt.Access.Mode, evt.Access.VAddr, evt.VPN, evt.Frame)
	case HookPosPageEvict:
		evt := ctx.Item.(EvictionEvent)
		if evt.WroteBack {
			h.Printf("%5d: evict dirty page 0x%x from frame %d",
				evt.Position, evt.VPN, evt.Frame)
		} else {
			h.Printf("%5d: evict clean page 0x%x from frame %d",
				evt.Position, evt.VPN, evt.Frame)
		}
	}
}
