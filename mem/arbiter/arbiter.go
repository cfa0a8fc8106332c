// Package arbiter multiplexes the three request sources onto the single
// admitted-request slot of the SDRAM controller.
package arbiter

import (
	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/mem/handshake"
	"github.com/pocketriscv/memsim/mem/sdram"
)

// An AccessEngine is the downstream the arbiter feeds. It is the subset of
// the SDRAM controller the arbiter needs.
type AccessEngine interface {
	CanAccept(req *mem.Request) bool
	Submit(req *mem.Request) (*sdram.Access, error)
	Poll(a *sdram.Access) *mem.Response
	ValidateAddress(req *mem.Request) error
}

// An Arbiter admits at most one request system-wide to the controller, in
// fixed Loader > Processor > Scanout priority. There is no fairness rotation;
// the loader and the scanout only issue bounded bursts, so strict priority
// cannot starve anyone indefinitely.
type Arbiter struct {
	engine AccessEngine
	slots  [mem.NumSources]*handshake.Slot

	admittedSlot   *handshake.Slot
	admittedAccess *sdram.Access
}

// Builder can build arbiters.
type Builder struct {
	engine AccessEngine
	notify func()
}

// MakeBuilder creates an arbiter builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithAccessEngine sets the controller the arbiter feeds.
func (b Builder) WithAccessEngine(engine AccessEngine) Builder {
	b.engine = engine
	return b
}

// WithNotify sets the callback invoked when any slot gains a request. The
// component that drives arbitration uses it to resume ticking.
func (b Builder) WithNotify(notify func()) Builder {
	b.notify = notify
	return b
}

// Build creates the arbiter and one handshake slot per source.
func (b Builder) Build() *Arbiter {
	a := &Arbiter{engine: b.engine}

	for src := mem.Source(0); src < mem.NumSources; src++ {
		a.slots[src] = handshake.NewSlot(
			src, b.engine.ValidateAddress, b.notify)
	}

	return a
}

// Slot returns the handshake slot owned by the given source.
func (a *Arbiter) Slot(src mem.Source) *handshake.Slot {
	return a.slots[src]
}

// Busy reports whether a request is admitted and not yet completed.
func (a *Arbiter) Busy() bool {
	return a.admittedSlot != nil
}

// Pending reports whether any source is waiting for admission.
func (a *Arbiter) Pending() bool {
	for _, s := range a.slots {
		if s.Peek() != nil {
			return true
		}
	}

	return false
}

// Tick completes a finished request and admits the next one. It must run
// once per controller cycle, before the controller's own tick, so that an
// admission is visible to the controller in the same cycle.
func (a *Arbiter) Tick() bool {
	madeProgress := a.complete()
	madeProgress = a.admit() || madeProgress

	return madeProgress
}

func (a *Arbiter) complete() bool {
	if a.admittedSlot == nil {
		return false
	}

	resp := a.engine.Poll(a.admittedAccess)
	if resp == nil {
		return false
	}

	a.admittedSlot.Complete(resp)
	a.admittedSlot = nil
	a.admittedAccess = nil

	return true
}

func (a *Arbiter) admit() bool {
	if a.admittedSlot != nil {
		return false
	}

	// Scan in fixed priority order; the slot index is the priority. When
	// the winner cannot be admitted this cycle, no lower-priority request
	// may slip in front of it.
	for _, slot := range a.slots {
		req := slot.Peek()
		if req == nil {
			continue
		}

		if !a.engine.CanAccept(req) {
			return false
		}

		access, err := a.engine.Submit(req)
		if err != nil {
			// Addressing is validated at slot submission, so a rejection
			// here is a contract violation between arbiter and controller.
			panic(err)
		}

		slot.Admit()
		a.admittedSlot = slot
		a.admittedAccess = access

		return true
	}

	return false
}
