// Package handshake implements the two-phase request/acknowledge contract
// between a request source and the arbiter. A source asserts a request,
// waits for the arbiter to admit it, then polls for the response. The
// protocol makes no assumption about the clock-rate relationship between the
// two sides; admission and completion are explicit events that are safe to
// poll from any cadence.
package handshake

import (
	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/sim"
)

// A Validator checks a request before it is accepted into the slot, so that
// addressing errors surface synchronously to the caller.
type Validator func(req *mem.Request) error

// A Slot is one source's pending-request register. A source owns exactly one
// slot and may have at most one request outstanding in it.
type Slot struct {
	source   mem.Source
	validate Validator
	notify   func()

	pending  sim.Buffer
	admitted *mem.Request
	resp     *mem.Response
}

// NewSlot creates a slot for the given source. The notify callback, if not
// nil, wakes the component that drives arbitration; it is called whenever
// the slot gains a request.
func NewSlot(source mem.Source, validate Validator, notify func()) *Slot {
	return &Slot{
		source:   source,
		validate: validate,
		notify:   notify,
		pending:  sim.NewBuffer(source.String()+".Pending", 1),
	}
}

// Source returns the source this slot belongs to.
func (s *Slot) Source() mem.Source {
	return s.source
}

// Outstanding reports whether a request is anywhere between submission and
// response pick-up.
func (s *Slot) Outstanding() bool {
	return s.pending.Size() > 0 || s.admitted != nil
}

// Submit asserts a request. Phase 1 of the handshake: the request stays
// asserted until the arbiter admits it. Submitting while a prior request is
// outstanding is a contract violation and is rejected.
func (s *Slot) Submit(req *mem.Request) error {
	if s.Outstanding() {
		return &mem.ProtocolMisuseError{
			Source: s.source,
			Reason: "submitted a request while one is outstanding",
		}
	}

	req.Source = s.source

	if s.validate != nil {
		if err := s.validate(req); err != nil {
			return err
		}
	}

	s.resp = nil
	s.pending.Push(req)

	if s.notify != nil {
		s.notify()
	}

	return nil
}

// Admitted reports whether the asserted request has been admitted. The
// answer is idempotent to poll.
func (s *Slot) Admitted() bool {
	return s.admitted != nil
}

// Poll returns the response when the admitted request has completed, or nil.
// Phase 2 of the handshake: picking up the response frees the slot for the
// next request.
func (s *Slot) Poll() *mem.Response {
	if s.resp == nil {
		return nil
	}

	resp := s.resp
	s.resp = nil
	s.admitted = nil

	return resp
}

// Peek returns the asserted, not-yet-admitted request. Arbiter side.
func (s *Slot) Peek() *mem.Request {
	req, _ := s.pending.Peek().(*mem.Request)
	return req
}

// Admit moves the asserted request out of the pending register. Arbiter
// side; the source may not replace the slot content until the response is
// picked up.
func (s *Slot) Admit() *mem.Request {
	req := s.pending.Pop().(*mem.Request)
	s.admitted = req

	return req
}

// Complete stores the response for the source to pick up. Arbiter side.
func (s *Slot) Complete(resp *mem.Response) {
	s.resp = resp
}
