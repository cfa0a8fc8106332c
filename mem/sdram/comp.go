package sdram

import (
	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/mem/sdram/internal/addressmapping"
	"github.com/pocketriscv/memsim/sim"
)

// HookPosStateChange marks a controller state transition.
var HookPosStateChange = &sim.HookPos{Name: "SDRAM State Change"}

// HookPosCommandIssue marks a command issued on the device bus.
var HookPosCommandIssue = &sim.HookPos{Name: "SDRAM Command Issue"}

// A StateChange is the item attached to HookPosStateChange contexts.
type StateChange struct {
	Cycle uint64
	From  State
	To    State
}

// A CommandInfo is the item attached to HookPosCommandIssue contexts.
type CommandInfo struct {
	Cycle  uint64
	Kind   string
	Bank   uint64
	Row    uint64
	Column uint64
}

// An Access is the pending handle for one admitted request. It carries no
// methods for the submitting side; callers learn about completion only by
// polling the controller.
type Access struct {
	req  *mem.Request
	resp *mem.Response
}

// Request returns the request this access is processing.
func (a *Access) Request() *mem.Request {
	return a.req
}

// Comp is the SDRAM controller. It processes strictly one admitted request
// end to end, and independently injects refresh cycles. Tick must be called
// once per controller clock cycle by the driving loop.
type Comp struct {
	*sim.TickingComponent

	timing  Timing
	storage *mem.Storage
	mapper  addressmapping.Mapper

	state      State
	hold       int
	warmupLeft int
	refresh    refreshScheduler

	current    *Access
	colAddr    uint64
	wordIdx    int
	halfFirst  bool
	stagedHalf uint16
	readWords  []uint32

	cycles uint64
	fault  error
}

// State returns the current controller state.
func (c *Comp) State() State {
	return c.state
}

// CycleCount returns the number of controller cycles elapsed since power-on.
// The controller is the only writer of this counter.
func (c *Comp) CycleCount() uint64 {
	return c.cycles
}

// Fault returns the latched data-integrity fault, if any. Once a fault is
// latched, no more requests are admitted until Reset is called.
func (c *Comp) Fault() error {
	return c.fault
}

// Initialized reports whether the power-up sequence, including the warm-up
// refreshes, has completed.
func (c *Comp) Initialized() bool {
	return c.state != StatePoweringUp && c.warmupLeft == 0
}

// Reset clears a latched fault and restarts the power-up sequence. The
// storage content is not trustworthy after a starvation fault, so the
// controller goes through full initialization again.
func (c *Comp) Reset() {
	c.fault = nil
	c.current = nil
	c.refresh.reset()
	c.enterState(StatePoweringUp)
}

// CanAccept reports whether the controller can take the given request right
// now. Refresh outranks admission, and a request is only admitted when its
// whole access fits before the refresh deadline; otherwise a long burst
// admitted just under the deadline would overrun the interval mid-access.
func (c *Comp) CanAccept(req *mem.Request) bool {
	if c.state != StateIdle || c.current != nil || c.fault != nil {
		return false
	}

	if c.refresh.due() {
		return false
	}

	return c.refresh.counter+c.accessCycles(req) < c.refresh.interval
}

// accessCycles returns the number of cycles the request occupies the
// controller: the admission cycle, the activate and precharge holds, and two
// column transfers per word.
func (c *Comp) accessCycles(req *mem.Request) int {
	cycles := 1 + c.timing.TRCD + halvesPerWord*req.Length + c.timing.TRP
	if req.Kind == mem.AccessWrite {
		cycles += c.timing.TWR
	}

	return cycles
}

// ValidateAddress checks the addressing of a request without admitting it.
func (c *Comp) ValidateAddress(req *mem.Request) error {
	capWords := c.storage.CapacityWords()

	if req.Address >= capWords {
		return &mem.AddressingError{
			Address: req.Address,
			Reason:  "word address beyond storage capacity",
		}
	}

	if req.Address+uint64(req.Length) > capWords {
		return &mem.AddressingError{
			Address: req.Address,
			Reason:  "access runs beyond storage capacity",
		}
	}

	return nil
}

// Submit hands one admitted request to the controller and returns its
// pending handle. The arbiter must not call Submit unless CanAccept is true.
func (c *Comp) Submit(req *mem.Request) (*Access, error) {
	if c.fault != nil {
		return nil, c.fault
	}

	if err := c.ValidateAddress(req); err != nil {
		return nil, err
	}

	if req.Kind == mem.AccessWrite && len(req.Data) < req.Length {
		return nil, &mem.ProtocolMisuseError{
			Source: req.Source,
			Reason: "write data shorter than request length",
		}
	}

	if c.current != nil {
		return nil, &mem.ProtocolMisuseError{
			Source: req.Source,
			Reason: "a request is already admitted",
		}
	}

	if c.state == StatePoweringUp {
		return nil, &mem.ProtocolMisuseError{
			Source: req.Source,
			Reason: "controller is still powering up",
		}
	}

	a := &Access{req: req}
	c.current = a

	return a, nil
}

// Poll returns the response for the given access, or nil if the access has
// not completed its precharge phase yet.
func (c *Comp) Poll(a *Access) *mem.Response {
	return a.resp
}

// SuppressRefresh stops the refresh-due signal from being raised. This is a
// test-only hook for demonstrating the starvation fault; nothing in the
// production path calls it.
func (c *Comp) SuppressRefresh() {
	c.refresh.suppressed = true
}

// Tick advances the controller by one clock cycle.
func (c *Comp) Tick() bool {
	if c.fault != nil {
		return false
	}

	c.cycles++

	if c.state != StateRefreshing && c.state != StatePoweringUp {
		c.refresh.tick()
		if c.refresh.starved() {
			c.fault = &mem.RefreshStarvationFault{
				Counter:  c.refresh.counter,
				Interval: c.refresh.interval,
			}
			return true
		}
	}

	in := c.runPhase()
	next := nextState(c.state, in)

	// A warm-up sequence re-enters Refreshing back to back; the phase must
	// be re-armed even though the state value does not change.
	reentry := c.state == StateRefreshing && in.holdDone && !in.warmupDone
	if next != c.state || reentry {
		c.enterState(next)
	}

	return c.madeProgress()
}

// runPhase performs this cycle's work for the current phase and reports the
// resulting transition inputs.
func (c *Comp) runPhase() fsmInput {
	in := fsmInput{
		refreshDue:     c.refresh.due(),
		requestPending: c.current != nil,
		warmupDone:     true,
	}

	switch c.state {
	case StatePoweringUp, StateActivating, StatePrecharging:
		c.hold--
		in.holdDone = c.hold == 0

	case StateRefreshing:
		c.hold--
		if c.hold == 0 {
			c.refresh.reset()
			if c.warmupLeft > 0 {
				c.warmupLeft--
			}
			in.holdDone = true
			in.warmupDone = c.warmupLeft == 0
		}

	case StateAccessing:
		in.transferDone = c.doTransfer()

	case StateIdle:
		// Nothing to do; transitions depend only on refresh and admission.
	}

	return in
}

func (c *Comp) enterState(next State) {
	prev := c.state
	c.state = next

	switch next {
	case StatePoweringUp:
		c.hold = c.timing.PowerUpCycles

	case StateRefreshing:
		if prev == StatePoweringUp {
			c.issueCommand("PrechargeAll", addressmapping.Location{})
			c.warmupLeft = warmupRefreshCount
		}
		c.hold = c.timing.TRFC
		c.issueCommand("Refresh", addressmapping.Location{})

	case StateActivating:
		c.beginAccess()
		c.hold = c.timing.TRCD
		c.issueCommand("Activate", c.mapper.Map(c.colAddr))

	case StatePrecharging:
		c.hold = c.timing.TRP
		if c.current.req.Kind == mem.AccessWrite {
			// Write recovery extends the time before the row may close.
			c.hold += c.timing.TWR
		}
		c.issueCommand("Precharge", c.mapper.Map(c.colAddr-1))

	case StateIdle:
		if prev == StatePrecharging {
			c.completeAccess()
		}
	}

	if prev != next && c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosStateChange,
			Item:   StateChange{Cycle: c.cycles, From: prev, To: next},
		})
	}
}

// warmupRefreshCount is the number of refresh cycles the initialization
// sequence issues after the precharge-all.
const warmupRefreshCount = 2

func (c *Comp) beginAccess() {
	req := c.current.req

	c.colAddr = req.Address * halvesPerWord
	c.wordIdx = 0
	c.halfFirst = true
	c.readWords = nil

	if req.IsRead() {
		c.readWords = make([]uint32, 0, req.Length)
	}
}

const halvesPerWord = 2

// doTransfer performs one 16-bit column transfer. Both the read and the
// write path move the halves in splitWord order.
func (c *Comp) doTransfer() (done bool) {
	req := c.current.req
	wordAddr := req.Address + uint64(c.wordIdx)

	if req.Kind == mem.AccessWrite {
		first, second := splitWord(req.Data[c.wordIdx])
		if c.halfFirst {
			c.stagedHalf = first
			c.issueCommand("WriteColumn", c.mapper.Map(c.colAddr))
		} else {
			c.issueCommand("WriteColumn", c.mapper.Map(c.colAddr))
			err := c.storage.WriteWord(wordAddr, joinWord(c.stagedHalf, second))
			if err != nil {
				panic(err)
			}
		}
	} else {
		word, err := c.storage.ReadWord(wordAddr)
		if err != nil {
			panic(err)
		}

		first, second := splitWord(word)
		if c.halfFirst {
			c.stagedHalf = first
			c.issueCommand("ReadColumn", c.mapper.Map(c.colAddr))
		} else {
			c.issueCommand("ReadColumn", c.mapper.Map(c.colAddr))
			c.readWords = append(c.readWords, joinWord(c.stagedHalf, second))
		}
	}

	c.colAddr++
	if c.halfFirst {
		c.halfFirst = false
		return false
	}

	c.halfFirst = true
	c.wordIdx++

	return c.wordIdx == req.Length
}

// completeAccess produces the response. The write became visible in the
// storage during the access phase, but no caller can observe it before this
// point because no other request was admitted in between.
func (c *Comp) completeAccess() {
	a := c.current
	c.current = nil

	resp := &mem.Response{
		RequestID: a.req.ID,
		Source:    a.req.Source,
		Completed: true,
	}
	if a.req.IsRead() {
		resp.Data = c.readWords
	}
	c.readWords = nil

	a.resp = resp
}

func (c *Comp) madeProgress() bool {
	return c.state != StateIdle || c.current != nil || c.refresh.due()
}

func (c *Comp) issueCommand(kind string, loc addressmapping.Location) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosCommandIssue,
		Item: CommandInfo{
			Cycle:  c.cycles,
			Kind:   kind,
			Bank:   loc.Bank,
			Row:    loc.Row,
			Column: loc.Column,
		},
	})
}
