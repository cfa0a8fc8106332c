package sdram

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/sim"
)

// hookRecorder captures the commands and state changes a controller emits.
type hookRecorder struct {
	commands []CommandInfo
	changes  []StateChange
}

func (h *hookRecorder) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosCommandIssue:
		h.commands = append(h.commands, ctx.Item.(CommandInfo))
	case HookPosStateChange:
		h.changes = append(h.changes, ctx.Item.(StateChange))
	}
}

var _ = Describe("Comp", func() {
	var (
		timing  Timing
		storage *mem.Storage
		c       *Comp
		hook    *hookRecorder
	)

	// Warm-up takes the power-up hold plus two refresh durations.
	warmupCycles := func() int {
		return timing.PowerUpCycles + warmupRefreshCount*timing.TRFC
	}

	warmUp := func() {
		for i := 0; i < warmupCycles(); i++ {
			c.Tick()
		}
		Expect(c.State()).To(Equal(StateIdle))
	}

	runAccess := func(req *mem.Request) *mem.Response {
		access, err := c.Submit(req)
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < 10000; i++ {
			c.Tick()
			if resp := c.Poll(access); resp != nil {
				return resp
			}
		}

		Fail("access did not complete")
		return nil
	}

	writeWord := func(addr uint64, v uint32) *mem.Response {
		return runAccess(mem.RequestBuilder{}.
			WithKind(mem.AccessWrite).
			WithAddress(addr).
			WithData([]uint32{v}).
			Build())
	}

	readWord := func(addr uint64) *mem.Response {
		return runAccess(mem.RequestBuilder{}.
			WithKind(mem.AccessRead).
			WithAddress(addr).
			Build())
	}

	BeforeEach(func() {
		timing = Timing{
			PowerUpCycles: 200,
			TRCD:          2,
			TRP:           2,
			TWR:           2,
			TRFC:          7,
			TREFI:         50,
		}
		storage = mem.NewStorage(1 * mem.MB)
		c = MakeBuilder().
			WithTiming(timing).
			WithStorage(storage).
			Build("SDRAM")

		hook = &hookRecorder{}
		c.AcceptHook(hook)
	})

	It("should become idle after the power-up hold and two refreshes", func() {
		for i := 0; i < warmupCycles()-1; i++ {
			c.Tick()
			Expect(c.State()).ToNot(Equal(StateIdle))
		}

		c.Tick()
		Expect(c.State()).To(Equal(StateIdle))
	})

	It("should issue precharge-all then two refreshes during warm-up", func() {
		warmUp()

		Expect(len(hook.commands)).To(BeNumerically(">=", 3))
		Expect(hook.commands[0].Kind).To(Equal("PrechargeAll"))
		Expect(hook.commands[1].Kind).To(Equal("Refresh"))
		Expect(hook.commands[2].Kind).To(Equal("Refresh"))
	})

	It("should reject submissions while powering up", func() {
		req := mem.RequestBuilder{}.WithKind(mem.AccessRead).Build()

		_, err := c.Submit(req)
		Expect(err).To(BeAssignableToTypeOf(&mem.ProtocolMisuseError{}))
	})

	It("should write and read back words", func() {
		warmUp()

		values := []uint32{
			0x00000000,
			0xFFFFFFFF,
			0x0000FFFF,
			0xFFFF0000,
			0xDEADBEEF,
		}
		for i, v := range values {
			addr := uint64(100 + i)
			writeWord(addr, v)

			resp := readWord(addr)
			Expect(resp.Completed).To(BeTrue())
			Expect(resp.Data).To(Equal([]uint32{v}))
		}
	})

	It("should complete a scalar read in the documented cycle count", func() {
		warmUp()

		access, err := c.Submit(mem.RequestBuilder{}.
			WithKind(mem.AccessRead).
			WithAddress(0).
			Build())
		Expect(err).ToNot(HaveOccurred())

		// One admission cycle, the activate hold, two column transfers,
		// the precharge hold.
		latency := 1 + timing.TRCD + halvesPerWord + timing.TRP
		for i := 0; i < latency-1; i++ {
			c.Tick()
			Expect(c.Poll(access)).To(BeNil())
		}

		c.Tick()
		Expect(c.Poll(access)).ToNot(BeNil())
	})

	It("should extend a write by the recovery time", func() {
		warmUp()

		access, err := c.Submit(mem.RequestBuilder{}.
			WithKind(mem.AccessWrite).
			WithAddress(0).
			WithData([]uint32{1}).
			Build())
		Expect(err).ToNot(HaveOccurred())

		latency := 1 + timing.TRCD + halvesPerWord + timing.TRP + timing.TWR
		for i := 0; i < latency-1; i++ {
			c.Tick()
			Expect(c.Poll(access)).To(BeNil())
		}

		c.Tick()
		Expect(c.Poll(access)).ToNot(BeNil())
	})

	It("should serve burst reads", func() {
		warmUp()

		for i := uint64(0); i < 8; i++ {
			Expect(storage.WriteWord(200+i, uint32(0x1000+i))).To(Succeed())
		}

		resp := runAccess(mem.RequestBuilder{}.
			WithKind(mem.AccessBurstRead).
			WithAddress(200).
			WithLength(8).
			Build())

		Expect(resp.Data).To(HaveLen(8))
		for i, v := range resp.Data {
			Expect(v).To(Equal(uint32(0x1000 + i)))
		}
	})

	It("should reject out-of-range addresses without state change", func() {
		warmUp()

		req := mem.RequestBuilder{}.
			WithKind(mem.AccessRead).
			WithAddress(storage.CapacityWords()).
			Build()

		_, err := c.Submit(req)
		Expect(err).To(BeAssignableToTypeOf(&mem.AddressingError{}))
		Expect(c.State()).To(Equal(StateIdle))
	})

	It("should reject accesses running off the end", func() {
		req := mem.RequestBuilder{}.
			WithKind(mem.AccessBurstRead).
			WithAddress(storage.CapacityWords() - 4).
			WithLength(8).
			Build()

		Expect(c.ValidateAddress(req)).
			To(BeAssignableToTypeOf(&mem.AddressingError{}))
	})

	It("should reject writes with missing data", func() {
		warmUp()

		req := mem.RequestBuilder{}.
			WithKind(mem.AccessWrite).
			WithAddress(0).
			WithData([]uint32{1}).
			WithLength(4).
			Build()

		_, err := c.Submit(req)
		Expect(err).To(BeAssignableToTypeOf(&mem.ProtocolMisuseError{}))
	})

	It("should refresh periodically while idle", func() {
		warmUp()

		for i := 0; i < timing.TREFI; i++ {
			c.Tick()
		}

		Expect(c.State()).To(Equal(StateRefreshing))
		Expect(c.Fault()).To(BeNil())

		for i := 0; i < timing.TRFC; i++ {
			c.Tick()
		}
		Expect(c.State()).To(Equal(StateIdle))
	})

	It("should never stretch the gap between refreshes under load", func() {
		warmUp()

		var access *Access
		for i := 0; i < 3000; i++ {
			if access == nil {
				req := mem.RequestBuilder{}.
					WithKind(mem.AccessWrite).
					WithAddress(uint64(i % 64)).
					WithData([]uint32{uint32(i)}).
					Build()
				if c.CanAccept(req) {
					var err error
					access, err = c.Submit(req)
					Expect(err).ToNot(HaveOccurred())
				}
			}

			c.Tick()

			if access != nil && c.Poll(access) != nil {
				access = nil
			}
		}

		Expect(c.Fault()).To(BeNil())

		var entries []uint64
		for _, change := range hook.changes {
			if change.To == StateRefreshing {
				entries = append(entries, change.Cycle)
			}
		}
		Expect(len(entries)).To(BeNumerically(">", 10))

		for i := 1; i < len(entries); i++ {
			gap := entries[i] - entries[i-1]
			Expect(gap).To(BeNumerically(
				"<=", timing.TREFI+timing.TRFC))
		}
	})

	It("should latch the starvation fault exactly past the interval", func() {
		warmUp()
		c.SuppressRefresh()

		for i := 0; i < timing.TREFI; i++ {
			c.Tick()
		}
		Expect(c.Fault()).To(BeNil())

		c.Tick()
		Expect(c.Fault()).
			To(BeAssignableToTypeOf(&mem.RefreshStarvationFault{}))
	})

	It("should halt admission after a fault until reset", func() {
		warmUp()
		c.SuppressRefresh()

		for i := 0; i < timing.TREFI+1; i++ {
			c.Tick()
		}
		Expect(c.Fault()).ToNot(BeNil())

		req := mem.RequestBuilder{}.WithKind(mem.AccessRead).Build()
		Expect(c.CanAccept(req)).To(BeFalse())
		_, err := c.Submit(req)
		Expect(err).To(Equal(c.Fault()))

		c.Reset()
		Expect(c.Fault()).To(BeNil())
		Expect(c.State()).To(Equal(StatePoweringUp))

		warmUp()
	})

	It("should hold back requests that cannot finish before the refresh "+
		"deadline", func() {
		warmUp()

		short := mem.RequestBuilder{}.WithKind(mem.AccessRead).Build()
		long := mem.RequestBuilder{}.
			WithKind(mem.AccessBurstRead).
			WithLength(30).
			Build()

		Expect(c.CanAccept(short)).To(BeTrue())
		Expect(c.CanAccept(long)).To(BeFalse())

		for i := 0; i < 43; i++ {
			c.Tick()
		}
		Expect(c.CanAccept(short)).To(BeFalse())
	})
})
