package platform

import (
	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/mem/arbiter"
	"github.com/pocketriscv/memsim/mem/handshake"
	"github.com/pocketriscv/memsim/mem/sdram"
	"github.com/pocketriscv/memsim/scanout"
	"github.com/pocketriscv/memsim/sim"
	"github.com/pocketriscv/memsim/sysregs"
)

// A System is the whole memory subsystem. It ticks at the controller clock
// and, on every cycle, first gives the arbiter its admission opportunity and
// then advances the controller.
type System struct {
	*sim.TickingComponent

	localStore *mem.Storage
	charGrid   *mem.Storage
	sdramStore *mem.Storage

	Controller *sdram.Comp
	Arbiter    *arbiter.Arbiter
	Scanout    *scanout.Fetcher
	Regs       *sysregs.File
}

// Tick advances the subsystem by one controller cycle.
func (s *System) Tick() bool {
	madeProgress := s.Arbiter.Tick()
	madeProgress = s.Controller.Tick() || madeProgress

	return madeProgress || s.Arbiter.Pending() || s.Arbiter.Busy()
}

// Slot returns the handshake slot for the given source.
func (s *System) Slot(src mem.Source) *handshake.Slot {
	return s.Arbiter.Slot(src)
}

// SDRAMWordAddr converts a processor byte address inside the SDRAM window
// into the controller's word address space.
func SDRAMWordAddr(addr uint64) uint64 {
	return (addr - SDRAMBase) / mem.WordSize
}

// CPURead routes a word read from the processor. Reads from the local
// regions complete immediately (done is true). A read from the SDRAM window
// is submitted on the processor's handshake slot and completes later; the
// caller observes completion by polling its slot.
func (s *System) CPURead(addr uint64) (value uint32, done bool, err error) {
	if addr%mem.WordSize != 0 {
		return 0, true, &mem.AddressingError{
			Address: addr, Reason: "misaligned word access",
		}
	}

	region, offset := Decode(addr)
	switch region {
	case RegionLocalStore:
		v, err := s.localStore.ReadWord(offset / mem.WordSize)
		return v, true, err

	case RegionCharGrid:
		v, err := s.charGrid.ReadWord(offset / mem.WordSize)
		return v, true, err

	case RegionRegs:
		v, err := s.Regs.Read(offset)
		return v, true, err

	case RegionSDRAM:
		req := mem.RequestBuilder{}.
			WithKind(mem.AccessRead).
			WithAddress(SDRAMWordAddr(addr)).
			Build()

		return 0, false, s.Slot(mem.SourceProcessor).Submit(req)
	}

	return 0, true, &mem.AddressingError{
		Address: addr, Reason: "unmapped address",
	}
}

// CPUWrite routes a word write from the processor, with the same completion
// contract as CPURead.
func (s *System) CPUWrite(addr uint64, v uint32) (done bool, err error) {
	if addr%mem.WordSize != 0 {
		return true, &mem.AddressingError{
			Address: addr, Reason: "misaligned word access",
		}
	}

	region, offset := Decode(addr)
	switch region {
	case RegionLocalStore:
		return true, s.localStore.WriteWord(offset/mem.WordSize, v)

	case RegionCharGrid:
		return true, s.charGrid.WriteWord(offset/mem.WordSize, v)

	case RegionRegs:
		return true, s.Regs.Write(offset, v)

	case RegionSDRAM:
		req := mem.RequestBuilder{}.
			WithKind(mem.AccessWrite).
			WithAddress(SDRAMWordAddr(addr)).
			WithData([]uint32{v}).
			Build()

		return false, s.Slot(mem.SourceProcessor).Submit(req)
	}

	return true, &mem.AddressingError{
		Address: addr, Reason: "unmapped address",
	}
}

// controllerStatus adapts the controller to the register file's view.
type controllerStatus struct {
	ctrl *sdram.Comp
}

func (s controllerStatus) Ready() bool {
	return s.ctrl.Initialized() && s.ctrl.Fault() == nil
}

func (s controllerStatus) Faulted() bool {
	return s.ctrl.Fault() != nil
}
