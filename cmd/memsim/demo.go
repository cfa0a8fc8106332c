package main

import (
	"fmt"
	"log"

	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/platform"
	"github.com/pocketriscv/memsim/simulation"
	"github.com/pocketriscv/memsim/sysregs"
	"github.com/pocketriscv/memsim/tracing"
)

// The controller runs at 100 MHz and the scanout at 25 MHz, so the scanout
// ticks once every four controller cycles.
const scanoutDivider = 4

// Two-pixel fill patterns, RGB565.
const (
	fillGreen = 0x07E007E0
	fillBlue  = 0x001F001F
)

const memTestWords = 1024

// board drives the subsystem clock by clock. The scanout clock is gated
// until the firmware would enable the display, after SDRAM initialization.
type board struct {
	sys       *platform.System
	cycle     uint64
	scanoutOn bool
}

func (b *board) step() error {
	if b.cycle >= flags.maxCycles {
		return fmt.Errorf("cycle budget of %d exhausted", flags.maxCycles)
	}

	b.sys.Tick()
	b.cycle++

	if b.scanoutOn && b.cycle%scanoutDivider == 0 {
		b.sys.Scanout.Tick()
	}

	return nil
}

func runDemo() error {
	simBuilder := simulation.MakeBuilder()
	if flags.traceName != "" {
		simBuilder = simBuilder.WithOutputName(flags.traceName)
	}
	if flags.monitor {
		simBuilder = simBuilder.
			WithMonitoring().
			WithMonitorPort(flags.monitorPort)
	}
	s := simBuilder.Build()
	defer s.Terminate()

	sys := platform.MakeBuilder().
		WithLineInterval(flags.lineInterval).
		Build("Board")
	s.RegisterComponent(sys)
	s.RegisterComponent(sys.Controller)
	s.RegisterComponent(sys.Scanout)

	tracing.Trace(sys.Controller, s.GetDataRecorder())

	b := &board{sys: sys}

	if err := waitReady(b); err != nil {
		return err
	}
	log.Printf("SDRAM ready after %d cycles", b.cycle)

	fbWords := uint64(160 * 240)
	if err := loaderFill(b,
		platform.SDRAMWordAddr(platform.FramebufferABase),
		fbWords, fillGreen); err != nil {
		return err
	}
	if err := loaderFill(b,
		platform.SDRAMWordAddr(platform.FramebufferBBase),
		fbWords, fillBlue); err != nil {
		return err
	}
	log.Printf("framebuffers filled at cycle %d", b.cycle)

	if err := memTest(b); err != nil {
		return err
	}
	log.Printf("memory test passed at cycle %d", b.cycle)

	if err := scanFrames(b); err != nil {
		return err
	}

	report(b)

	return nil
}

// waitReady polls the status register the way the firmware busy-waits on
// the SDRAM ready bit at boot.
func waitReady(b *board) error {
	for {
		status, err := b.sys.Regs.Read(sysregs.RegStatus)
		if err != nil {
			return err
		}
		if status&sysregs.StatusFault != 0 {
			return fmt.Errorf("controller faulted during power-up")
		}
		if status&sysregs.StatusSDRAMReady != 0 {
			return nil
		}

		if err := b.step(); err != nil {
			return err
		}
	}
}

// loaderFill writes a constant pattern over a word range through the loader
// slot, one line-sized burst at a time.
func loaderFill(b *board, baseWord, words uint64, value uint32) error {
	slot := b.sys.Slot(mem.SourceLoader)

	chunk := make([]uint32, 160)
	for i := range chunk {
		chunk[i] = value
	}

	for off := uint64(0); off < words; off += uint64(len(chunk)) {
		req := mem.RequestBuilder{}.
			WithKind(mem.AccessWrite).
			WithAddress(baseWord + off).
			WithData(chunk).
			Build()
		if err := slot.Submit(req); err != nil {
			return err
		}

		for slot.Poll() == nil {
			if err := b.step(); err != nil {
				return err
			}
		}
	}

	return nil
}

// memTest replays the firmware's SDRAM pattern test over the test region:
// write a distinct word per address, read everything back, compare.
func memTest(b *board) error {
	slot := b.sys.Slot(mem.SourceProcessor)

	pattern := func(i uint64) uint32 {
		return uint32(0xA5A50000 | i&0xFFFF)
	}

	for i := uint64(0); i < memTestWords; i++ {
		addr := platform.TestRegionBase + i*mem.WordSize
		done, err := b.sys.CPUWrite(addr, pattern(i))
		if err != nil {
			return err
		}
		for !done && slot.Poll() == nil {
			if err := b.step(); err != nil {
				return err
			}
		}
	}

	for i := uint64(0); i < memTestWords; i++ {
		addr := platform.TestRegionBase + i*mem.WordSize
		_, done, err := b.sys.CPURead(addr)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		var resp *mem.Response
		for resp = slot.Poll(); resp == nil; resp = slot.Poll() {
			if err := b.step(); err != nil {
				return err
			}
		}

		if got := resp.Data[0]; got != pattern(i) {
			return fmt.Errorf(
				"memory test failed at %#x: got %#x, want %#x",
				addr, got, pattern(i))
		}
	}

	return nil
}

// scanFrames enables the display clock and lets the scanout free-run until
// the requested number of frames completed, swapping framebuffers once
// after the first frame.
func scanFrames(b *board) error {
	b.scanoutOn = true

	swapped := false
	for b.sys.Scanout.FrameCount() < flags.frames {
		if !swapped && b.sys.Scanout.FrameCount() >= 1 {
			if err := b.sys.Regs.Write(sysregs.RegFBSwap, 1); err != nil {
				return err
			}
			swapped = true
			log.Printf("framebuffer swap requested at cycle %d", b.cycle)
		}

		if err := b.step(); err != nil {
			return err
		}
	}

	return nil
}

func report(b *board) {
	lo, _ := b.sys.Regs.Read(sysregs.RegCycleLo)
	hi, _ := b.sys.Regs.Read(sysregs.RegCycleHi)
	counter := uint64(hi)<<32 | uint64(lo)

	log.Printf("simulated %d cycles, controller counted %d", b.cycle, counter)
	log.Printf("scanned %d frames, active framebuffer %d",
		b.sys.Scanout.FrameCount(), b.sys.Scanout.ActiveFramebuffer())
}
