package platform

import (
	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/mem/arbiter"
	"github.com/pocketriscv/memsim/mem/sdram"
	"github.com/pocketriscv/memsim/scanout"
	"github.com/pocketriscv/memsim/sim"
	"github.com/pocketriscv/memsim/sysregs"
)

// Builder can build complete memory subsystems.
type Builder struct {
	engine sim.Engine

	ctrlFreq    sim.Freq
	scanoutFreq sim.Freq
	timing      sdram.Timing

	lineWords    int
	numLines     int
	lineInterval int
	lineConsumer scanout.LineConsumer
}

// MakeBuilder creates a builder with the board defaults: a 100 MHz
// controller, a 25 MHz pixel clock, and a 320x240 16bpp display.
func MakeBuilder() Builder {
	return Builder{
		ctrlFreq:    100 * sim.MHz,
		scanoutFreq: 25 * sim.MHz,
		timing:      sdram.DefaultTiming(),
		lineWords:   160,
		numLines:    240,
	}
}

// WithEngine sets the event engine driving the subsystem.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithControllerFreq sets the controller clock frequency.
func (b Builder) WithControllerFreq(freq sim.Freq) Builder {
	b.ctrlFreq = freq
	return b
}

// WithScanoutFreq sets the pixel-side clock frequency.
func (b Builder) WithScanoutFreq(freq sim.Freq) Builder {
	b.scanoutFreq = freq
	return b
}

// WithTiming sets the SDRAM timing parameters.
func (b Builder) WithTiming(timing sdram.Timing) Builder {
	b.timing = timing
	return b
}

// WithDisplay sets the display geometry: words per line and line count.
func (b Builder) WithDisplay(lineWords, numLines int) Builder {
	b.lineWords = lineWords
	b.numLines = numLines
	return b
}

// WithLineInterval makes the scanout free-running, starting a line fetch
// every n scanout ticks.
func (b Builder) WithLineInterval(n int) Builder {
	b.lineInterval = n
	return b
}

// WithLineConsumer sets the display consumer callback.
func (b Builder) WithLineConsumer(consumer scanout.LineConsumer) Builder {
	b.lineConsumer = consumer
	return b
}

// Build creates and wires the subsystem.
func (b Builder) Build(name string) *System {
	s := &System{}

	s.TickingComponent = sim.NewTickingComponent(
		name, b.engine, b.ctrlFreq, s)

	s.localStore = mem.NewStorage(LocalStoreSize)
	s.charGrid = mem.NewStorage(CharGridSize)
	s.sdramStore = mem.NewStorage(SDRAMWindowSize)

	s.Controller = sdram.MakeBuilder().
		WithFreq(b.ctrlFreq).
		WithTiming(b.timing).
		WithStorage(s.sdramStore).
		Build(name + ".SDRAM")

	s.Arbiter = arbiter.MakeBuilder().
		WithAccessEngine(s.Controller).
		WithNotify(func() {
			if b.engine != nil {
				s.TickLater()
			}
		}).
		Build()

	s.Scanout = scanout.MakeBuilder().
		WithEngine(b.engine).
		WithFreq(b.scanoutFreq).
		WithSlot(s.Arbiter.Slot(mem.SourceScanout)).
		WithLineWords(b.lineWords).
		WithNumLines(b.numLines).
		WithLineInterval(b.lineInterval).
		WithLineConsumer(b.lineConsumer).
		WithFramebufferBases(
			SDRAMWordAddr(FramebufferABase),
			SDRAMWordAddr(FramebufferBBase)).
		Build(name + ".Scanout")

	s.Regs = sysregs.NewFile(
		s.Controller, controllerStatus{s.Controller}, s.Scanout)

	return s
}
