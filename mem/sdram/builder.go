package sdram

import (
	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/mem/sdram/internal/addressmapping"
	"github.com/pocketriscv/memsim/sim"
)

// Builder can build SDRAM controllers.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	timing  Timing
	storage *mem.Storage

	numBanks   int
	numRows    int
	numColumns int
}

// MakeBuilder creates a builder with the default configuration, a 32 MB x16
// part behind a 100 MHz controller.
func MakeBuilder() Builder {
	return Builder{
		freq:       100 * sim.MHz,
		timing:     DefaultTiming(),
		numBanks:   4,
		numRows:    8192,
		numColumns: 512,
	}
}

// WithEngine sets the event engine that drives the controller. A controller
// built without an engine can still be ticked directly.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the controller clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTiming sets the timing parameters.
func (b Builder) WithTiming(timing Timing) Builder {
	b.timing = timing
	return b
}

// WithStorage sets the backing storage. Without this option the builder
// allocates a private 32 MB storage.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// WithOrganization sets the bank/row/column organization of the device.
func (b Builder) WithOrganization(banks, rows, columns int) Builder {
	b.numBanks = banks
	b.numRows = rows
	b.numColumns = columns

	return b
}

// Build creates the controller in its power-up state.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.timing = b.timing
	c.storage = b.storage
	if c.storage == nil {
		c.storage = mem.NewStorage(32 * mem.MB)
	}

	c.mapper = addressmapping.MakeBuilder().
		WithNumBanks(b.numBanks).
		WithNumRows(b.numRows).
		WithNumColumns(b.numColumns).
		Build()

	c.refresh = refreshScheduler{interval: b.timing.TREFI}

	c.state = StatePoweringUp
	c.hold = b.timing.PowerUpCycles

	return c
}
