package scanout

import (
	"github.com/pocketriscv/memsim/mem/handshake"
	"github.com/pocketriscv/memsim/sim"
)

// Builder can build scanout fetchers.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	slot   *handshake.Slot

	lineWords    int
	numLines     int
	lineInterval int
	fbBaseA      uint64
	fbBaseB      uint64
	consumer     LineConsumer
}

// MakeBuilder creates a builder with the 320x240 16bpp display defaults:
// 160 words per line (one word per pair of pixels), 240 lines.
func MakeBuilder() Builder {
	return Builder{
		freq:      25 * sim.MHz,
		lineWords: 160,
		numLines:  240,
	}
}

// WithEngine sets the event engine that drives the fetcher.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the pixel-side clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithSlot sets the handshake slot the fetcher submits through.
func (b Builder) WithSlot(slot *handshake.Slot) Builder {
	b.slot = slot
	return b
}

// WithLineWords sets the burst length of one line fetch.
func (b Builder) WithLineWords(n int) Builder {
	b.lineWords = n
	return b
}

// WithNumLines sets the number of display lines per frame.
func (b Builder) WithNumLines(n int) Builder {
	b.numLines = n
	return b
}

// WithLineInterval makes the fetcher free-running: a new line fetch starts
// every n of its own ticks. The interval must exceed the worst-case burst
// completion latency. Without this option lines are started explicitly with
// StartLine.
func (b Builder) WithLineInterval(n int) Builder {
	b.lineInterval = n
	return b
}

// WithFramebufferBases sets the word addresses of the two framebuffers.
func (b Builder) WithFramebufferBases(a, bAddr uint64) Builder {
	b.fbBaseA = a
	b.fbBaseB = bAddr
	return b
}

// WithLineConsumer sets the callback notified when a line becomes visible.
func (b Builder) WithLineConsumer(consumer LineConsumer) Builder {
	b.consumer = consumer
	return b
}

// Build creates the fetcher.
func (b Builder) Build(name string) *Fetcher {
	f := &Fetcher{}

	f.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, f)

	f.slot = b.slot
	f.lineWords = b.lineWords
	f.numLines = b.numLines
	f.lineInterval = b.lineInterval
	f.fbBases = [2]uint64{b.fbBaseA, b.fbBaseB}
	f.consumer = b.consumer

	f.buffers[0] = make([]uint32, b.lineWords)
	f.buffers[1] = make([]uint32, b.lineWords)

	return f
}
