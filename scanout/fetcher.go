// Package scanout implements the display readout path. For every display
// line the fetcher issues one burst read covering the line's backing range,
// stages the result in the inactive half of a double line buffer, and only
// then exposes the line to the display consumer.
package scanout

import (
	"github.com/pocketriscv/memsim/mem"
	"github.com/pocketriscv/memsim/mem/handshake"
	"github.com/pocketriscv/memsim/sim"
)

// A LineConsumer is notified when a fetched line becomes visible.
type LineConsumer func(line int, data []uint32)

// Fetcher issues one burst read per display line through its handshake slot.
// It ticks at its own rate, independent of the controller clock.
type Fetcher struct {
	*sim.TickingComponent

	slot *handshake.Slot

	lineWords    int
	numLines     int
	lineInterval int
	fbBases      [2]uint64

	active      int
	pendingSwap bool

	buffers  [2][]uint32
	front    int
	line     int
	fetching bool
	started  bool
	consumer LineConsumer

	cadence    int
	frameCount uint64
}

// Front returns the line buffer half the display consumer may read. The
// other half is the one being written.
func (f *Fetcher) Front() []uint32 {
	return f.buffers[f.front]
}

// ActiveFramebuffer returns the index of the framebuffer currently scanned.
func (f *Fetcher) ActiveFramebuffer() int {
	return f.active
}

// FrameCount returns the number of completed frames.
func (f *Fetcher) FrameCount() uint64 {
	return f.frameCount
}

// RequestSwap asks the fetcher to switch its active framebuffer. The swap
// commits at the next line-fetch boundary, never mid-burst.
func (f *Fetcher) RequestSwap() {
	f.pendingSwap = true
}

// SwapPending reports whether a requested swap has not committed yet. This
// is the busy bit the register file exposes.
func (f *Fetcher) SwapPending() bool {
	return f.pendingSwap
}

// StartLine begins fetching the given display line. Starting a line while
// the previous burst is still in flight means the fetch cadence is paced
// faster than the worst-case burst latency; that is a configuration error,
// not a runtime condition to recover from.
func (f *Fetcher) StartLine(line int) error {
	if f.fetching || f.slot.Outstanding() {
		return &mem.ProtocolMisuseError{
			Source: mem.SourceScanout,
			Reason: "line fetch started before the previous burst completed",
		}
	}

	// Line-fetch boundary: the only point where a swap may commit.
	if f.pendingSwap {
		f.active ^= 1
		f.pendingSwap = false
	}

	base := f.fbBases[f.active] + uint64(line)*uint64(f.lineWords)
	req := mem.RequestBuilder{}.
		WithSource(mem.SourceScanout).
		WithKind(mem.AccessBurstRead).
		WithAddress(base).
		WithLength(f.lineWords).
		Build()

	if err := f.slot.Submit(req); err != nil {
		return err
	}

	f.line = line
	f.fetching = true

	return nil
}

// Tick advances the fetcher by one of its own clock cycles. When a cadence
// is configured, a new line fetch starts every lineInterval ticks.
func (f *Fetcher) Tick() bool {
	madeProgress := f.collect()

	if f.lineInterval > 0 {
		f.cadence++
		if f.cadence >= f.lineInterval {
			f.cadence = 0
			if err := f.StartLine(f.nextLine()); err != nil {
				panic(err)
			}
		}
		// With a cadence the fetcher free-runs like the display it feeds.
		madeProgress = true
	}

	return madeProgress
}

func (f *Fetcher) nextLine() int {
	if !f.started {
		return 0
	}

	line := f.line + 1
	if line >= f.numLines {
		line = 0
	}

	return line
}

// collect polls the slot and, on completion, publishes the line by swapping
// the buffer halves. The consumer never sees a partially-filled line.
func (f *Fetcher) collect() bool {
	if !f.fetching {
		return false
	}

	resp := f.slot.Poll()
	if resp == nil {
		return false
	}

	back := f.front ^ 1
	copy(f.buffers[back], resp.Data)
	f.front = back
	f.fetching = false
	f.started = true

	if f.line == f.numLines-1 {
		f.frameCount++
	}

	if f.consumer != nil {
		f.consumer(f.line, f.buffers[f.front])
	}

	return true
}
