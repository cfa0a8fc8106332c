// Package sysregs models the control/status register block at 0x40000000.
// Each register has exactly one writer: the cycle counter belongs to the
// SDRAM controller, the status bits to the controller state, the display
// mode to the processor, and the swap-busy bit to the scanout fetcher.
package sysregs

import (
	"github.com/pocketriscv/memsim/mem"
)

// Register offsets within the block, as used by the firmware.
const (
	RegStatus      = 0x00
	RegCycleLo     = 0x04
	RegCycleHi     = 0x08
	RegDisplayMode = 0x0C
	RegFBSwap      = 0x18
)

// Status register bits.
const (
	StatusSDRAMReady uint32 = 1 << 0
	StatusFault      uint32 = 1 << 1
)

// A CycleSource exposes the free-running cycle counter. The SDRAM controller
// is its single writer; the register file only reads it.
type CycleSource interface {
	CycleCount() uint64
}

// A StatusSource exposes the controller's readiness and fault state.
type StatusSource interface {
	Ready() bool
	Faulted() bool
}

// A SwapTarget receives buffer-swap requests. The scanout fetcher commits
// the swap at its next line-fetch boundary and is the single writer of the
// busy bit.
type SwapTarget interface {
	RequestSwap()
	SwapPending() bool
}

// A File is the register block instance.
type File struct {
	cycles CycleSource
	status StatusSource
	swap   SwapTarget

	displayMode uint32
}

// NewFile creates a register file wired to its owners.
func NewFile(cycles CycleSource, status StatusSource, swap SwapTarget) *File {
	return &File{
		cycles: cycles,
		status: status,
		swap:   swap,
	}
}

// DisplayMode returns the current display-source-select value.
func (f *File) DisplayMode() uint32 {
	return f.displayMode
}

// Read returns the value of the register at the given byte offset.
func (f *File) Read(offset uint64) (uint32, error) {
	switch offset {
	case RegStatus:
		v := uint32(0)
		if f.status.Ready() {
			v |= StatusSDRAMReady
		}
		if f.status.Faulted() {
			v |= StatusFault
		}
		return v, nil

	case RegCycleLo:
		return uint32(f.cycles.CycleCount()), nil

	case RegCycleHi:
		return uint32(f.cycles.CycleCount() >> 32), nil

	case RegDisplayMode:
		return f.displayMode, nil

	case RegFBSwap:
		if f.swap.SwapPending() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, &mem.AddressingError{
		Address: offset,
		Reason:  "no readable register at this offset",
	}
}

// Write stores a value into the register at the given byte offset.
func (f *File) Write(offset uint64, v uint32) error {
	switch offset {
	case RegDisplayMode:
		f.displayMode = v
		return nil

	case RegFBSwap:
		// Any write requests a swap. The busy bit stays set until the
		// scanout fetcher commits the swap at a line boundary.
		f.swap.RequestSwap()
		return nil

	case RegStatus, RegCycleLo, RegCycleHi:
		return &mem.AddressingError{
			Address: offset,
			Reason:  "register is read-only",
		}
	}

	return &mem.AddressingError{
		Address: offset,
		Reason:  "no writable register at this offset",
	}
}
