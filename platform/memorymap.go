// Package platform wires the memory subsystem of the PocketRiscV board: the
// SDRAM controller, the arbiter with its three handshake slots, the scanout
// fetcher, the register file, and the address decode in front of all of it.
package platform

import "github.com/pocketriscv/memsim/mem"

// The processor-visible address map. All accesses are word-aligned.
const (
	LocalStoreBase uint64 = 0x00000000
	LocalStoreSize uint64 = 64 * mem.KB

	SDRAMBase       uint64 = 0x10000000
	SDRAMWindowSize uint64 = 32 * mem.MB

	FramebufferABase uint64 = 0x10000000
	FramebufferBBase uint64 = 0x10100000
	FramebufferSize  uint64 = 1 * mem.MB

	// SDRAM left over after the two framebuffers; the firmware uses its
	// first megabyte as the memory test region.
	TestRegionBase uint64 = 0x10200000

	CharGridBase uint64 = 0x20000000
	CharGridSize uint64 = 0x4B0

	RegsBase uint64 = 0x40000000
	RegsSize uint64 = 0x100
)

// Region identifies the decode target of an address.
type Region int

// The decoded regions.
const (
	RegionUnmapped Region = iota
	RegionLocalStore
	RegionSDRAM
	RegionCharGrid
	RegionRegs
)

// Decode returns the region an address falls into and the byte offset
// within that region.
func Decode(addr uint64) (Region, uint64) {
	switch {
	case addr >= LocalStoreBase && addr < LocalStoreBase+LocalStoreSize:
		return RegionLocalStore, addr - LocalStoreBase

	case addr >= SDRAMBase && addr < SDRAMBase+SDRAMWindowSize:
		return RegionSDRAM, addr - SDRAMBase

	case addr >= CharGridBase && addr < CharGridBase+CharGridSize:
		return RegionCharGrid, addr - CharGridBase

	case addr >= RegsBase && addr < RegsBase+RegsSize:
		return RegionRegs, addr - RegsBase
	}

	return RegionUnmapped, 0
}
