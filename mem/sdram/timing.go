// Package sdram provides a cycle-level model of a single-channel SDRAM
// controller. The controller serializes the requests admitted by the
// arbiter, walks each of them through the activate, access, and precharge
// phases, and injects refresh cycles with absolute priority.
package sdram

// Timing holds the cycle counts that the controller must honor between
// phases. All values are in controller clock cycles.
type Timing struct {
	// PowerUpCycles is the stable-clock wait after power-on, before the
	// initialization sequence may start.
	PowerUpCycles int

	// TRCD is the delay between a row activate and the first column access.
	TRCD int

	// TRP is the duration of a precharge.
	TRP int

	// TWR is the write recovery time between the last write transfer and the
	// precharge.
	TWR int

	// TRFC is the duration of one refresh cycle.
	TRFC int

	// TREFI is the maximum number of cycles allowed between two refreshes.
	// Exceeding it loses data.
	TREFI int
}

// DefaultTiming returns the timing of the Winbond W9825G6KH part used on the
// PocketRiscV board, at a 100 MHz controller clock.
func DefaultTiming() Timing {
	return Timing{
		PowerUpCycles: 20000, // 200 us
		TRCD:          2,
		TRP:           2,
		TWR:           2,
		TRFC:          7,
		TREFI:         781, // 64 ms / 8192 rows
	}
}
