package sdram

// refreshScheduler tracks the cycles elapsed since the last refresh. The
// controller is its only writer.
type refreshScheduler struct {
	counter  int
	interval int

	// suppressed disables the due signal. It exists only so that tests can
	// prove the starvation fault fires; no production path sets it.
	suppressed bool
}

// tick counts one elapsed cycle outside a refresh phase.
func (r *refreshScheduler) tick() {
	r.counter++
}

// due reports that a refresh must be scheduled at the next opportunity.
func (r *refreshScheduler) due() bool {
	if r.suppressed {
		return false
	}

	return r.counter >= r.interval
}

// starved reports that the interval has been exceeded outside a refresh
// phase. Data retention is already lost at this point.
func (r *refreshScheduler) starved() bool {
	return r.counter > r.interval
}

// reset is called when a refresh phase completes.
func (r *refreshScheduler) reset() {
	r.counter = 0
}
