package sdram

// State is the state of the controller's command sequencer.
type State int

// The controller states. Exactly one access is in flight at any time, so the
// whole controller has a single state value.
const (
	StatePoweringUp State = iota
	StateIdle
	StateActivating
	StateAccessing
	StatePrecharging
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StatePoweringUp:
		return "PoweringUp"
	case StateIdle:
		return "Idle"
	case StateActivating:
		return "Activating"
	case StateAccessing:
		return "Accessing"
	case StatePrecharging:
		return "Precharging"
	case StateRefreshing:
		return "Refreshing"
	}

	return "Unknown"
}

// fsmInput is everything the transition function is allowed to look at.
type fsmInput struct {
	// holdDone is true when the current phase has held for its full cycle
	// count.
	holdDone bool

	// refreshDue is true when the refresh counter reached the refresh
	// interval.
	refreshDue bool

	// requestPending is true when an admitted request is waiting to start.
	requestPending bool

	// transferDone is true when the last column transfer of the current
	// access has completed.
	transferDone bool

	// warmupDone is true when no more power-up refresh cycles are owed.
	warmupDone bool
}

// nextState is the transition table of the controller. It is pure so the
// refresh-preemption and ordering rules can be tested on their own.
func nextState(s State, in fsmInput) State {
	switch s {
	case StatePoweringUp:
		// The precharge-all after the stable-clock wait takes no extra
		// cycles; the two warm-up refreshes follow immediately.
		if in.holdDone {
			return StateRefreshing
		}

	case StateRefreshing:
		if in.holdDone {
			if in.warmupDone {
				return StateIdle
			}
			return StateRefreshing
		}

	case StateIdle:
		// Refresh outranks any admitted request. Missing the interval is a
		// data loss, a slow request is only a slow request.
		if in.refreshDue {
			return StateRefreshing
		}
		if in.requestPending {
			return StateActivating
		}

	case StateActivating:
		if in.holdDone {
			return StateAccessing
		}

	case StateAccessing:
		if in.transferDone {
			return StatePrecharging
		}

	case StatePrecharging:
		if in.holdDone {
			return StateIdle
		}
	}

	return s
}
