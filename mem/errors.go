package mem

import "fmt"

// An AddressingError reports a request that addresses memory outside the
// storage bounds, or with a shape the hardware cannot express. The request is
// rejected at admission and no state is mutated.
type AddressingError struct {
	Address uint64
	Reason  string
}

func (e *AddressingError) Error() string {
	return fmt.Sprintf("addressing error at 0x%08X: %s", e.Address, e.Reason)
}

// A ProtocolMisuseError reports a violation of the request/acknowledge
// contract, such as submitting a new request while one is outstanding. It is
// a programming-contract violation of the caller, not a memory fault.
type ProtocolMisuseError struct {
	Source Source
	Reason string
}

func (e *ProtocolMisuseError) Error() string {
	return fmt.Sprintf("protocol misuse by %s: %s", e.Source, e.Reason)
}

// A RefreshStarvationFault reports that the refresh counter exceeded the
// refresh interval before a refresh phase began. Data retention is no longer
// guaranteed for any source. The fault halts request admission until the
// controller is explicitly reset.
type RefreshStarvationFault struct {
	Counter  int
	Interval int
}

func (e *RefreshStarvationFault) Error() string {
	return fmt.Sprintf(
		"refresh starvation: counter %d exceeded interval %d, "+
			"data retention lost", e.Counter, e.Interval)
}
