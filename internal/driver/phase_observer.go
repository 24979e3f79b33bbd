package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	PhaseFailed
)

// Phase names reported by the driver.
const (
	PhaseLower = "lower"
	PhasePrint = "print"
	PhaseWrite = "write"
)

// PhaseEvent describes a phase boundary for one unit file.
type PhaseEvent struct {
	Name    string
	File    string
	Status  PhaseStatus
	Elapsed time.Duration
	Cached  bool
	Err     error
}

// PhaseObserver receives phase events. It may be called from several
// goroutines at once.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) notify(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
