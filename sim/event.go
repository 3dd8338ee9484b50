package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// VTime is virtual simulation time, in seconds. It has no relation to
// wall-clock time and only moves forward when the Environment dispatches an
// event.
type VTime float64

func (t VTime) String() string {
	return fmt.Sprintf("%.1f", float64(t))
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp, an Ordinal that breaks ties between events
// due at the same time (lower first), and an Execute method that advances
// simulation state when invoked.
type Event interface {
	Timestamp() VTime
	Ordinal() uint64
	Execute(*Environment)
}

// resumeEvent hands control back to a process, either for its first run
// after Spawn or after one of its suspension conditions was satisfied.
type resumeEvent struct {
	time    VTime    // Simulation time of the wake-up
	ordinal uint64   // Insertion sequence number
	Process *Process // The process to resume
}

// Timestamp returns the scheduled time of the resumeEvent.
func (e *resumeEvent) Timestamp() VTime {
	return e.time
}

// Ordinal returns the insertion sequence number of the resumeEvent.
func (e *resumeEvent) Ordinal() uint64 {
	return e.ordinal
}

// Execute resumes the process until its next suspension point.
func (e *resumeEvent) Execute(env *Environment) {
	logrus.Tracef("<< Resume: %s at %v", e.Process.name, e.time)
	env.resume(e.Process)
}
