// Package trace provides event-trace recording for clinic network simulations.
// This package has no dependencies on sim/ or sim/clinic/ — it stores pure data types.
package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every scenario event.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to events
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Kind identifies what happened in a Record.
type Kind string

const (
	KindArrival      Kind = "arrival"       // customer arrived at a clinic
	KindPurchase     Kind = "purchase"      // customer finished buying
	KindDispatch     Kind = "dispatch"      // clinic control called a truck
	KindRoadDelay    Kind = "road_delay"    // truck hit a slow road condition
	KindTruckArrival Kind = "truck_arrival" // truck reached the clinic
	KindRestock      Kind = "restock"       // truck topped up the stock
)

// Record captures a single observable scenario event.
type Record struct {
	Clock     float64 // virtual time of the event
	Kind      Kind
	Clinic    string  // clinic name, e.g. "clinic 0"
	Subject   string  // actor, e.g. "Customer 3" or "Delivery truck"
	Amount    float64 // units bought (purchase), restocked (restock), or stock level (dispatch)
	Elapsed   float64 // seconds since arrival (purchase only)
	Condition string  // road condition (road_delay only)
}

// SimulationTrace collects records during a simulation, in event order.
type SimulationTrace struct {
	Config  TraceConfig
	Records []Record
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Records: make([]Record, 0),
	}
}

// Enabled reports whether records are being kept.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level != TraceLevelNone
}

// Record appends a record. It is a no-op on a nil or disabled trace.
func (st *SimulationTrace) Record(record Record) {
	if !st.Enabled() {
		return
	}
	st.Records = append(st.Records, record)
}
