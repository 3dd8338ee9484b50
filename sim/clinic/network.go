// Package clinic builds the clinic supply network scenario on top of the sim
// engine: customers queue at one shared service counter and buy from their
// clinic's stock, while a control process per clinic calls delivery trucks
// when the stock runs low.
package clinic

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samabhi/MEDnetworksimulation/sim"
	"github.com/samabhi/MEDnetworksimulation/sim/trace"
)

// Streams hands out the random sources consumed by scenario processes.
// *sim.PartitionedRNG satisfies it; tests may return one scripted source for
// every name.
type Streams interface {
	Source(name string) sim.RandomSource
}

// Clinic is one site of the network with its own medication stock.
type Clinic struct {
	ID    int
	Name  string
	Stock *sim.Container
}

// Network wires the clinics, the shared counter and the scenario processes
// into one Environment.
type Network struct {
	cfg        Config
	env        *sim.Environment
	counter    *sim.Resource
	clinics    []*Clinic
	inspection *InspectionSchedule
	streams    Streams
	trace      *trace.SimulationTrace
	started    bool
}

// NewNetwork validates cfg and builds the network. Nothing runs until Start
// or Run. tr may be nil when no trace is wanted.
func NewNetwork(cfg Config, streams Streams, tr *trace.SimulationTrace) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}
	if streams == nil {
		return nil, fmt.Errorf("streams must not be nil")
	}
	inspection, err := ParseInspection(cfg.Inspection)
	if err != nil {
		return nil, err
	}

	env := sim.NewEnvironment()
	counter, err := sim.NewResource(env, "service counter", cfg.CounterCapacity)
	if err != nil {
		return nil, err
	}

	n := &Network{
		cfg:        cfg,
		env:        env,
		counter:    counter,
		inspection: inspection,
		streams:    streams,
		trace:      tr,
	}
	for i := 0; i < cfg.Clinics; i++ {
		name := fmt.Sprintf("clinic %d", i)
		stock, err := sim.NewContainer(env, name, cfg.Capacity, cfg.InitialLevel)
		if err != nil {
			return nil, err
		}
		n.clinics = append(n.clinics, &Clinic{ID: i, Name: name, Stock: stock})
	}
	return n, nil
}

// Env returns the underlying Environment.
func (n *Network) Env() *sim.Environment { return n.env }

// Counter returns the shared service counter.
func (n *Network) Counter() *sim.Resource { return n.counter }

// Clinics returns the clinics in id order.
func (n *Network) Clinics() []*Clinic { return n.clinics }

// Config returns the scenario configuration.
func (n *Network) Config() Config { return n.cfg }

// Start spawns one control process per clinic, then one customer generator
// per clinic. Calling Start more than once has no effect.
func (n *Network) Start() {
	if n.started {
		return
	}
	n.started = true
	for _, c := range n.clinics {
		n.env.Spawn(fmt.Sprintf("control %s", c.Name), n.control(c))
	}
	for _, c := range n.clinics {
		n.env.Spawn(fmt.Sprintf("generator %s", c.Name), n.generator(c))
	}
}

// Run starts the network, simulates until the configured horizon and then
// abandons the processes still alive.
func (n *Network) Run() error {
	n.Start()
	defer n.env.Close()

	logrus.Infof("Simulating %d clinics for %.1f s (threshold %.1f units, inspection %s)",
		len(n.clinics), n.cfg.Horizon, n.cfg.Threshold(), n.inspection)
	if err := n.env.Run(sim.VTime(n.cfg.Horizon)); err != nil {
		return err
	}
	logrus.Infof("Simulation reached t=%v with %d live processes", n.env.Now(), n.env.Live())
	return nil
}

func (n *Network) record(r trace.Record) {
	r.Clock = float64(n.env.Now())
	if n.trace.Enabled() {
		logrus.Debug(r.String())
	}
	n.trace.Record(r)
}
