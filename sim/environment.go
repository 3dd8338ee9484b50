package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// Hook is invoked by the Environment after every dispatched event. Hooks run
// on the Environment's goroutine while no process is active, so they may
// inspect any resource or container.
type Hook func(env *Environment, ev Event)

// Environment is the scheduler: it owns the virtual clock and the event
// queue, and it is the only party that resumes processes.
//
// Thread-safety: NOT thread-safe. Run, Close and the constructors of
// resources and containers must be called from a single goroutine; process
// bodies run on their own goroutines but never concurrently with it.
type Environment struct {
	clock VTime
	queue *EventHeap

	nextOrdinal   uint64 // Per-environment event counter for deterministic tie-breaking
	nextProcessID uint64

	// yield is signalled by the active process when it suspends or terminates.
	yield  chan struct{}
	active *Process
	live   map[uint64]*Process

	hooks   []Hook
	failure error
	closed  bool
}

// NewEnvironment creates an environment with its clock at zero.
func NewEnvironment() *Environment {
	return &Environment{
		queue: NewEventHeap(),
		yield: make(chan struct{}),
		live:  make(map[uint64]*Process),
	}
}

// Now returns the current virtual time.
func (env *Environment) Now() VTime {
	return env.clock
}

// Pending returns the number of queued events.
func (env *Environment) Pending() int {
	return env.queue.Len()
}

// Live returns the number of processes that have not terminated.
func (env *Environment) Live() int {
	return len(env.live)
}

// AcceptHook registers a hook that runs after every dispatched event.
func (env *Environment) AcceptHook(hook Hook) {
	env.hooks = append(env.hooks, hook)
}

// Spawn creates a process running body and schedules its first resumption at
// the current time. The returned handle can be passed to Process.Wait.
func (env *Environment) Spawn(name string, body ProcessFunc) *Process {
	if body == nil {
		panic("Spawn: body must not be nil")
	}
	env.nextProcessID++
	p := &Process{
		id:     env.nextProcessID,
		name:   name,
		env:    env,
		body:   body,
		state:  Runnable,
		resume: make(chan bool),
	}
	env.live[p.id] = p
	env.push(p, env.clock)
	return p
}

// Schedule enqueues a resumption of p at Now()+delay. A negative or NaN delay
// is rejected with ErrInvalidDelay.
func (env *Environment) Schedule(p *Process, delay VTime) error {
	if delay < 0 || math.IsNaN(float64(delay)) {
		return fmt.Errorf("schedule %s after %v: %w", p.name, float64(delay), ErrInvalidDelay)
	}
	env.push(p, env.clock+delay)
	return nil
}

// push is the single entry point into the event queue.
func (env *Environment) push(p *Process, at VTime) {
	if p.env != env {
		panic(fmt.Sprintf("process %s belongs to another environment", p.name))
	}
	if p.scheduled {
		panic(fmt.Sprintf("process %s already has a pending resumption", p.name))
	}
	p.scheduled = true
	env.nextOrdinal++
	env.queue.Schedule(&resumeEvent{time: at, ordinal: env.nextOrdinal, Process: p})
}

// Run dispatches events in (timestamp, ordinal) order until the queue is
// empty or the next event is due after until. When it stops at the horizon
// the clock is moved to until; processes that are still suspended stay
// suspended and can be continued by a later Run.
//
// Run returns the first error returned by a process body, wrapped with the
// process name. Once a process has failed, every later Run returns the same
// error.
func (env *Environment) Run(until VTime) error {
	if env.closed {
		return ErrEnvironmentClosed
	}
	if env.failure != nil {
		return env.failure
	}
	if until < env.clock || math.IsNaN(float64(until)) {
		return fmt.Errorf("run until %v at %v: %w", float64(until), float64(env.clock), ErrInvalidDelay)
	}

	for env.queue.Len() > 0 {
		if env.queue.Peek().Timestamp() > until {
			env.clock = until
			break
		}
		ev := env.queue.PopNext()

		// Clock monotonicity
		if ev.Timestamp() < env.clock {
			panic(fmt.Sprintf("clock went backwards: %v < %v", ev.Timestamp(), env.clock))
		}
		env.clock = ev.Timestamp()
		logrus.Debugf("[t %08.1f] Executing %T", float64(env.clock), ev)

		ev.Execute(env)

		for _, hook := range env.hooks {
			hook(env, ev)
		}
		if env.failure != nil {
			return env.failure
		}
	}
	return nil
}

// Close abandons every process that has not terminated. Suspended processes
// are unwound with their deferred calls executed, so scoped resource
// releases still happen. Pending events are dropped and later calls to Run
// return ErrEnvironmentClosed. Close is idempotent.
func (env *Environment) Close() {
	if env.closed {
		return
	}
	env.closed = true

	procs := make([]*Process, 0, len(env.live))
	for _, p := range env.live {
		procs = append(procs, p)
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].id < procs[j].id })

	for _, p := range procs {
		p.abandoned = true
		if !p.started {
			p.state = Terminated
			delete(env.live, p.id)
			continue
		}
		logrus.Tracef("abandoning %s (%s)", p.name, p.cond)
		env.handOff(p, true)
	}
	env.queue = NewEventHeap()
}

// resume runs p until it suspends or terminates.
func (env *Environment) resume(p *Process) {
	p.scheduled = false
	if p.state == Terminated {
		return
	}
	if !p.started {
		p.started = true
		go p.run()
	}
	env.handOff(p, false)
	if p.panicked {
		panic(p.panicValue)
	}
}

// handOff transfers control to p and blocks until p yields it back.
func (env *Environment) handOff(p *Process, abandon bool) {
	env.active = p
	p.resume <- abandon
	<-env.yield
	env.active = nil
}

// terminated is called on p's goroutine right before it yields for the last
// time.
func (env *Environment) terminated(p *Process) {
	delete(env.live, p.id)
	if p.abandoned || p.panicked {
		return
	}
	for _, j := range p.joiners {
		env.push(j, env.clock)
	}
	p.joiners = nil

	if p.err != nil && env.failure == nil {
		logrus.Warnf("[t %08.1f] process %s failed: %v", float64(env.clock), p.name, p.err)
		env.failure = fmt.Errorf("process %s: %w", p.name, p.err)
	}
}
