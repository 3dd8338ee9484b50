package sim

import (
	"fmt"
	"runtime"
)

// ProcessState is the lifecycle state of a Process.
type ProcessState int

const (
	// Runnable processes are executing or have a resumption queued.
	Runnable ProcessState = iota
	// Suspended processes wait on a timeout, a resource, a container or
	// another process.
	Suspended
	// Terminated processes returned from their body or were abandoned.
	Terminated
)

func (s ProcessState) String() string {
	switch s {
	case Runnable:
		return "runnable"
	case Suspended:
		return "suspended"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("ProcessState(%d)", int(s))
	}
}

// ProcessFunc is the sequential body of a process. It receives its own
// handle, through which it suspends, and returns when the process is done.
// A non-nil error halts Environment.Run.
type ProcessFunc func(p *Process) error

// Process is a suspendable unit of sequential logic.
//
// Each process body runs on its own goroutine, but the Environment hands
// control to exactly one of them at a time, so bodies never run in parallel
// with each other or with the Environment. All suspension methods must be
// called from the process's own body.
type Process struct {
	id   uint64
	name string
	env  *Environment
	body ProcessFunc

	state ProcessState
	cond  string // Suspension condition, for diagnostics

	resume    chan bool // true asks the process to abandon
	scheduled bool      // A resumeEvent for this process is queued
	started   bool
	abandoned bool

	err        error
	panicked   bool
	panicValue interface{}

	joiners []*Process // Processes waiting for this one to terminate
}

// ID returns the process identifier, unique within its Environment.
func (p *Process) ID() uint64 { return p.id }

// Name returns the name given at Spawn.
func (p *Process) Name() string { return p.name }

// State returns the current lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Condition describes what a suspended process is waiting for.
func (p *Process) Condition() string { return p.cond }

// Err returns the error the body returned, once terminated.
func (p *Process) Err() error { return p.err }

// Env returns the owning Environment.
func (p *Process) Env() *Environment { return p.env }

// Now is a shorthand for p.Env().Now().
func (p *Process) Now() VTime { return p.env.clock }

// Spawn starts a sub-process at the current time. See Environment.Spawn.
func (p *Process) Spawn(name string, body ProcessFunc) *Process {
	return p.env.Spawn(name, body)
}

// Timeout suspends the process for d units of virtual time.
func (p *Process) Timeout(d VTime) error {
	if err := p.enter(); err != nil {
		return err
	}
	if err := p.env.Schedule(p, d); err != nil {
		return err
	}
	p.park(fmt.Sprintf("timeout until %v", p.env.clock+d))
	return nil
}

// Wait suspends the process until child terminates and returns the child's
// error. Waiting on a terminated process returns immediately.
func (p *Process) Wait(child *Process) error {
	if err := p.enter(); err != nil {
		return err
	}
	if child == p {
		panic(fmt.Sprintf("process %s cannot wait for itself", p.name))
	}
	if child.state == Terminated {
		return child.err
	}
	child.joiners = append(child.joiners, p)
	p.park("wait " + child.name)
	return child.err
}

// enter validates that a suspension method is called by the active process.
func (p *Process) enter() error {
	if p.env.closed {
		return ErrEnvironmentClosed
	}
	if p.env.active != p {
		panic(fmt.Sprintf("process %s is not the active process", p.name))
	}
	return nil
}

// park yields control to the Environment and blocks until resumed. The
// caller must have arranged a future resumption (queued event, wait list
// entry) before parking.
func (p *Process) park(cond string) {
	p.state = Suspended
	p.cond = cond
	p.env.yield <- struct{}{}

	if abandon := <-p.resume; abandon {
		// Unwinds the body, running its deferred calls.
		runtime.Goexit()
	}
	p.state = Runnable
	p.cond = ""
}

// run is the goroutine body of a process.
func (p *Process) run() {
	defer func() {
		if r := recover(); r != nil {
			p.panicked = true
			p.panicValue = r
		}
		p.state = Terminated
		p.cond = ""
		p.env.terminated(p)
		p.env.yield <- struct{}{}
	}()

	if abandon := <-p.resume; abandon {
		return
	}
	p.err = p.body(p)
}
