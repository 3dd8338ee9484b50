package sim

import "fmt"

// Resource is a pool of identical slots with FIFO waiters. A capacity-1
// Resource is a mutual-exclusion lock in virtual time.
type Resource struct {
	env      *Environment
	name     string
	capacity int
	held     int
	waiters  []*Request // FIFO queue of requests not yet granted
}

// Request is the handle of one Acquire. Its Release frees the slot.
type Request struct {
	resource *Resource
	process  *Process
	granted  bool
	released bool
}

// NewResource creates a resource with capacity slots (capacity ≥ 1).
func NewResource(env *Environment, name string, capacity int) (*Resource, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("resource %s capacity %d: %w", name, capacity, ErrInvalidRequest)
	}
	return &Resource{
		env:      env,
		name:     name,
		capacity: capacity,
	}, nil
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the number of slots.
func (r *Resource) Capacity() int { return r.capacity }

// Held returns the number of granted, unreleased slots.
func (r *Resource) Held() int { return r.held }

// QueueLen returns the number of waiting requests.
func (r *Resource) QueueLen() int { return len(r.waiters) }

// Acquire grants p a slot, suspending p until one is free. Waiters are
// granted strictly in arrival order. Callers must release the returned
// request on every exit path, normally with
//
//	req, err := counter.Acquire(p)
//	if err != nil {
//	    return err
//	}
//	defer req.Release()
func (r *Resource) Acquire(p *Process) (*Request, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	req := &Request{resource: r, process: p}
	if r.held < r.capacity {
		r.held++
		req.granted = true
		r.check()
		return req, nil
	}

	r.waiters = append(r.waiters, req)
	defer func() {
		// Abandoned while queued: the caller never sees req, so give back
		// the slot or the queue position here.
		if p.abandoned {
			req.Release()
		}
	}()
	p.park("acquire " + r.name)
	return req, nil
}

// Use acquires a slot for p, runs fn and releases the slot, whether fn
// returns normally or the process is abandoned.
func (r *Resource) Use(p *Process, fn func() error) error {
	req, err := r.Acquire(p)
	if err != nil {
		return err
	}
	defer req.Release()
	return fn()
}

// Release frees the slot. If processes are waiting, the head waiter is
// granted the slot and its resumption is queued at the current time, so it
// runs after every event already due now. Release is idempotent.
func (req *Request) Release() {
	if req == nil || req.released {
		return
	}
	req.released = true
	r := req.resource

	// Only an abandoned Acquire releases a request still in the queue.
	if !req.granted {
		r.dequeue(req)
		return
	}

	r.held--
	if len(r.waiters) > 0 {
		next := r.waiters[0]
		r.waiters = r.waiters[1:]
		next.granted = true
		r.held++
		r.env.push(next.process, r.env.clock)
	}
	r.check()
}

// Granted reports whether the request holds (or held) a slot.
func (req *Request) Granted() bool { return req.granted }

func (r *Resource) dequeue(req *Request) {
	for i, w := range r.waiters {
		if w == req {
			r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
			return
		}
	}
}

func (r *Resource) check() {
	if r.held < 0 || r.held > r.capacity {
		panic(fmt.Sprintf("resource %s holds %d of %d slots", r.name, r.held, r.capacity))
	}
}
