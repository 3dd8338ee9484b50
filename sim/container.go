package sim

import (
	"fmt"
	"math"
)

// Container is a bounded, depletable pool of a continuous quantity.
//
// Get blocks until enough is available; Put never blocks and caps the
// level at capacity. Pending gets are served head first: a request that
// still cannot be satisfied blocks every request behind it.
type Container struct {
	env      *Environment
	name     string
	capacity float64
	level    float64
	getters  []getRequest // FIFO queue of pending gets
}

type getRequest struct {
	process *Process
	amount  float64
}

// NewContainer creates a container holding init units out of capacity.
func NewContainer(env *Environment, name string, capacity, init float64) (*Container, error) {
	if !(capacity > 0) || math.IsInf(capacity, 0) {
		return nil, fmt.Errorf("container %s capacity %v: %w", name, capacity, ErrInvalidRequest)
	}
	if !(init >= 0) || init > capacity {
		return nil, fmt.Errorf("container %s initial level %v outside [0, %v]: %w", name, init, capacity, ErrInvalidRequest)
	}
	return &Container{
		env:      env,
		name:     name,
		capacity: capacity,
		level:    init,
	}, nil
}

// Name returns the container name.
func (c *Container) Name() string { return c.name }

// Capacity returns the maximum level.
func (c *Container) Capacity() float64 { return c.capacity }

// Level returns the current level.
func (c *Container) Level() float64 { return c.level }

// QueueLen returns the number of pending gets.
func (c *Container) QueueLen() int { return len(c.getters) }

// Get removes amount units for p. When the level is too low, p is queued
// and suspended until a Put makes its request the satisfiable head of the
// queue; the amount has been deducted by the time Get returns.
func (c *Container) Get(p *Process, amount float64) error {
	if !(amount > 0) || amount > c.capacity {
		return fmt.Errorf("get %v from %s (capacity %v): %w", amount, c.name, c.capacity, ErrInvalidRequest)
	}
	if err := p.enter(); err != nil {
		return err
	}

	if c.level >= amount {
		c.level -= amount
		return c.check()
	}

	c.getters = append(c.getters, getRequest{process: p, amount: amount})
	p.park(fmt.Sprintf("get %v from %s", amount, c.name))
	return nil
}

// Put adds amount units, silently discarding whatever exceeds capacity, and
// then serves pending gets from the head of the queue until the head cannot
// be satisfied. Served processes resume at the current time.
func (c *Container) Put(amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return fmt.Errorf("put %v into %s: %w", amount, c.name, ErrInvalidRequest)
	}

	c.level = math.Min(c.capacity, c.level+amount)
	if err := c.check(); err != nil {
		return err
	}

	for len(c.getters) > 0 {
		head := c.getters[0]
		if head.amount > c.level {
			break
		}
		c.getters = c.getters[1:]
		c.level -= head.amount
		c.env.push(head.process, c.env.clock)
		if err := c.check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) check() error {
	if !(c.level >= 0) || c.level > c.capacity {
		return fmt.Errorf("%s level %v outside [0, %v]: %w", c.name, c.level, c.capacity, ErrContainerOverflow)
	}
	return nil
}
