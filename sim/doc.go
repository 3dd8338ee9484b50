// Package sim provides the discrete-event simulation substrate for MEDnet.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - environment.go: the virtual clock, the event loop (Run) and shutdown (Close)
//   - process.go: process lifecycle (runnable → suspended → terminated) and suspension
//   - resource.go / container.go: the two shared primitives processes block on
//
// # Execution model
//
// A Process is a plain Go function running on its own goroutine. The
// Environment resumes one process at a time and waits for it to suspend or
// terminate before dispatching the next event, so simulation state is only
// ever touched by a single thread of control and needs no locking.
//
// Processes suspend in exactly four places:
//   - Process.Timeout: until a virtual delay has elapsed
//   - Resource.Acquire: until a slot is granted (FIFO)
//   - Container.Get: until enough units are available (FIFO, head-of-line)
//   - Process.Wait: until another process terminates
//
// Wake-ups caused by Request.Release, Container.Put or process termination
// are queued at the current time rather than run in place; events due at the
// same time run in the order they were scheduled.
//
// Scenario processes built on this package live in sim/clinic/; trace
// records live in sim/trace/.
package sim
