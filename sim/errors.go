package sim

import "errors"

var (
	// ErrInvalidRequest is returned when a Get, Put or Acquire is issued with a
	// non-positive or over-capacity amount.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidDelay is returned when a resumption is scheduled in the past.
	ErrInvalidDelay = errors.New("invalid delay")

	// ErrContainerOverflow reports a container whose level left [0, capacity].
	// It is an internal consistency fault and always halts the run.
	ErrContainerOverflow = errors.New("container overflow")

	// ErrEnvironmentClosed is returned by Run after Close.
	ErrEnvironmentClosed = errors.New("environment closed")
)
