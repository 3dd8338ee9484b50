package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubEvent is a bare Event for ordering tests.
type stubEvent struct {
	time    VTime
	ordinal uint64
}

func (e *stubEvent) Timestamp() VTime     { return e.time }
func (e *stubEvent) Ordinal() uint64      { return e.ordinal }
func (e *stubEvent) Execute(*Environment) {}

// TestEventHeap_TimestampOrdering tests that events are processed in timestamp order
func TestEventHeap_TimestampOrdering(t *testing.T) {
	h := NewEventHeap()

	// Add events with different timestamps in random order
	h.Schedule(&stubEvent{time: 100, ordinal: 1})
	h.Schedule(&stubEvent{time: 50, ordinal: 2})
	h.Schedule(&stubEvent{time: 150, ordinal: 3})

	// Should be popped in timestamp order: 50, 100, 150
	for _, want := range []VTime{50, 100, 150} {
		got := h.PopNext()
		if got.Timestamp() != want {
			t.Errorf("event timestamp = %v, want %v", got.Timestamp(), want)
		}
	}

	if h.Len() != 0 {
		t.Errorf("Heap should be empty, len = %d", h.Len())
	}
}

// TestEventHeap_OrdinalTieBreaking tests that same-timestamp events pop in
// insertion order regardless of push order.
func TestEventHeap_OrdinalTieBreaking(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(&stubEvent{time: 10, ordinal: 3})
	h.Schedule(&stubEvent{time: 10, ordinal: 1})
	h.Schedule(&stubEvent{time: 5, ordinal: 4})
	h.Schedule(&stubEvent{time: 10, ordinal: 2})

	var got []uint64
	for h.Len() > 0 {
		got = append(got, h.PopNext().Ordinal())
	}
	assert.Equal(t, []uint64{4, 1, 2, 3}, got)
}

func TestEventHeap_EmptyPeekAndPop(t *testing.T) {
	h := NewEventHeap()
	assert.Nil(t, h.Peek())
	assert.Nil(t, h.PopNext())

	h.Schedule(&stubEvent{time: 1, ordinal: 1})
	assert.Equal(t, VTime(1), h.Peek().Timestamp())
	assert.Equal(t, 1, h.Len(), "Peek must not remove the event")
}
