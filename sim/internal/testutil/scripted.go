// Package testutil provides shared test infrastructure for the MEDnet
// simulator: deterministic random sources and assertion helpers used across
// sim/ and sim/clinic/ test packages.
package testutil

import (
	"math"
	"testing"

	"github.com/samabhi/MEDnetworksimulation/sim"
)

// ScriptedSource replays a fixed sequence of draws. Intn(n) returns the next
// scripted value modulo n, cycling through the script when it runs out, so
// infinite generators keep working.
type ScriptedSource struct {
	values []int
	next   int
	Calls  int // number of Intn calls served
}

// NewScriptedSource creates a source replaying values. It panics on an empty
// script.
func NewScriptedSource(values ...int) *ScriptedSource {
	if len(values) == 0 {
		panic("NewScriptedSource: script must not be empty")
	}
	return &ScriptedSource{values: values}
}

// Intn implements sim.RandomSource.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("ScriptedSource.Intn: n must be > 0")
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	s.Calls++
	return ((v % n) + n) % n
}

// SharedStreams returns the same source for every subsystem.
type SharedStreams struct {
	Src sim.RandomSource
}

// Source implements clinic.Streams.
func (s SharedStreams) Source(string) sim.RandomSource {
	return s.Src
}

// NamedStreams maps subsystem names to sources; unknown names get Default.
type NamedStreams struct {
	Sources map[string]sim.RandomSource
	Default sim.RandomSource
}

// Source implements clinic.Streams.
func (s NamedStreams) Source(name string) sim.RandomSource {
	if src, ok := s.Sources[name]; ok {
		return src
	}
	if s.Default == nil {
		panic("NamedStreams: no source for " + name)
	}
	return s.Default
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
