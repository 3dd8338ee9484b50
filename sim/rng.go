package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// RandomSource is the only randomness a process may consume. *rand.Rand
// satisfies it; tests inject scripted sequences.
type RandomSource interface {
	// Intn returns a value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// UniformInt draws an integer uniformly from [lo, hi], both inclusive.
func UniformInt(src RandomSource, lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("UniformInt: empty range [%d, %d]", lo, hi))
	}
	return lo + src.Intn(hi-lo+1)
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical traces.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem names ===

// SubsystemArrivals returns the subsystem name for the customer generator
// of clinic id.
func SubsystemArrivals(id int) string {
	return fmt.Sprintf("arrivals_%d", id)
}

// SubsystemPurchases returns the subsystem name for purchase amounts at
// clinic id.
func SubsystemPurchases(id int) string {
	return fmt.Sprintf("purchases_%d", id)
}

// SubsystemDeliveries returns the subsystem name for delivery trucks of
// clinic id.
func SubsystemDeliveries(id int) string {
	return fmt.Sprintf("deliveries_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName), so drawing from
// one subsystem never shifts the sequence of another.
//
// Thread-safety: NOT thread-safe. Must be called from the simulation's
// single thread of control.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Source returns ForSubsystem(name) as a RandomSource.
func (p *PartitionedRNG) Source(name string) RandomSource {
	return p.ForSubsystem(name)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
