package sandbox

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey identifies the fixed dataset of a benchmark. Two benchmarks
// built from the same SimulationKey MUST produce bit-for-bit identical data.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// DefaultDatasetSeed seeds every built-in benchmark dataset.
const DefaultDatasetSeed int64 = 42

// === Subsystem Constants ===

const (
	// SubsystemDataset is the RNG subsystem for dataset generation.
	// Uses master seed directly.
	SubsystemDataset = "dataset"

	// SubsystemEvaluate is the RNG subsystem for randomness inside Evaluate
	// (e.g. k-means initialisation). A fresh stream is drawn per call so that
	// Evaluate stays pure.
	SubsystemEvaluate = "evaluate"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
//
// Derivation formula:
//   - For SubsystemDataset: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
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
	rng := NewRand(p.DeriveSeed(name))
	p.subsystems[name] = rng
	return rng
}

// Fresh returns a new, uncached RNG for the named subsystem. Every call
// starts the same sequence.
func (p *PartitionedRNG) Fresh(name string) *rand.Rand {
	return NewRand(p.DeriveSeed(name))
}

// DeriveSeed returns the seed used for the named subsystem.
func (p *PartitionedRNG) DeriveSeed(name string) int64 {
	if name == SubsystemDataset {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// NewRand returns a math/rand generator seeded with seed. Proposals use one
// per call, so the same (base, seed) pair always draws the same numbers.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
