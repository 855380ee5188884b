package benchmarks

import (
	"math"
	"math/rand"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

// gaussianStep perturbs a real parameter by N(0, stdDev) and clips the result
// into bounds.
type gaussianStep struct {
	stdDev float64
	bounds sandbox.Range
}

func (s gaussianStep) apply(rng *rand.Rand, v float64) float64 {
	return s.bounds.Clip(v + rng.NormFloat64()*s.stdDev)
}

// intStep perturbs an integer parameter by a uniform draw from [lo, hi] and
// clips the result into bounds.
type intStep struct {
	lo, hi int
	bounds sandbox.IntRange
}

func (s intStep) apply(rng *rand.Rand, n int) int {
	return s.bounds.Clip(n + s.lo + rng.Intn(s.hi-s.lo+1))
}

// baseFloat reads a real parameter from base, falling back to the initial
// value when it is missing or not finite.
func baseFloat(base, initial sandbox.Candidate, name string) float64 {
	if v, ok := base.Float(name); ok {
		return v
	}
	v, _ := initial.Float(name)
	return v
}

// baseInt reads an integer parameter from base, falling back to the initial
// value; a non-integral finite value is rounded.
func baseInt(base, initial sandbox.Candidate, name string) int {
	if n, ok := base.Int(name); ok {
		return n
	}
	if v, ok := base.Float(name); ok && math.Abs(v) < math.MaxInt32 {
		return int(math.Round(v))
	}
	n, _ := initial.Int(name)
	return n
}
