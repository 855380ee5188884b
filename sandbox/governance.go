package sandbox

import (
	"math"
	"sort"
)

// Range is an inclusive real interval.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies in [Min, Max]. NaN and infinities never do.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return r.Min <= v && v <= r.Max
}

// Clip returns v confined to [Min, Max]. A NaN input returns Min.
func (r Range) Clip(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Min(r.Max, math.Max(r.Min, v))
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min, Max int
}

// Contains reports whether n lies in [Min, Max].
func (r IntRange) Contains(n int) bool {
	return r.Min <= n && n <= r.Max
}

// Clip returns n confined to [Min, Max].
func (r IntRange) Clip(n int) int {
	return min(r.Max, max(r.Min, n))
}

// Bounds is a parameter-bounds policy: every named parameter must be present,
// well-typed and within its range.
type Bounds struct {
	Floats map[string]Range
	Ints   map[string]IntRange
}

// Check evaluates the bounds against c. It is total: missing parameters,
// non-finite values and non-integral integers all yield false.
func (b Bounds) Check(c Candidate) bool {
	for name, r := range b.Floats {
		v, ok := c.Float(name)
		if !ok || !r.Contains(v) {
			return false
		}
	}
	for name, r := range b.Ints {
		n, ok := c.Int(name)
		if !ok || !r.Contains(n) {
			return false
		}
	}
	return true
}

// Violations lists the parameters that fail the bounds, sorted by name.
// The loop logs it for vetoed candidates; Check is the gate.
func (b Bounds) Violations(c Candidate) []string {
	var out []string
	for name, r := range b.Floats {
		if v, ok := c.Float(name); !ok || !r.Contains(v) {
			out = append(out, name)
		}
	}
	for name, r := range b.Ints {
		if n, ok := c.Int(name); !ok || !r.Contains(n) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// LatencyBudget caps the measured scoring latency.
// A zero MaxLatencyMs means no latency constraint.
type LatencyBudget struct {
	MaxLatencyMs float64
}

// Within reports whether latencyMs complies with the budget.
func (b LatencyBudget) Within(latencyMs float64) bool {
	if math.IsNaN(latencyMs) {
		return false
	}
	if b.MaxLatencyMs == 0 {
		return true
	}
	return latencyMs <= b.MaxLatencyMs
}

// Gate AND-combines parameter validity and latency-budget compliance.
func Gate(paramsOK, latencyOK bool) bool {
	return paramsOK && latencyOK
}
