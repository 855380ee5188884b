package sandbox

import (
	"math"
	"sort"
)

// Candidate is an immutable named-parameter bundle under search.
// Integer parameters are stored as integral float64 values.
// The zero value is a valid candidate with no parameters.
type Candidate struct {
	params map[string]float64
}

// NewCandidate creates a Candidate from a copy of params.
// Later changes to params do not affect the candidate.
func NewCandidate(params map[string]float64) Candidate {
	cp := make(map[string]float64, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return Candidate{params: cp}
}

// Params returns a copy of the candidate's parameters. Never returns nil.
func (c Candidate) Params() map[string]float64 {
	cp := make(map[string]float64, len(c.params))
	for k, v := range c.params {
		cp[k] = v
	}
	return cp
}

// Float returns the named parameter. ok is false when the parameter is
// missing or not finite.
func (c Candidate) Float(name string) (v float64, ok bool) {
	v, present := c.params[name]
	if !present || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Int returns the named parameter as an int. ok is false when the parameter
// is missing, not finite, or not integral.
func (c Candidate) Int(name string) (n int, ok bool) {
	v, ok := c.Float(name)
	if !ok || v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}

// Names returns the parameter names in sorted order.
func (c Candidate) Names() []string {
	names := make([]string, 0, len(c.params))
	for k := range c.params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of parameters.
func (c Candidate) Len() int {
	return len(c.params)
}

// Equal reports whether both candidates carry the same parameter names and
// bit-identical values.
func (c Candidate) Equal(other Candidate) bool {
	if len(c.params) != len(other.params) {
		return false
	}
	for k, v := range c.params {
		ov, ok := other.params[k]
		if !ok || math.Float64bits(v) != math.Float64bits(ov) {
			return false
		}
	}
	return true
}
