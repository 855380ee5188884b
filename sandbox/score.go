package sandbox

import "math"

// LatencyWeight is the cost of one millisecond of latency in quality units.
// Quality dominates unless latencies differ by thousands of milliseconds.
const LatencyWeight = 0.001

// Score is the immutable result of evaluating one candidate.
type Score struct {
	Quality      float64 // benchmark-defined, typically in [0, 1]
	LatencyMs    float64 // measured scoring latency
	GovernanceOK bool    // false vetoes the candidate
}

// Total is the total-order value used to compare candidates.
// It is recomputed on every call and is exactly -Inf when governance fails.
func (s Score) Total() float64 {
	if !s.GovernanceOK {
		return math.Inf(-1)
	}
	return s.Quality - LatencyWeight*s.LatencyMs
}
