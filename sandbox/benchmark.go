package sandbox

// Benchmark is a self-contained scoring environment.
//
// Contract:
//   - InitialCandidate is deterministic.
//   - Propose returns a neighbor of base; the same (base, seed) pair always
//     yields the same candidate, and every parameter is clipped into the
//     benchmark's valid domain. The loop performs no clamping.
//   - Evaluate is pure with respect to the benchmark's fixed dataset, never
//     mutates its input, and never panics on a well-shaped candidate; bad
//     parameter values degrade to GovernanceOK == false.
//
// A panic from Propose or Evaluate is a defect in the benchmark and aborts
// the run.
type Benchmark interface {
	Name() string
	InitialCandidate() Candidate
	Propose(base Candidate, seed int64) Candidate
	Evaluate(c Candidate) Score
}

// Factory constructs a fresh Benchmark, including its dataset.
type Factory func() Benchmark

// Bounded is implemented by benchmarks that expose their parameter policy.
// The loop uses it only to name violating parameters in its logs.
type Bounded interface {
	Policy() Bounds
}
