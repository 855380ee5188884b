// Package testutil provides shared test infrastructure for the sandbox.
// It consolidates stub benchmarks and assertion helpers used across
// sandbox/ and its sub-package tests.
package testutil

import (
	"math"
	"testing"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

// FixedBenchmark returns the same score for every candidate. Propose returns
// a fresh candidate with the base's parameters plus the proposal seed.
type FixedBenchmark struct {
	BenchName string
	Initial   map[string]float64
	Score     sandbox.Score
}

func (b *FixedBenchmark) Name() string { return b.BenchName }

func (b *FixedBenchmark) InitialCandidate() sandbox.Candidate {
	return sandbox.NewCandidate(b.Initial)
}

func (b *FixedBenchmark) Propose(base sandbox.Candidate, seed int64) sandbox.Candidate {
	p := base.Params()
	p["seed"] = float64(seed)
	return sandbox.NewCandidate(p)
}

func (b *FixedBenchmark) Evaluate(sandbox.Candidate) sandbox.Score { return b.Score }

// ScriptedBenchmark plays back Scores in evaluation order: the first Evaluate
// call (step 0) returns Scores[0], and so on. Proposals are {"x": seed}; the
// initial candidate is {"x": 0}. Every base passed to Propose is recorded.
type ScriptedBenchmark struct {
	BenchName string
	Scores    []sandbox.Score
	Bases     []sandbox.Candidate

	calls int
}

func (b *ScriptedBenchmark) Name() string { return b.BenchName }

func (b *ScriptedBenchmark) InitialCandidate() sandbox.Candidate {
	return sandbox.NewCandidate(map[string]float64{"x": 0})
}

func (b *ScriptedBenchmark) Propose(base sandbox.Candidate, seed int64) sandbox.Candidate {
	b.Bases = append(b.Bases, base)
	return sandbox.NewCandidate(map[string]float64{"x": float64(seed)})
}

func (b *ScriptedBenchmark) Evaluate(sandbox.Candidate) sandbox.Score {
	s := b.Scores[b.calls%len(b.Scores)]
	b.calls++
	return s
}

// Governed returns a governance-passing score.
func Governed(quality, latencyMs float64) sandbox.Score {
	return sandbox.Score{Quality: quality, LatencyMs: latencyMs, GovernanceOK: true}
}

// Ungoverned returns a governance-failing score with finite fields.
func Ungoverned(quality, latencyMs float64) sandbox.Score {
	return sandbox.Score{Quality: quality, LatencyMs: latencyMs, GovernanceOK: false}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
// Equal infinities compare equal.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	if math.IsInf(want, 0) || math.IsInf(got, 0) || math.IsNaN(want) || math.IsNaN(got) {
		t.Errorf("%s: got %v, want %v", name, got, want)
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
