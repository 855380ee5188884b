package benchmarks

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

// contractCase binds a benchmark to its policy and clock hook for the
// shared contract tests.
type contractCase struct {
	name     string
	bench    sandbox.Benchmark
	policy   sandbox.Bounds
	setClock func(func() time.Time)
	extremes []map[string]float64
}

func contractCases() []contractCase {
	anomaly := NewAnomalyDetection()
	entity := NewEntityResolution()
	clustering := NewToyClustering()
	return []contractCase{
		{
			name: NameAnomalyDetection, bench: anomaly, policy: AnomalyPolicy,
			setClock: func(f func() time.Time) { anomaly.now = f },
			extremes: []map[string]float64{{"z_threshold": 1.5}, {"z_threshold": 6.0}},
		},
		{
			name: NameEntityResolution, bench: entity, policy: EntityPolicy,
			setClock: func(f func() time.Time) { entity.now = f },
			extremes: []map[string]float64{
				{"threshold": 0.30, "ngram_n": 2},
				{"threshold": 0.90, "ngram_n": 4},
			},
		},
		{
			name: NameToyClustering, bench: clustering, policy: ClusteringPolicy,
			setClock: func(f func() time.Time) { clustering.now = f },
			extremes: []map[string]float64{
				{"k": 2, "n_init": 5, "max_iter": 50},
				{"k": 8, "n_init": 30, "max_iter": 400},
			},
		},
	}
}

func TestBenchmarks_ProposeStaysInDomain(t *testing.T) {
	for _, tc := range contractCases() {
		t.Run(tc.name, func(t *testing.T) {
			bases := []sandbox.Candidate{tc.bench.InitialCandidate()}
			for _, p := range tc.extremes {
				bases = append(bases, sandbox.NewCandidate(p))
			}
			for _, base := range bases {
				cur := base
				for seed := int64(0); seed < 150; seed++ {
					next := tc.bench.Propose(cur, seed)
					require.True(t, tc.policy.Check(next), "seed %d produced out-of-domain %v", seed, next.Params())
					cur = next
				}
			}
		})
	}
}

func TestBenchmarks_ProposeReproducible(t *testing.T) {
	for _, tc := range contractCases() {
		t.Run(tc.name, func(t *testing.T) {
			base := tc.bench.InitialCandidate()
			for seed := int64(100); seed < 120; seed++ {
				a := tc.bench.Propose(base, seed)
				b := tc.bench.Propose(base, seed)
				assert.True(t, a.Equal(b), "seed %d: %v vs %v", seed, a.Params(), b.Params())
			}
			assert.True(t, base.Equal(tc.bench.InitialCandidate()), "Propose mutated its base")
		})
	}
}

func TestBenchmarks_ProposeRepairsGarbageBase(t *testing.T) {
	// GIVEN a base with missing and non-finite parameters
	garbage := sandbox.NewCandidate(map[string]float64{"z_threshold": math.NaN(), "threshold": math.Inf(1), "k": 1e12})

	for _, tc := range contractCases() {
		t.Run(tc.name, func(t *testing.T) {
			// THEN proposals are still clipped into the domain
			next := tc.bench.Propose(garbage, 7)
			assert.True(t, tc.policy.Check(next), "got %v", next.Params())
		})
	}
}

func TestBenchmarks_InitialCandidateGoverned(t *testing.T) {
	for _, tc := range contractCases() {
		t.Run(tc.name, func(t *testing.T) {
			tc.setClock(frozenClock())
			s := tc.bench.Evaluate(tc.bench.InitialCandidate())
			assert.True(t, s.GovernanceOK)
			assert.Equal(t, 0.0, s.LatencyMs)
			assert.Greater(t, s.Quality, 0.0)
			assert.LessOrEqual(t, s.Quality, 1.0)
		})
	}
}

func TestBenchmarks_EvaluateGarbageNeverPanics(t *testing.T) {
	garbage := []map[string]float64{
		nil,
		{"unrelated": 1},
		{"z_threshold": math.NaN(), "threshold": math.NaN(), "ngram_n": math.NaN(), "k": math.NaN()},
		{"z_threshold": -10, "threshold": 5, "ngram_n": 2.5, "k": 3.5, "n_init": 1e9, "max_iter": -1},
		{"z_threshold": math.Inf(-1), "threshold": -1, "ngram_n": 100, "k": 1000, "n_init": 0, "max_iter": 0},
	}
	for _, tc := range contractCases() {
		t.Run(tc.name, func(t *testing.T) {
			tc.setClock(frozenClock())
			for _, p := range garbage {
				var s sandbox.Score
				require.NotPanics(t, func() { s = tc.bench.Evaluate(sandbox.NewCandidate(p)) }, "params %v", p)
				assert.False(t, s.GovernanceOK, "params %v", p)
				assert.True(t, math.IsInf(s.Total(), -1))
				assert.False(t, math.IsNaN(s.Quality) || math.IsInf(s.Quality, 0), "params %v", p)
				assert.False(t, math.IsNaN(s.LatencyMs) || math.IsInf(s.LatencyMs, 0), "params %v", p)
			}
		})
	}
}

func TestBenchmarks_LatencyBudgetVetoes(t *testing.T) {
	// GIVEN a clock where every scoring pass takes 300ms (over every budget)
	for _, tc := range contractCases() {
		t.Run(tc.name, func(t *testing.T) {
			tc.setClock(steppingClock(300 * time.Millisecond))

			// WHEN the in-bounds initial candidate is evaluated
			s := tc.bench.Evaluate(tc.bench.InitialCandidate())

			// THEN the latency gate fails it
			assert.Equal(t, 300.0, s.LatencyMs)
			assert.False(t, s.GovernanceOK)
		})
	}
}

func TestBenchmarks_EvaluateDoesNotMutateCandidate(t *testing.T) {
	for _, tc := range contractCases() {
		t.Run(tc.name, func(t *testing.T) {
			tc.setClock(frozenClock())
			c := tc.bench.InitialCandidate()
			before := c.Params()
			tc.bench.Evaluate(c)
			assert.Equal(t, before, c.Params())
		})
	}
}

func TestBenchmarks_LoopDeterminism(t *testing.T) {
	// GIVEN two independently constructed benchmarks with frozen clocks
	for _, name := range DefaultRegistry().Names() {
		t.Run(name, func(t *testing.T) {
			run := func() *sandbox.RunResult {
				var b sandbox.Benchmark
				switch name {
				case NameAnomalyDetection:
					a := NewAnomalyDetection()
					a.now = frozenClock()
					b = a
				case NameEntityResolution:
					e := NewEntityResolution()
					e.now = frozenClock()
					b = e
				case NameToyClustering:
					c := NewToyClustering()
					c.now = frozenClock()
					b = c
				}
				res, err := sandbox.NewLoop(b).Run(sandbox.LoopConfig{Steps: 6, Seed: 11})
				require.NoError(t, err)
				return res
			}

			// THEN the same seed yields bit-identical histories
			r1, r2 := run(), run()
			assert.Equal(t, r1.History, r2.History)
			assert.True(t, r1.BestCandidate.Equal(r2.BestCandidate))
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{NameAnomalyDetection, NameEntityResolution, NameToyClustering}, r.Names())
	for _, name := range r.Names() {
		b, err := r.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, b.Name())
	}
	_, err := r.Get("fraud_detection")
	require.ErrorIs(t, err, sandbox.ErrUnknownBenchmark)
	assert.Contains(t, err.Error(), "anomaly_detection, entity_resolution, toy_clustering")
}

func TestBenchmarks_ExposePolicy(t *testing.T) {
	cases := map[string]sandbox.Bounds{
		NameAnomalyDetection: AnomalyPolicy,
		NameEntityResolution: EntityPolicy,
		NameToyClustering:    ClusteringPolicy,
	}
	for name, want := range cases {
		b, err := DefaultRegistry().Get(name)
		require.NoError(t, err)
		bounded, ok := b.(sandbox.Bounded)
		require.True(t, ok, name)
		assert.Equal(t, want, bounded.Policy(), name)
	}
}
