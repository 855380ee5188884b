package benchmarks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

func TestConfusion_F1(t *testing.T) {
	preds := []bool{true, true, false, false, true}
	labels := []bool{true, false, true, false, true}
	c := countConfusion(preds, labels)
	assert.Equal(t, confusion{tp: 2, fp: 1, fn: 1}, c)
	assert.InDelta(t, 2.0/3.0, c.f1(), 1e-12)
}

func TestConfusion_NoPositives_ZeroNotNaN(t *testing.T) {
	c := countConfusion([]bool{false, false}, []bool{false, false})
	assert.Equal(t, 0.0, c.f1())
	assert.Equal(t, 0.0, c.precision())
	assert.Equal(t, 0.0, c.recall())
}

func TestJaccardCharNgrams(t *testing.T) {
	assert.Equal(t, 1.0, jaccardCharNgrams("Wei Chen", "wei chen", 3))
	assert.Equal(t, 0.0, jaccardCharNgrams("ab", "abc", 3), "shorter than n")
	assert.Equal(t, 0.0, jaccardCharNgrams("abcd", "abcd", 0), "invalid n")
	// "abcd" -> {ab, bc, cd}; "abce" -> {ab, bc, ce}: 2 shared of 4
	assert.InDelta(t, 0.5, jaccardCharNgrams("abcd", "abce", 2), 1e-12)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "johnasmith", normalizeName("John-A-Smith"))
	assert.Equal(t, "fatima al zahra", normalizeName("  Fatima Al Zahra. "))
}

func TestMutateName_Deterministic(t *testing.T) {
	a := sandbox.NewRand(5)
	b := sandbox.NewRand(5)
	for i := 0; i < 20; i++ {
		assert.Equal(t, mutateName(a, "Alejandro Martinez"), mutateName(b, "Alejandro Martinez"))
	}
}

func TestPerturbSteps_Clip(t *testing.T) {
	rng := sandbox.NewRand(1)
	g := gaussianStep{stdDev: 100, bounds: sandbox.Range{Min: 0, Max: 1}}
	is := intStep{lo: -50, hi: 50, bounds: sandbox.IntRange{Min: 2, Max: 4}}
	for i := 0; i < 100; i++ {
		v := g.apply(rng, 0.5)
		assert.True(t, v >= 0 && v <= 1)
		n := is.apply(rng, 3)
		assert.True(t, n >= 2 && n <= 4)
	}
}

func TestToyClustering_TrueKScoresHigher(t *testing.T) {
	// GIVEN four well-separated blobs
	b := NewToyClustering()
	b.now = frozenClock()

	// WHEN scored with k=4 and k=2
	four := b.Evaluate(sandbox.NewCandidate(map[string]float64{"k": 4, "n_init": 10, "max_iter": 100}))
	two := b.Evaluate(sandbox.NewCandidate(map[string]float64{"k": 2, "n_init": 10, "max_iter": 100}))

	// THEN the true cluster count has the better silhouette
	assert.Greater(t, four.Quality, two.Quality)
	assert.False(t, math.IsNaN(four.Quality))
}

func TestToyClustering_EvaluatePure(t *testing.T) {
	b := NewToyClustering()
	b.now = frozenClock()
	c := b.InitialCandidate()
	assert.Equal(t, b.Evaluate(c), b.Evaluate(c))
}

func TestAnomalyDetection_InitialThresholdFindsSpikes(t *testing.T) {
	b := NewAnomalyDetection()
	b.now = frozenClock()
	s := b.Evaluate(b.InitialCandidate())
	assert.Greater(t, s.Quality, 0.5)
}

func TestClusteringPolicy_MatchesGovernanceCheck(t *testing.T) {
	tests := []struct {
		params map[string]float64
		want   bool
	}{
		{map[string]float64{"k": 2, "n_init": 5, "max_iter": 50}, true},
		{map[string]float64{"k": 8, "n_init": 30, "max_iter": 400}, true},
		{map[string]float64{"k": 9, "n_init": 10, "max_iter": 100}, false},
		{map[string]float64{"k": 3, "n_init": 4, "max_iter": 100}, false},
		{map[string]float64{"k": 3, "n_init": 10, "max_iter": 401}, false},
		{map[string]float64{"k": 3, "n_init": 10}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClusteringPolicy.Check(sandbox.NewCandidate(tt.params)), "%v", tt.params)
	}
}
