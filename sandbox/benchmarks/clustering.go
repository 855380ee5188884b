package benchmarks

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

// ClusteringPolicy is the governance policy for k-means hyperparameters.
var ClusteringPolicy = sandbox.Bounds{
	Ints: map[string]sandbox.IntRange{
		"k":        {Min: 2, Max: 8},
		"n_init":   {Min: 5, Max: 30},
		"max_iter": {Min: 50, Max: 400},
	},
}

// ClusteringBudget caps the scoring latency of toy clustering.
var ClusteringBudget = sandbox.LatencyBudget{MaxLatencyMs: 250}

// blob centers of the synthetic dataset
var clusterCenters = [][]float64{{0, 0}, {5, 5}, {0, 6}, {6, 0}}

const (
	clusterPointsPerBlob = 75
	clusterBlobStdDev    = 0.8
	kmeansTolerance      = 1e-6
)

// ToyClustering tunes k-means hyperparameters on four Gaussian blobs.
// Quality is the silhouette coefficient of the best of n_init restarts.
type ToyClustering struct {
	points  [][]float64
	dataKey sandbox.SimulationKey
	steps   map[string]intStep
	now     func() time.Time
}

// NewToyClustering generates 300 points in four isotropic blobs.
func NewToyClustering() *ToyClustering {
	key := sandbox.NewSimulationKey(sandbox.DefaultDatasetSeed)
	rng := sandbox.NewPartitionedRNG(key).ForSubsystem(sandbox.SubsystemDataset)

	points := make([][]float64, 0, len(clusterCenters)*clusterPointsPerBlob)
	for _, c := range clusterCenters {
		for i := 0; i < clusterPointsPerBlob; i++ {
			points = append(points, []float64{
				c[0] + rng.NormFloat64()*clusterBlobStdDev,
				c[1] + rng.NormFloat64()*clusterBlobStdDev,
			})
		}
	}

	return &ToyClustering{
		points:  points,
		dataKey: key,
		steps: map[string]intStep{
			"k":        {lo: -1, hi: 1, bounds: ClusteringPolicy.Ints["k"]},
			"n_init":   {lo: -2, hi: 2, bounds: ClusteringPolicy.Ints["n_init"]},
			"max_iter": {lo: -25, hi: 25, bounds: ClusteringPolicy.Ints["max_iter"]},
		},
		now: time.Now,
	}
}

func (b *ToyClustering) Name() string { return NameToyClustering }

func (b *ToyClustering) InitialCandidate() sandbox.Candidate {
	return sandbox.NewCandidate(map[string]float64{"k": 3, "n_init": 10, "max_iter": 100})
}

// Propose perturbs parameters in sorted-name order so the draw sequence is
// fixed for a given seed.
func (b *ToyClustering) Propose(base sandbox.Candidate, seed int64) sandbox.Candidate {
	rng := sandbox.NewRand(seed)
	initial := b.InitialCandidate()
	params := make(map[string]float64, len(b.steps))
	for _, name := range initial.Names() {
		params[name] = float64(b.steps[name].apply(rng, baseInt(base, initial, name)))
	}
	return sandbox.NewCandidate(params)
}

// Evaluate runs k-means with the candidate's hyperparameters. Values outside
// the policy are clipped into it for the computation so that evaluation cost
// stays bounded; the gate still reports them as violations.
func (b *ToyClustering) Policy() sandbox.Bounds { return ClusteringPolicy }

func (b *ToyClustering) Evaluate(c sandbox.Candidate) sandbox.Score {
	paramsOK := ClusteringPolicy.Check(c)
	k, kOK := c.Int("k")
	nInit, _ := c.Int("n_init")
	maxIter, _ := c.Int("max_iter")
	k = ClusteringPolicy.Ints["k"].Clip(k)
	nInit = ClusteringPolicy.Ints["n_init"].Clip(nInit)
	maxIter = ClusteringPolicy.Ints["max_iter"].Clip(maxIter)

	var quality float64
	latency := elapsedMs(b.now, func() {
		if !kOK {
			return
		}
		rng := sandbox.NewPartitionedRNG(b.dataKey).Fresh(sandbox.SubsystemEvaluate)
		labels := bestOfKMeans(rng, b.points, k, nInit, maxIter)
		quality = silhouette(b.points, labels, k)
	})

	return sandbox.Score{
		Quality:      quality,
		LatencyMs:    latency,
		GovernanceOK: sandbox.Gate(paramsOK, ClusteringBudget.Within(latency)),
	}
}

// bestOfKMeans runs nInit restarts of Lloyd's algorithm and returns the
// labels with the lowest inertia.
func bestOfKMeans(rng *rand.Rand, points [][]float64, k, nInit, maxIter int) []int {
	var best []int
	bestInertia := math.Inf(1)
	for r := 0; r < nInit; r++ {
		labels, inertia := kmeans(rng, points, k, maxIter)
		if inertia < bestInertia {
			best, bestInertia = labels, inertia
		}
	}
	return best
}

func kmeans(rng *rand.Rand, points [][]float64, k, maxIter int) ([]int, float64) {
	centroids := seedCentroids(rng, points, k)
	labels := make([]int, len(points))
	dim := len(points[0])

	for iter := 0; iter < maxIter; iter++ {
		assign(points, centroids, labels)

		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		shift := 0.0
		for j := range centroids {
			if counts[j] == 0 {
				continue // empty cluster keeps its centroid
			}
			floats.Scale(1/float64(counts[j]), sums[j])
			shift = math.Max(shift, floats.Distance(sums[j], centroids[j], 2))
			centroids[j] = sums[j]
		}
		if shift <= kmeansTolerance {
			break
		}
	}
	return labels, assign(points, centroids, labels)
}

// seedCentroids picks initial centroids with k-means++.
func seedCentroids(rng *rand.Rand, points [][]float64, k int) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, floats.ScaleTo(make([]float64, len(points[0])), 1, points[rng.Intn(len(points))]))

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		for i, p := range points {
			d := nearest(p, centroids)
			d2[i] = d * d
		}
		target := rng.Float64() * floats.Sum(d2)
		idx := len(points) - 1
		for i, w := range d2 {
			target -= w
			if target < 0 {
				idx = i
				break
			}
		}
		centroids = append(centroids, floats.ScaleTo(make([]float64, len(points[idx])), 1, points[idx]))
	}
	return centroids
}

// assign labels each point with its nearest centroid and returns the inertia.
func assign(points, centroids [][]float64, labels []int) float64 {
	inertia := 0.0
	for i, p := range points {
		bestJ, bestD := 0, math.Inf(1)
		for j, c := range centroids {
			if d := floats.Distance(p, c, 2); d < bestD {
				bestJ, bestD = j, d
			}
		}
		labels[i] = bestJ
		inertia += bestD * bestD
	}
	return inertia
}

func nearest(p []float64, centroids [][]float64) float64 {
	best := math.Inf(1)
	for _, c := range centroids {
		best = math.Min(best, floats.Distance(p, c, 2))
	}
	return best
}

// silhouette returns the mean silhouette coefficient. Points in singleton
// clusters score 0; fewer than two non-empty clusters score 0 overall.
func silhouette(points [][]float64, labels []int, k int) float64 {
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	nonEmpty := 0
	for _, s := range sizes {
		if s > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return 0
	}

	coeffs := make([]float64, len(points))
	sums := make([]float64, k)
	for i, p := range points {
		for j := range sums {
			sums[j] = 0
		}
		for j, q := range points {
			if i != j {
				sums[labels[j]] += floats.Distance(p, q, 2)
			}
		}
		own := labels[i]
		if sizes[own] <= 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)
		bMin := math.Inf(1)
		for j := range sums {
			if j != own && sizes[j] > 0 {
				bMin = math.Min(bMin, sums[j]/float64(sizes[j]))
			}
		}
		if m := math.Max(a, bMin); m > 0 {
			coeffs[i] = (bMin - a) / m
		}
	}
	return stat.Mean(coeffs, nil)
}
