package benchmarks

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

const (
	anomalyNormalCount  = 1200
	anomalyOutlierCount = 60
	anomalyOutlierMean  = 6.0
)

// AnomalyPolicy bounds the z-score threshold.
var AnomalyPolicy = sandbox.Bounds{
	Floats: map[string]sandbox.Range{"z_threshold": {Min: 1.5, Max: 6.0}},
}

// AnomalyBudget caps the scoring latency of anomaly detection.
var AnomalyBudget = sandbox.LatencyBudget{MaxLatencyMs: 30}

// AnomalyDetection is a synthetic rare-event benchmark: detect injected
// spikes in a standard-normal signal by thresholding absolute z-scores.
// Quality is F1.
type AnomalyDetection struct {
	x      []float64
	labels []bool
	step   gaussianStep
	now    func() time.Time
}

// NewAnomalyDetection generates the dataset: 1200 N(0,1) samples and 60
// N(6,1) anomalies, shuffled.
func NewAnomalyDetection() *AnomalyDetection {
	rng := sandbox.NewPartitionedRNG(sandbox.NewSimulationKey(sandbox.DefaultDatasetSeed)).ForSubsystem(sandbox.SubsystemDataset)

	total := anomalyNormalCount + anomalyOutlierCount
	x := make([]float64, 0, total)
	labels := make([]bool, 0, total)
	for i := 0; i < anomalyNormalCount; i++ {
		x = append(x, rng.NormFloat64())
		labels = append(labels, false)
	}
	for i := 0; i < anomalyOutlierCount; i++ {
		x = append(x, anomalyOutlierMean+rng.NormFloat64())
		labels = append(labels, true)
	}
	rng.Shuffle(total, func(i, j int) {
		x[i], x[j] = x[j], x[i]
		labels[i], labels[j] = labels[j], labels[i]
	})

	return &AnomalyDetection{
		x:      x,
		labels: labels,
		step:   gaussianStep{stdDev: 0.25, bounds: AnomalyPolicy.Floats["z_threshold"]},
		now:    time.Now,
	}
}

func (b *AnomalyDetection) Name() string { return NameAnomalyDetection }

func (b *AnomalyDetection) InitialCandidate() sandbox.Candidate {
	return sandbox.NewCandidate(map[string]float64{"z_threshold": 3.0})
}

func (b *AnomalyDetection) Propose(base sandbox.Candidate, seed int64) sandbox.Candidate {
	rng := sandbox.NewRand(seed)
	thr := baseFloat(base, b.InitialCandidate(), "z_threshold")
	return sandbox.NewCandidate(map[string]float64{"z_threshold": b.step.apply(rng, thr)})
}

// Evaluate thresholds the z-scores. A missing threshold flags nothing.
func (b *AnomalyDetection) Policy() sandbox.Bounds { return AnomalyPolicy }

func (b *AnomalyDetection) Evaluate(c sandbox.Candidate) sandbox.Score {
	thr, ok := c.Float("z_threshold")
	if !ok {
		thr = math.Inf(1)
	}
	paramsOK := AnomalyPolicy.Check(c)

	preds := make([]bool, len(b.x))
	latency := elapsedMs(b.now, func() {
		mu, sigma := stat.PopMeanStdDev(b.x, nil)
		sigma += 1e-9
		for i, v := range b.x {
			preds[i] = math.Abs((v-mu)/sigma) >= thr
		}
	})

	return sandbox.Score{
		Quality:      countConfusion(preds, b.labels).f1(),
		LatencyMs:    latency,
		GovernanceOK: sandbox.Gate(paramsOK, AnomalyBudget.Within(latency)),
	}
}
