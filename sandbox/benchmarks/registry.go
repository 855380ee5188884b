package benchmarks

import "github.com/inference-sim/evolve-sandbox/sandbox"

// Registered benchmark names.
const (
	NameToyClustering    = "toy_clustering"
	NameAnomalyDetection = "anomaly_detection"
	NameEntityResolution = "entity_resolution"
)

var defaultRegistry = sandbox.NewRegistry(map[string]sandbox.Factory{
	NameToyClustering:    func() sandbox.Benchmark { return NewToyClustering() },
	NameAnomalyDetection: func() sandbox.Benchmark { return NewAnomalyDetection() },
	NameEntityResolution: func() sandbox.Benchmark { return NewEntityResolution() },
})

// DefaultRegistry returns the process-wide read-only registry of built-in
// benchmarks. Each Get builds a fresh benchmark with its own dataset.
func DefaultRegistry() *sandbox.Registry {
	return defaultRegistry
}
