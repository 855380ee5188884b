// Package benchmarks provides the built-in scoring environments of the sandbox.
//
// Each benchmark generates a fixed synthetic dataset once at construction from
// sandbox.DefaultDatasetSeed and embeds its own governance gate (parameter
// bounds AND a latency budget) in Evaluate:
//   - toy_clustering: k-means hyperparameters scored by silhouette
//   - anomaly_detection: z-score threshold scored by F1
//   - entity_resolution: n-gram Jaccard threshold scored by F1
//
// DefaultRegistry exposes all three by name.
package benchmarks
