// Package sandbox provides the core of the evaluator-driven optimization sandbox.
//
// # Reading Guide
//
// Start with these files to understand the search kernel:
//   - candidate.go: Candidate, the immutable parameter bundle under search
//   - score.go: Score and its derived Total (the single scoring law)
//   - benchmark.go: the Benchmark contract every scoring environment implements
//   - governance.go: bounds and latency-budget helpers used to build gates
//   - loop.go: the (1+1) greedy hill-climbing loop and its step observers
//   - result.go: HistoryEntry, RunResult and their JSON shape
//
// # Architecture
//
// The sandbox package defines the contract and the loop; implementations live
// in sub-packages:
//   - sandbox/benchmarks/: toy clustering, anomaly detection, entity resolution
//   - sandbox/trace/: per-step decision trace and summary
//   - sandbox/report/: JSON report files and Markdown summaries
//   - sandbox/archive/: run archive (memory, SQLite)
//   - sandbox/metrics/: Prometheus step observer
//
// Benchmarks are looked up through a Registry, an explicit read-only map from
// name to Factory constructed once at startup.
package sandbox
