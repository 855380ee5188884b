// Package metrics exports search-loop progress as Prometheus metrics.
package metrics

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

const namespace = "evolve_sandbox"

// LatencyBucketsMs are the histogram buckets for evaluation latency.
var LatencyBucketsMs = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}

// Recorder is a sandbox.StepObserver that keeps per-benchmark counters and
// gauges in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	steps     *prometheus.CounterVec
	bestTotal *prometheus.GaugeVec
	quality   *prometheus.GaugeVec
	latency   *prometheus.HistogramVec
}

var _ sandbox.StepObserver = (*Recorder)(nil)

// NewRecorder builds a Recorder with a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Search steps by outcome.",
		}, []string{"benchmark", "outcome"}),
		bestTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_total",
			Help:      "Best governed total so far. Unset while every candidate is vetoed.",
		}, []string{"benchmark"}),
		quality: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_quality",
			Help:      "Quality of the most recently evaluated candidate.",
		}, []string{"benchmark"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluate_latency_ms",
			Help:      "Measured evaluation latency in milliseconds.",
			Buckets:   LatencyBucketsMs,
		}, []string{"benchmark"}),
	}
	r.registry.MustRegister(r.steps, r.bestTotal, r.quality, r.latency)
	return r
}

// Registry exposes the recorder's registry for scraping or inspection.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveStep implements sandbox.StepObserver.
func (r *Recorder) ObserveStep(ev sandbox.StepEvent) {
	r.steps.WithLabelValues(ev.Benchmark, string(ev.Outcome)).Inc()
	r.quality.WithLabelValues(ev.Benchmark).Set(ev.Entry.Score.Quality)
	if lat := ev.Entry.Score.LatencyMs; !math.IsNaN(lat) && !math.IsInf(lat, 0) {
		r.latency.WithLabelValues(ev.Benchmark).Observe(lat)
	}
	if bt := ev.Entry.BestTotal; !math.IsInf(bt, 0) && !math.IsNaN(bt) {
		r.bestTotal.WithLabelValues(ev.Benchmark).Set(bt)
	}
}

// WriteTextfile writes the registry in the Prometheus text format, suitable
// for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir for %s: %w", path, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
