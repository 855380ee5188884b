package sandbox

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/evolve-sandbox/sandbox/trace"
)

const (
	// DefaultSteps is the number of search steps when none is configured.
	DefaultSteps = 25
	// DefaultSeed is the base seed for proposal seeds (step i uses Seed+i).
	DefaultSeed int64 = 123
)

// LoopConfig configures a single run of the search loop.
type LoopConfig struct {
	Steps int   // number of propose/evaluate steps after step 0
	Seed  int64 // base seed; step i proposes with Seed+i
}

// DefaultLoopConfig returns the defaults used by the CLI.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{Steps: DefaultSteps, Seed: DefaultSeed}
}

// Validate checks that the configuration describes a runnable search.
func (c LoopConfig) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	return nil
}

// StepEvent is delivered to observers after each step's comparison.
type StepEvent struct {
	Benchmark string
	Entry     HistoryEntry
	Outcome   trace.Outcome
}

// StepObserver receives one event per history entry, in step order.
// Observers must not retain or mutate loop state.
type StepObserver interface {
	ObserveStep(ev StepEvent)
}

// StepObserverFunc adapts a function to StepObserver.
type StepObserverFunc func(ev StepEvent)

// ObserveStep calls f(ev).
func (f StepObserverFunc) ObserveStep(ev StepEvent) { f(ev) }

// Loop is a greedy (1+1) hill climber: every proposal is a neighbor of the
// current best, and a proposal replaces the best only when its total is
// strictly greater. The loop recovers nothing itself; bounds clamping and
// governance belong to the benchmark.
//
// Thread-safety: a Loop runs on the calling goroutine and must not be shared
// between concurrent Run calls.
type Loop struct {
	Benchmark Benchmark
	Observers []StepObserver
	Trace     *trace.SearchTrace // nil disables decision tracing
}

// NewLoop creates a Loop over benchmark with no observers and no trace.
func NewLoop(benchmark Benchmark) *Loop {
	return &Loop{Benchmark: benchmark}
}

// Run executes cfg.Steps search steps and returns the Run Result.
// The only errors are configuration errors reported before any benchmark
// call; a panic from the benchmark propagates to the caller.
func (l *Loop) Run(cfg LoopConfig) (*RunResult, error) {
	if l.Benchmark == nil {
		return nil, errors.New("loop has no benchmark")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid loop config: %w", err)
	}
	name := l.Benchmark.Name()
	logrus.Infof("Starting search on %s: steps=%d seed=%d", name, cfg.Steps, cfg.Seed)

	best := l.Benchmark.InitialCandidate()
	bestScore := l.Benchmark.Evaluate(best)
	if !bestScore.GovernanceOK {
		logrus.Warnf("%s: initial candidate fails governance (out of bounds: %v); best total stays -Inf until a governed candidate is accepted",
			name, l.violations(best))
	}

	history := make([]HistoryEntry, 0, cfg.Steps+1)
	history = append(history, newHistoryEntry(0, best, bestScore, bestScore.Total()))
	l.emit(name, best, history[0], trace.OutcomeInitial, math.Inf(-1))

	for i := 1; i <= cfg.Steps; i++ {
		cand := l.Benchmark.Propose(best, cfg.Seed+int64(i))
		score := l.Benchmark.Evaluate(cand)

		incumbent := bestScore.Total()
		outcome := classify(score, incumbent)
		if outcome == trace.OutcomeAccepted {
			best, bestScore = cand, score
		}

		entry := newHistoryEntry(i, cand, score, bestScore.Total())
		history = append(history, entry)
		l.emit(name, cand, entry, outcome, incumbent)
	}

	logrus.Infof("Search on %s complete: best total=%.6f after %d steps", name, bestScore.Total(), cfg.Steps)
	return &RunResult{
		Benchmark:     name,
		BestCandidate: best,
		BestScore:     bestScore,
		History:       history,
	}, nil
}

// classify applies the acceptance rule. Ties keep the incumbent, and a
// -Inf total can never be strictly greater than anything.
func classify(score Score, incumbent float64) trace.Outcome {
	switch {
	case score.Total() > incumbent:
		return trace.OutcomeAccepted
	case !score.GovernanceOK:
		return trace.OutcomeUngoverned
	default:
		return trace.OutcomeRejected
	}
}

// violations names the parameters of c outside the benchmark's policy.
// Empty when the benchmark does not expose a policy.
func (l *Loop) violations(c Candidate) []string {
	b, ok := l.Benchmark.(Bounded)
	if !ok {
		return nil
	}
	return b.Policy().Violations(c)
}

func (l *Loop) emit(name string, cand Candidate, entry HistoryEntry, outcome trace.Outcome, incumbent float64) {
	if entry.Score.GovernanceOK {
		logrus.Debugf("[step %04d] %s total=%.6f best=%.6f quality=%.4f latency=%.3fms",
			entry.Step, outcome, entry.Score.Total(), entry.BestTotal, entry.Score.Quality, entry.Score.LatencyMs)
	} else {
		logrus.Debugf("[step %04d] %s best=%.6f quality=%.4f latency=%.3fms out_of_bounds=%v",
			entry.Step, outcome, entry.BestTotal, entry.Score.Quality, entry.Score.LatencyMs, l.violations(cand))
	}

	if l.Trace.Enabled() {
		l.Trace.RecordDecision(trace.DecisionRecord{
			Step:           entry.Step,
			Outcome:        outcome,
			Total:          entry.Score.Total(),
			IncumbentTotal: incumbent,
			BestTotal:      entry.BestTotal,
		})
	}
	ev := StepEvent{Benchmark: name, Entry: entry, Outcome: outcome}
	for _, o := range l.Observers {
		o.ObserveStep(ev)
	}
}
