package sandbox

import "math"

// HistoryEntry records one loop iteration: the candidate tried at Step, its
// score, and the best total after the accept/reject comparison.
type HistoryEntry struct {
	Step      int                `json:"step"`
	Candidate map[string]float64 `json:"candidate"`
	Score     Score              `json:"score"`
	BestTotal float64            `json:"best_total"`
}

func newHistoryEntry(step int, c Candidate, s Score, bestTotal float64) HistoryEntry {
	return HistoryEntry{Step: step, Candidate: c.Params(), Score: s, BestTotal: bestTotal}
}

// RunResult is the sole artifact of a run handed to reporting and
// persistence. Its JSON shape is the contract with those layers.
type RunResult struct {
	Benchmark     string         `json:"benchmark"`
	BestCandidate Candidate      `json:"best_candidate"`
	BestScore     Score          `json:"best_score"`
	History       []HistoryEntry `json:"history"`
}

// BestStep returns the first step whose total equals the best total, or -1
// when no step is governed. The loop keeps the first candidate to reach a
// maximum, so this is the step the best candidate was proposed at.
func (r *RunResult) BestStep() int {
	best := r.BestScore.Total()
	if math.IsInf(best, -1) {
		return -1
	}
	for _, e := range r.History {
		if e.Score.Total() == best {
			return e.Step
		}
	}
	return -1
}

// AcceptedSteps returns the steps at which the best total changed, including
// step 0 when its candidate is governed.
func (r *RunResult) AcceptedSteps() []int {
	var steps []int
	prev := math.Inf(-1)
	for _, e := range r.History {
		if e.BestTotal > prev {
			steps = append(steps, e.Step)
		}
		prev = e.BestTotal
	}
	return steps
}
