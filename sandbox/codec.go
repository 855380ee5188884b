package sandbox

import (
	"encoding/json"
	"math"
)

// JSON cannot carry infinities, so a -Inf total or best_total is written as
// null and read back as -Inf. A score's total is never read from JSON; it is
// recomputed from the three stored fields.

// MarshalJSON encodes the candidate as a plain parameter mapping.
func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Params())
}

// UnmarshalJSON decodes a plain parameter mapping.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var params map[string]float64
	if err := json.Unmarshal(data, &params); err != nil {
		return err
	}
	*c = NewCandidate(params)
	return nil
}

type scoreJSON struct {
	Quality      float64  `json:"quality"`
	LatencyMs    float64  `json:"latency_ms"`
	GovernanceOK bool     `json:"governance_ok"`
	Total        *float64 `json:"total"`
}

// MarshalJSON encodes the score with its derived total.
func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreJSON{
		Quality:      s.Quality,
		LatencyMs:    s.LatencyMs,
		GovernanceOK: s.GovernanceOK,
		Total:        finiteOrNil(s.Total()),
	})
}

// UnmarshalJSON decodes a score, ignoring the stored total.
func (s *Score) UnmarshalJSON(data []byte) error {
	var w scoreJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Score{Quality: w.Quality, LatencyMs: w.LatencyMs, GovernanceOK: w.GovernanceOK}
	return nil
}

type historyEntryJSON struct {
	Step      int                `json:"step"`
	Candidate map[string]float64 `json:"candidate"`
	Score     Score              `json:"score"`
	BestTotal *float64           `json:"best_total"`
}

// MarshalJSON encodes the entry; a -Inf best total becomes null.
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	params := e.Candidate
	if params == nil {
		params = map[string]float64{}
	}
	return json.Marshal(historyEntryJSON{
		Step:      e.Step,
		Candidate: params,
		Score:     e.Score,
		BestTotal: finiteOrNil(e.BestTotal),
	})
}

// UnmarshalJSON decodes the entry; a null best total becomes -Inf.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var w historyEntryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	bestTotal := math.Inf(-1)
	if w.BestTotal != nil {
		bestTotal = *w.BestTotal
	}
	*e = HistoryEntry{Step: w.Step, Candidate: w.Candidate, Score: w.Score, BestTotal: bestTotal}
	return nil
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
