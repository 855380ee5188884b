// Package trace provides decision-trace recording for search-loop analysis.
// This package has no dependencies on sandbox/; it stores pure data types.
package trace

import "math"

// Outcome classifies what the loop did with one step's candidate.
type Outcome string

const (
	// OutcomeInitial marks step 0: the seed candidate is always retained.
	OutcomeInitial Outcome = "initial"
	// OutcomeAccepted marks a candidate that strictly beat the incumbent.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected marks a governed candidate that did not beat the incumbent.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUngoverned marks a candidate vetoed by its governance gate.
	OutcomeUngoverned Outcome = "ungoverned"
)

// DecisionRecord captures a single accept/reject decision of the loop.
type DecisionRecord struct {
	Step           int
	Outcome        Outcome
	Total          float64 // proposed candidate's total (-Inf when ungoverned)
	IncumbentTotal float64 // best total before the comparison
	BestTotal      float64 // best total after the comparison
}

// Gain returns the improvement this decision made to the best total.
// Zero unless the record is an acceptance from a finite incumbent.
func (r DecisionRecord) Gain() float64 {
	if r.Outcome != OutcomeAccepted || math.IsInf(r.IncumbentTotal, 0) || math.IsNaN(r.IncumbentTotal) {
		return 0 // includes the first governed acceptance after an ungoverned seed
	}
	return r.BestTotal - r.IncumbentTotal
}
