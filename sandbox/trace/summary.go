package trace

// TraceSummary aggregates statistics from a SearchTrace.
type TraceSummary struct {
	TotalDecisions  int
	AcceptedCount   int
	RejectedCount   int
	UngovernedCount int
	LastImprovement int     // step of the last acceptance; 0 if none
	LongestStall    int     // longest run of consecutive non-accepted steps
	MeanGain        float64 // mean finite improvement per acceptance
	OutcomeCounts   map[Outcome]int
}

// Summarize computes aggregate statistics from a SearchTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SearchTrace) *TraceSummary {
	summary := &TraceSummary{
		OutcomeCounts: make(map[Outcome]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	stall := 0
	gainSum, gainCount := 0.0, 0
	for _, d := range st.Decisions {
		summary.OutcomeCounts[d.Outcome]++
		switch d.Outcome {
		case OutcomeAccepted:
			summary.AcceptedCount++
			summary.LastImprovement = d.Step
			stall = 0
			if g := d.Gain(); g > 0 {
				gainSum += g
				gainCount++
			}
			continue
		case OutcomeRejected:
			summary.RejectedCount++
		case OutcomeUngoverned:
			summary.UngovernedCount++
		case OutcomeInitial:
			continue
		}
		stall++
		if stall > summary.LongestStall {
			summary.LongestStall = stall
		}
	}
	if gainCount > 0 {
		summary.MeanGain = gainSum / float64(gainCount)
	}

	return summary
}
