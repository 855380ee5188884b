package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inference-sim/evolve-sandbox/sandbox"
	"github.com/inference-sim/evolve-sandbox/sandbox/trace"
)

// Replay rebuilds the decision trace of a finished run from its history.
// An entry is an acceptance when it raised the best total.
func Replay(result *sandbox.RunResult) *trace.SearchTrace {
	st := trace.NewSearchTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	incumbent := math.Inf(-1)
	for i, e := range result.History {
		outcome := trace.OutcomeRejected
		switch {
		case i == 0:
			outcome = trace.OutcomeInitial
		case e.BestTotal > incumbent:
			outcome = trace.OutcomeAccepted
		case !e.Score.GovernanceOK:
			outcome = trace.OutcomeUngoverned
		}
		st.RecordDecision(trace.DecisionRecord{
			Step:           e.Step,
			Outcome:        outcome,
			Total:          e.Score.Total(),
			IncumbentTotal: incumbent,
			BestTotal:      e.BestTotal,
		})
		incumbent = e.BestTotal
	}
	return st
}

// Markdown renders a one-page summary of a run. source names where the
// result came from (a report path or an archive run ID).
func Markdown(result *sandbox.RunResult, source string) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	bestStep := "none"
	if s := result.BestStep(); s >= 0 {
		bestStep = strconv.Itoa(s)
	}

	line("# Latest Run Summary: `%s`", result.Benchmark)
	line("")
	line("- Report: `%s`", source)
	line("- Best step: `%s`", bestStep)
	line("")
	line("## Best Candidate")
	line("")
	for _, name := range result.BestCandidate.Names() {
		v, _ := result.BestCandidate.Float(name)
		line("- **%s**: `%s`", name, strconv.FormatFloat(v, 'g', -1, 64))
	}
	line("")
	line("## Best Score")
	line("")
	line("- **quality**: `%s`", fmtFloat(result.BestScore.Quality))
	line("- **latency_ms**: `%s`", fmtFloat(result.BestScore.LatencyMs))
	line("- **governance_ok**: `%t`", result.BestScore.GovernanceOK)
	line("- **total**: `%s`", fmtFloat(result.BestScore.Total()))
	line("")

	summary := trace.Summarize(Replay(result))
	line("## Search")
	line("")
	line("- **steps**: `%d`", max(0, len(result.History)-1))
	line("- **accepted**: `%d`", summary.AcceptedCount)
	line("- **rejected**: `%d`", summary.RejectedCount)
	line("- **ungoverned**: `%d`", summary.UngovernedCount)
	line("- **last improvement**: `%d`", summary.LastImprovement)
	line("- **longest stall**: `%d`", summary.LongestStall)
	line("")
	line("## Notes")
	line("")
	line("- Candidates are accepted only when their total strictly improves on the incumbent.")
	line("- Governance gates (parameter bounds, latency budget) veto a candidate by forcing its total to -inf.")
	return b.String()
}

// WriteMarkdown renders the summary and writes it to path.
func WriteMarkdown(result *sandbox.RunResult, source, path string) error {
	return writeFile(path, []byte(Markdown(result, source)))
}

func fmtFloat(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
