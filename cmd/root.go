package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/evolve-sandbox/sandbox"
	"github.com/inference-sim/evolve-sandbox/sandbox/archive"
	"github.com/inference-sim/evolve-sandbox/sandbox/benchmarks"
	"github.com/inference-sim/evolve-sandbox/sandbox/metrics"
	"github.com/inference-sim/evolve-sandbox/sandbox/report"
	"github.com/inference-sim/evolve-sandbox/sandbox/trace"
)

var (
	// CLI flags for `run`
	benchmarkName string // Benchmark to optimize
	steps         int    // Number of search steps after the seed evaluation
	seed          int64  // Base seed for proposals
	outDir        string // Directory for <benchmark>_report.json
	configPath    string // Optional YAML/TOML run config
	archivePath   string // Optional SQLite archive path
	metricsFile   string // Optional Prometheus text-format output
	traceLevel    string // Decision trace level
	logLevel      string // Log verbosity level

	// CLI flags for `summarize`
	summaryReport string // Report JSON to summarize
	summaryOut    string // Markdown output path
	summaryRunID  string // Archived run to summarize
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "evolve-sandbox",
	Short: "Evaluator-driven candidate search over governed toy benchmarks",
}

// runCmd runs the search loop on one benchmark and saves its report
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the search loop on a benchmark",
	Run: func(cmd *cobra.Command, args []string) {
		settings := runSettings{
			Benchmark:   benchmarkName,
			Loop:        sandbox.LoopConfig{Steps: steps, Seed: seed},
			OutDir:      outDir,
			Archive:     archivePath,
			MetricsFile: metricsFile,
			TraceLevel:  traceLevel,
			LogLevel:    logLevel,
		}
		if configPath != "" {
			file, err := LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			settings = settings.merge(file, cmd.Flags().Changed)
		}

		setLogLevel(settings.LogLevel)

		if _, err := executeRun(cmd.Context(), settings, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
	},
}

// summarizeCmd renders a Markdown summary of a saved or archived run
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Write a one-page Markdown summary of a run",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)
		if err := executeSummarize(cmd.Context(), summaryReport, archivePath, summaryRunID, summaryOut, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Summarize failed: %v", err)
		}
	},
}

// benchmarksCmd lists registered benchmark names
var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "List available benchmarks",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range benchmarks.DefaultRegistry().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// runOutcome records where a run's artifacts went.
type runOutcome struct {
	Result     *sandbox.RunResult
	ReportPath string
	RunID      string // empty unless archived
}

func executeRun(ctx context.Context, s runSettings, stdout io.Writer) (*runOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reg := benchmarks.DefaultRegistry()
	if err := s.Validate(reg); err != nil {
		return nil, err
	}
	bench, err := reg.Get(s.Benchmark)
	if err != nil {
		return nil, err
	}

	loop := sandbox.NewLoop(bench)
	if s.TraceLevel == string(trace.TraceLevelDecisions) {
		loop.Trace = trace.NewSearchTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	}
	var recorder *metrics.Recorder
	if s.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		loop.Observers = append(loop.Observers, recorder)
	}

	startTime := time.Now()
	result, err := loop.Run(s.Loop)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Run took %s", time.Since(startTime).Round(time.Millisecond))

	out := &runOutcome{Result: result, ReportPath: report.Path(s.OutDir, s.Benchmark)}
	if err := report.Save(result, out.ReportPath); err != nil {
		return nil, err
	}
	fmt.Fprintf(stdout, "Saved report: %s\n", absPath(out.ReportPath))

	if loop.Trace.Enabled() {
		summary := trace.Summarize(loop.Trace)
		logrus.Infof("Trace: accepted=%d rejected=%d ungoverned=%d longest_stall=%d mean_gain=%.4f",
			summary.AcceptedCount, summary.RejectedCount, summary.UngovernedCount, summary.LongestStall, summary.MeanGain)
	}

	if s.Archive != "" {
		out.RunID, err = archiveRun(ctx, s, result)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(stdout, "Archived run: %s\n", out.RunID)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(s.MetricsFile); err != nil {
			return nil, err
		}
		logrus.Infof("Wrote metrics to %s", s.MetricsFile)
	}
	return out, nil
}

func archiveRun(ctx context.Context, s runSettings, result *sandbox.RunResult) (string, error) {
	var store archive.Store = archive.NewSQLiteStore(s.Archive)
	if err := store.Init(ctx); err != nil {
		return "", err
	}
	defer func() {
		if err := archive.CloseIfSupported(store); err != nil {
			logrus.Warnf("closing archive %s: %v", s.Archive, err)
		}
	}()

	rec := archive.RunRecord{
		ID:        archive.NewRunID(),
		Benchmark: s.Benchmark,
		Seed:      s.Loop.Seed,
		Steps:     s.Loop.Steps,
		CreatedAt: time.Now().UTC(),
		Result:    result,
	}
	if err := store.SaveRun(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func executeSummarize(ctx context.Context, reportPath, archiveDB, runID, outPath string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		result *sandbox.RunResult
		source string
		err    error
	)
	switch {
	case reportPath != "" && archiveDB != "":
		return fmt.Errorf("--report and --archive are mutually exclusive")
	case reportPath != "":
		result, err = report.Load(reportPath)
		source = filepath.ToSlash(reportPath)
	case archiveDB != "":
		result, source, err = loadArchived(ctx, archiveDB, runID)
	default:
		return fmt.Errorf("one of --report or --archive is required")
	}
	if err != nil {
		return err
	}

	if err := report.WriteMarkdown(result, source, outPath); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote summary: %s\n", absPath(outPath))
	return nil
}

// loadArchived fetches runID, or the most recent run when runID is empty.
func loadArchived(ctx context.Context, dbPath, runID string) (*sandbox.RunResult, string, error) {
	store := archive.NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		return nil, "", err
	}
	defer store.Close()

	if runID == "" {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			return nil, "", err
		}
		if len(runs) == 0 {
			return nil, "", fmt.Errorf("archive %s has no runs", dbPath)
		}
		runID = runs[len(runs)-1].ID
	}

	rec, ok, err := store.GetRun(ctx, runID)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", fmt.Errorf("run %s not found in archive %s", runID, dbPath)
	}
	return rec.Result, fmt.Sprintf("%s#%s", filepath.ToSlash(dbPath), runID), nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&benchmarkName, "benchmark", benchmarks.NameToyClustering, "Benchmark name (see `benchmarks`)")
	runCmd.Flags().IntVar(&steps, "steps", sandbox.DefaultSteps, "Number of search steps")
	runCmd.Flags().Int64Var(&seed, "seed", sandbox.DefaultSeed, "Base seed for candidate proposals")
	runCmd.Flags().StringVar(&outDir, "out", report.DefaultOutDir, "Output folder for JSON reports")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML or TOML run config; explicit flags override it")
	runCmd.Flags().StringVar(&archivePath, "archive", "", "SQLite database to archive the run in")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus text-format metrics to this file")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	summarizeCmd.Flags().StringVar(&summaryReport, "report", "", "Path to report JSON")
	summarizeCmd.Flags().StringVar(&archivePath, "archive", "", "SQLite archive to read the run from")
	summarizeCmd.Flags().StringVar(&summaryRunID, "run-id", "", "Archived run ID (default: most recent)")
	summarizeCmd.Flags().StringVar(&summaryOut, "out", report.DefaultSummaryPath, "Output markdown path")
	summarizeCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(benchmarksCmd)
}
