package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/evolve-sandbox/sandbox"
	"github.com/inference-sim/evolve-sandbox/sandbox/archive"
	"github.com/inference-sim/evolve-sandbox/sandbox/benchmarks"
	"github.com/inference-sim/evolve-sandbox/sandbox/report"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}

func smallRun(dir string) runSettings {
	return runSettings{
		Benchmark:   benchmarks.NameAnomalyDetection,
		Loop:        sandbox.LoopConfig{Steps: 3, Seed: 11},
		OutDir:      filepath.Join(dir, "reports"),
		Archive:     filepath.Join(dir, "runs.db"),
		MetricsFile: filepath.Join(dir, "metrics", "sandbox.prom"),
		TraceLevel:  "decisions",
	}
}

func TestExecuteRun_WritesReportArchiveAndMetrics(t *testing.T) {
	// GIVEN a small run with every output enabled
	dir := t.TempDir()
	s := smallRun(dir)
	var stdout bytes.Buffer

	// WHEN executed
	out, err := executeRun(context.Background(), s, &stdout)
	require.NoError(t, err)

	// THEN the report is at <out>/<benchmark>_report.json and loads back
	assert.Equal(t, filepath.Join(s.OutDir, "anomaly_detection_report.json"), out.ReportPath)
	loaded, err := report.Load(out.ReportPath)
	require.NoError(t, err)
	assert.Len(t, loaded.History, 4)
	assert.Equal(t, out.Result.BestCandidate.Params(), loaded.BestCandidate.Params())
	assert.Contains(t, stdout.String(), "Saved report: ")

	// AND the run is archived under the returned ID
	require.NotEmpty(t, out.RunID)
	store := archive.NewSQLiteStore(s.Archive)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	rec, ok, err := store.GetRun(context.Background(), out.RunID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "anomaly_detection", rec.Benchmark)
	assert.Equal(t, 3, rec.Steps)
	assert.Equal(t, int64(11), rec.Seed)

	// AND metrics were written
	data, err := os.ReadFile(s.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "evolve_sandbox_steps_total")
}

func TestExecuteRun_UnknownBenchmark(t *testing.T) {
	s := smallRun(t.TempDir())
	s.Benchmark = "does_not_exist"
	_, err := executeRun(context.Background(), s, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Available: "), err.Error())
	_, statErr := os.Stat(s.OutDir)
	assert.True(t, os.IsNotExist(statErr), "no output on validation failure")
}

func TestExecuteSummarize_FromReportAndArchive(t *testing.T) {
	dir := t.TempDir()
	s := smallRun(dir)
	out, err := executeRun(context.Background(), s, &bytes.Buffer{})
	require.NoError(t, err)

	// from the JSON report
	fromReport := filepath.Join(dir, "summary.md")
	var stdout bytes.Buffer
	require.NoError(t, executeSummarize(context.Background(), out.ReportPath, "", "", fromReport, &stdout))
	md, err := os.ReadFile(fromReport)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Latest Run Summary: `anomaly_detection`")
	assert.Contains(t, string(md), "**z_threshold**")
	assert.Contains(t, stdout.String(), "Wrote summary: ")

	// from the archive, defaulting to the latest run
	fromArchive := filepath.Join(dir, "archived.md")
	require.NoError(t, executeSummarize(context.Background(), "", s.Archive, "", fromArchive, &bytes.Buffer{}))
	md, err = os.ReadFile(fromArchive)
	require.NoError(t, err)
	assert.Contains(t, string(md), out.RunID)
}

func TestExecuteSummarize_Errors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "s.md")
	assert.Error(t, executeSummarize(context.Background(), "", "", "", out, &bytes.Buffer{}))
	assert.Error(t, executeSummarize(context.Background(), "a.json", "b.db", "", out, &bytes.Buffer{}))
	assert.Error(t, executeSummarize(context.Background(), filepath.Join(dir, "missing.json"), "", "", out, &bytes.Buffer{}))

	// empty archive
	assert.Error(t, executeSummarize(context.Background(), "", filepath.Join(dir, "empty.db"), "", out, &bytes.Buffer{}))
}

func TestBenchmarksCommand_ListsNames(t *testing.T) {
	var stdout bytes.Buffer
	benchmarksCmd.SetOut(&stdout)
	t.Cleanup(func() { benchmarksCmd.SetOut(nil) })

	benchmarksCmd.Run(benchmarksCmd, nil)

	assert.Equal(t, "anomaly_detection\nentity_resolution\ntoy_clustering\n", stdout.String())
}

func TestRunCommand_FlagDefaults(t *testing.T) {
	flags := runCmd.Flags()
	for name, want := range map[string]string{
		"benchmark":   "toy_clustering",
		"steps":       "25",
		"seed":        "123",
		"out":         "run_reports",
		"trace-level": "none",
	} {
		f := flags.Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, want, f.DefValue, name)
	}
}
