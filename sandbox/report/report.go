// Package report writes and reads Run Result files and renders them as
// human-readable Markdown. It never alters a result.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

// DefaultOutDir is where the CLI writes reports when --out is not given.
const DefaultOutDir = "run_reports"

// DefaultSummaryPath is where the CLI writes Markdown summaries by default.
var DefaultSummaryPath = filepath.Join(DefaultOutDir, "latest_summary.md")

// Path returns the report file path for a benchmark inside outDir.
func Path(outDir, benchmark string) string {
	return filepath.Join(outDir, benchmark+"_report.json")
}

// Encode renders the result as indented JSON.
func Encode(result *sandbox.RunResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding run result: %w", err)
	}
	return data, nil
}

// Save writes the result to path, creating parent directories.
func Save(result *sandbox.RunResult, path string) error {
	data, err := Encode(result)
	if err != nil {
		return err
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	logrus.Debugf("Successfully wrote report to '%s'", path)
	return nil
}

// Decode parses a run result from JSON.
func Decode(data []byte) (*sandbox.RunResult, error) {
	var result sandbox.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing run result: %w", err)
	}
	return &result, nil
}

// Load reads a run result written by Save.
func Load(path string) (*sandbox.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	result, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
