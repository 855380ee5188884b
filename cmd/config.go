package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/evolve-sandbox/sandbox"
	"github.com/inference-sim/evolve-sandbox/sandbox/trace"
)

// RunConfig is the on-disk form of `run` settings. Unset fields fall back to
// flag defaults; flags set on the command line win over the file.
type RunConfig struct {
	Benchmark   string `yaml:"benchmark" toml:"benchmark"`
	Steps       *int   `yaml:"steps" toml:"steps"`
	Seed        *int64 `yaml:"seed" toml:"seed"`
	OutDir      string `yaml:"out" toml:"out"`
	Archive     string `yaml:"archive" toml:"archive"`
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`
	TraceLevel  string `yaml:"trace_level" toml:"trace_level"`
	LogLevel    string `yaml:"log" toml:"log"`
}

// LoadRunConfig reads a YAML (.yaml/.yml) or TOML (.toml) run config.
// Unknown keys are errors in both formats.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config %s: %w", path, err)
	}

	var cfg RunConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse run config %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parse run config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("parse run config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("run config %s: unsupported extension %q (want .yaml, .yml or .toml)", path, ext)
	}
	return &cfg, nil
}

// runSettings are the fully resolved inputs of one `run` invocation.
type runSettings struct {
	Benchmark   string
	Loop        sandbox.LoopConfig
	OutDir      string
	Archive     string
	MetricsFile string
	TraceLevel  string
	LogLevel    string
}

// merge overlays file values onto s for every flag the user did not set.
func (s runSettings) merge(file *RunConfig, changed func(flag string) bool) runSettings {
	if file == nil {
		return s
	}
	if file.Benchmark != "" && !changed("benchmark") {
		s.Benchmark = file.Benchmark
	}
	if file.Steps != nil && !changed("steps") {
		s.Loop.Steps = *file.Steps
	}
	if file.Seed != nil && !changed("seed") {
		s.Loop.Seed = *file.Seed
	}
	if file.OutDir != "" && !changed("out") {
		s.OutDir = file.OutDir
	}
	if file.Archive != "" && !changed("archive") {
		s.Archive = file.Archive
	}
	if file.MetricsFile != "" && !changed("metrics-file") {
		s.MetricsFile = file.MetricsFile
	}
	if file.TraceLevel != "" && !changed("trace-level") {
		s.TraceLevel = file.TraceLevel
	}
	if file.LogLevel != "" && !changed("log") {
		s.LogLevel = file.LogLevel
	}
	return s
}

// Validate checks settings against the benchmark registry.
func (s runSettings) Validate(reg *sandbox.Registry) error {
	if !reg.Has(s.Benchmark) {
		return &sandbox.UnknownBenchmarkError{Name: s.Benchmark, Available: reg.Names()}
	}
	if err := s.Loop.Validate(); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(s.TraceLevel) {
		return fmt.Errorf("invalid trace level %q (want none or decisions)", s.TraceLevel)
	}
	if s.OutDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
