// Package benchmarks runs LC-2K microbenchmarks on every processor model and
// compares their timing.
package benchmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/lcsim/config"
	"github.com/sarchlab/lcsim/driver"
	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/loader"
)

// ErrMismatch is recorded when a model's final state differs from the
// single-cycle reference, or the reference differs from the expected values.
var ErrMismatch = errors.New("final state mismatch")

// BenchmarkResult holds the results of one benchmark on one model.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Model names the processor model
	Model string `json:"model"`

	// SimulatedCycles is zero for the single-cycle model
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired counts HALT
	InstructionsRetired uint64 `json:"instructions_retired"`

	CPI             float64 `json:"cpi"`
	StallCycles     uint64  `json:"stall_cycles"`
	PipelineFlushes uint64  `json:"pipeline_flushes"`

	// CacheHits/Misses (if cache enabled)
	CacheHits   uint64 `json:"cache_hits,omitempty"`
	CacheMisses uint64 `json:"cache_misses,omitempty"`

	// Matches is true when the final state equals the reference
	Matches bool `json:"matches"`

	// Error holds the fault or mismatch, if any
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program is the machine code, data words included
	Program []int32

	// ExpectedRegs and ExpectedMemory are checked against the reference run
	ExpectedRegs   map[int]int32
	ExpectedMemory map[int]int32
}

// Model is a named simulation configuration.
type Model struct {
	Name   string
	Config *config.SimConfig
}

// DefaultModels returns the single-cycle, multicycle, pipeline and
// cache-backed pipeline models.
func DefaultModels() []Model {
	models := make([]Model, 0, 4)
	for _, mode := range []config.Mode{config.ModeSingle, config.ModeMulticycle, config.ModePipeline} {
		cfg := config.DefaultSimConfig()
		cfg.Mode = mode
		models = append(models, Model{Name: string(mode), Config: cfg})
	}

	cached := config.DefaultSimConfig()
	cached.Cache.Enabled = true
	models = append(models, Model{Name: "pipeline+cache", Config: cached})

	return models
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Models are run in order for every benchmark. The reference is always
	// the single-cycle model.
	Models []Model

	// MaxCycles bounds every run. Zero means unbounded.
	MaxCycles uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Models:    DefaultModels(),
		MaxCycles: 100000,
		Output:    os.Stdout,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes every benchmark on every model and returns one result per
// pair, grouped by benchmark.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks)*len(h.config.Models))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench)...)
	}

	return results
}

func (h *Harness) runBenchmark(bench Benchmark) []BenchmarkResult {
	prog := &loader.Program{Words: bench.Program}

	refConfig := config.DefaultSimConfig()
	refConfig.Mode = config.ModeSingle
	reference, refErr := h.run(refConfig, prog)
	if refErr == nil {
		refErr = checkExpected(bench, reference)
	}

	results := make([]BenchmarkResult, 0, len(h.config.Models))
	for _, model := range h.config.Models {
		start := time.Now()
		out, err := h.run(model.Config, prog)
		wallTime := time.Since(start)

		switch {
		case refErr != nil:
			err = fmt.Errorf("reference: %w", refErr)
		case err == nil:
			err = compare(reference, out)
		}

		result := BenchmarkResult{
			Name:                bench.Name,
			Model:               model.Name,
			SimulatedCycles:     out.Summary.Cycles,
			InstructionsRetired: out.Summary.Instructions,
			CPI:                 out.Summary.CPI(),
			StallCycles:         out.Summary.Stalls,
			PipelineFlushes:     out.Summary.Flushes,
			Matches:             err == nil,
			WallTime:            wallTime,
		}
		if err != nil {
			result.Error = err.Error()
		}
		if out.Summary.Cache != nil {
			result.CacheHits = out.Summary.Cache.Hits
			result.CacheMisses = out.Summary.Cache.Misses
		}

		results = append(results, result)
	}

	return results
}

func (h *Harness) run(cfg *config.SimConfig, prog *loader.Program) (driver.Outcome, error) {
	cfg = cfg.Clone()
	cfg.Trace = false
	if h.config.MaxCycles > 0 {
		cfg.MaxCycles = h.config.MaxCycles
	}

	d, err := driver.New(cfg)
	if err != nil {
		return driver.Outcome{}, err
	}

	return d.Run(prog)
}

func checkExpected(bench Benchmark, out driver.Outcome) error {
	for reg, want := range bench.ExpectedRegs {
		if got := out.Regs.R[reg]; got != want {
			return fmt.Errorf("reg[%d] = %d, want %d: %w", reg, got, want, ErrMismatch)
		}
	}
	for addr, want := range bench.ExpectedMemory {
		if got := out.Memory.Read(addr); got != want {
			return fmt.Errorf("mem[%d] = %d, want %d: %w", addr, got, want, ErrMismatch)
		}
	}
	return nil
}

func compare(reference, out driver.Outcome) error {
	if reference.Regs.R != out.Regs.R {
		return fmt.Errorf("registers %v, want %v: %w", out.Regs.R, reference.Regs.R, ErrMismatch)
	}
	if !slices.Equal(reference.Memory.Words(emu.MaxMemory), out.Memory.Words(emu.MaxMemory)) {
		return fmt.Errorf("memory: %w", ErrMismatch)
	}
	return nil
}

// PrintResults outputs benchmark results as a table.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	t := table.NewWriter()
	t.SetOutputMirror(h.config.Output)
	t.SetTitle("LC-2K Timing Benchmark Results")
	t.AppendHeader(table.Row{
		"Benchmark", "Model", "Cycles", "Insts", "CPI", "Stalls", "Flushes", "Hits", "Misses", "OK",
	})

	prev := ""
	for _, r := range results {
		if prev != "" && r.Name != prev {
			t.AppendSeparator()
		}
		prev = r.Name

		ok := "yes"
		if !r.Matches {
			ok = r.Error
		}

		t.AppendRow(table.Row{
			r.Name, r.Model, r.SimulatedCycles, r.InstructionsRetired,
			fmt.Sprintf("%.3f", r.CPI), r.StallCycles, r.PipelineFlushes,
			r.CacheHits, r.CacheMisses, ok,
		})
	}

	t.Render()
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,model,cycles,instructions,cpi,stalls,flushes,cache_hits,cache_misses,matches")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%d,%d,%.3f,%d,%d,%d,%d,%t\n",
			r.Name,
			r.Model,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.StallCycles,
			r.PipelineFlushes,
			r.CacheHits,
			r.CacheMisses,
			r.Matches,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Models lists the model names in run order
	Models []string `json:"models"`
}

// ReportSummary contains aggregate statistics across all results.
type ReportSummary struct {
	// TotalResults is the number of benchmark and model pairs run
	TotalResults int `json:"total_results"`

	// Mismatches counts results whose final state was wrong
	Mismatches int `json:"mismatches"`

	// TotalWallTime is the total wall clock time for all runs
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalResults: len(results)}
	for _, r := range results {
		if !r.Matches {
			summary.Mismatches++
		}
		summary.TotalWallTime += r.WallTime
	}

	models := make([]string, 0, len(h.config.Models))
	for _, m := range h.config.Models {
		models = append(models, m.Name)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Models:    models,
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
