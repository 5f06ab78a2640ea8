// Package benchmarks provides timing benchmark infrastructure for the
// Tomasulo simulator: a set of small programs that stress one scheduling
// feature each, and a harness that runs them and reports the statistics.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the timing simulator
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsCommitted is the number of instructions that committed
	InstructionsCommitted uint64 `json:"instructions_committed"`

	// InstructionsIssued includes instructions later flushed
	InstructionsIssued uint64 `json:"instructions_issued"`

	// CPI is cycles per committed instruction
	CPI float64 `json:"cpi"`

	// StallCycles is the number of cycles issue was blocked
	StallCycles uint64 `json:"stall_cycles"`

	// ROBStalls is stalls due to a full reorder buffer
	ROBStalls uint64 `json:"rob_stalls"`

	// StationStalls is stalls due to busy reservation stations
	StationStalls uint64 `json:"station_stalls"`

	// PipelineFlushes is the number of misprediction flushes
	PipelineFlushes uint64 `json:"pipeline_flushes"`

	// Branch predictor stats
	BranchPredictions     uint64  `json:"branch_predictions,omitempty"`
	BranchCorrect         uint64  `json:"branch_correct,omitempty"`
	BranchMispredictions  uint64  `json:"branch_mispredictions,omitempty"`
	BranchAccuracyPercent float64 `json:"branch_accuracy_percent,omitempty"`

	// Finished is false if the cycle limit was hit
	Finished bool `json:"finished"`

	// Valid reports whether the final registers match the functional
	// emulator
	Valid bool `json:"valid"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Registers holds the initial register values. Nil means the
	// simulator defaults.
	Registers map[uint8]int64

	// Program is the assembly listing
	Program []string
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing is the latency configuration. Nil means the defaults.
	Timing *latency.TimingConfig

	// ROBSize is the number of reorder buffer entries
	ROBSize int

	// AddStations and MulStations are the reservation station counts
	AddStations int
	MulStations int

	// MaxCycles bounds every run
	MaxCycles uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Timing:      latency.DefaultTimingConfig(),
		ROBSize:     pipeline.DefaultROBSize,
		AddStations: pipeline.DefaultAddStations,
		MulStations: pipeline.DefaultMulStations,
		MaxCycles:   100000,
		Output:      os.Stdout,
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
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
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

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result, err := h.runBenchmark(bench)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) (BenchmarkResult, error) {
	prog, dropped := insts.NewDecoder().DecodeProgram(bench.Program)
	if len(dropped) > 0 {
		return BenchmarkResult{}, fmt.Errorf("benchmark %s: %w", bench.Name, dropped[0])
	}

	regs := bench.Registers
	if regs == nil {
		regs = pipeline.DefaultInitialRegisters()
	}

	pipe := pipeline.NewPipeline(prog,
		pipeline.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)),
		pipeline.WithInitialRegisters(regs),
		pipeline.WithROBSize(h.config.ROBSize),
		pipeline.WithStationCounts(h.config.AddStations, h.config.MulStations),
	)

	// Run simulation and measure time
	start := time.Now()
	finished := pipe.Run(h.config.MaxCycles)
	wallTime := time.Since(start)

	reference := emu.NewEmulator(prog,
		emu.WithInitialRegisters(regs),
		emu.WithMaxInstructions(h.config.MaxCycles),
	)
	_, refErr := reference.Run()

	stats := pipe.Stats()
	return BenchmarkResult{
		Name:                  bench.Name,
		Description:           bench.Description,
		SimulatedCycles:       stats.Cycles,
		InstructionsCommitted: stats.Instructions,
		InstructionsIssued:    stats.Issued,
		CPI:                   stats.CPI(),
		StallCycles:           stats.Stalls,
		ROBStalls:             stats.ROBStalls,
		StationStalls:         stats.StationStalls,
		PipelineFlushes:       stats.Flushes,
		BranchPredictions:     stats.Branch.Predictions,
		BranchCorrect:         stats.Branch.Correct,
		BranchMispredictions:  stats.Branch.Mispredictions,
		BranchAccuracyPercent: stats.Branch.Accuracy(),
		Finished:              finished,
		Valid:                 finished && refErr == nil && pipe.Registers() == reference.RegFile().R,
		WallTime:              wallTime,
	}, nil
}

// PrintResults writes one table row per benchmark. Branch columns are left
// blank for programs without branches.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	w := tabwriter.NewWriter(h.config.Output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "BENCHMARK\tCYCLES\tCOMMITTED\tCPI\tROB STALLS\tRS STALLS\tFLUSHES\tBRANCH ACC\tVALID")

	for _, r := range results {
		acc := ""
		if r.BranchPredictions > 0 {
			acc = fmt.Sprintf("%.1f%%", r.BranchAccuracyPercent)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\t%d\t%d\t%d\t%s\t%v\n",
			r.Name, r.SimulatedCycles, r.InstructionsCommitted, r.CPI,
			r.ROBStalls, r.StationStalls, r.PipelineFlushes, acc, r.Valid)
	}

	_ = w.Flush()
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,committed,issued,cpi,stalls,rob_stalls,station_stalls,flushes,valid")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%d,%d,%d,%d,%v\n",
			r.Name, r.SimulatedCycles, r.InstructionsCommitted, r.InstructionsIssued,
			r.CPI, r.StallCycles, r.ROBStalls, r.StationStalls, r.PipelineFlushes, r.Valid)
	}
}

// Machine describes the simulated machine a report was produced on.
type Machine struct {
	Timing      latency.TimingConfig `json:"timing"`
	ROBSize     int                  `json:"rob_size"`
	AddStations int                  `json:"add_stations"`
	MulStations int                  `json:"mul_stations"`
}

// BenchmarkReport is the JSON output of a harness run.
type BenchmarkReport struct {
	Machine  Machine           `json:"machine"`
	Results  []BenchmarkResult `json:"results"`
	AllValid bool              `json:"all_valid"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Machine: Machine{
			Timing:      *h.config.Timing,
			ROBSize:     h.config.ROBSize,
			AddStations: h.config.AddStations,
			MulStations: h.config.MulStations,
		},
		Results:  results,
		AllValid: true,
	}
	for _, r := range results {
		report.AllValid = report.AllValid && r.Valid
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
