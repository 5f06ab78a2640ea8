// Package core provides the simulation engine facade.
// It wraps the Tomasulo pipeline to provide a high-level interface for front
// ends: load a listing, configure, step, undo and inspect.
package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// UndoEmpty is the status Undo reports when there is no earlier state.
const UndoEmpty = "already at earliest state"

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Commits is the number of instructions committed.
	Commits uint64
	// Issued is the number of instructions issued, including flushed ones.
	Issued uint64
	// Bubbles is the number of cycles in which issue stalled.
	Bubbles uint64
	// Flushes is the number of pipeline flushes.
	Flushes uint64
	// IPC is Commits / Cycles, 0 before the first cycle.
	IPC float64
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithLogger sets the logger used by the core and its pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithPipelineOptions passes options through to the underlying pipeline.
func WithPipelineOptions(opts ...pipeline.PipelineOption) Option {
	return func(c *Core) {
		c.pipelineOpts = append(c.pipelineOpts, opts...)
	}
}

// Core is the simulation engine seen by front ends.
//
// A Core is owned by a single caller; it is not safe for concurrent use.
type Core struct {
	// Pipeline is the underlying Tomasulo pipeline.
	Pipeline *pipeline.Pipeline

	decoder      *insts.Decoder
	logger       *slog.Logger
	pipelineOpts []pipeline.PipelineOption

	// Pending configuration, applied by Reset.
	timing      *latency.TimingConfig
	initialRegs map[uint8]int64
}

// NewCore creates a core with an empty program.
func NewCore(opts ...Option) *Core {
	c := &Core{
		decoder:     insts.NewDecoder(),
		logger:      slog.New(slog.DiscardHandler),
		timing:      latency.DefaultTimingConfig(),
		initialRegs: pipeline.DefaultInitialRegisters(),
	}

	for _, opt := range opts {
		opt(c)
	}

	pipeOpts := []pipeline.PipelineOption{
		pipeline.WithLatencyTable(latency.NewTableWithConfig(c.timing)),
		pipeline.WithInitialRegisters(c.initialRegs),
		pipeline.WithLogger(c.logger),
	}
	pipeOpts = append(pipeOpts, c.pipelineOpts...)
	c.Pipeline = pipeline.NewPipeline(nil, pipeOpts...)

	return c
}

// Load decodes a program listing, resets the core and returns the number of
// instructions kept. Malformed lines are dropped and logged.
func (c *Core) Load(lines []string) int {
	return c.LoadSource(lines, nil)
}

// LoadSource is Load for a listing read from a file. lineNumbers holds the
// 1-based source line of each entry in lines and is used in log messages;
// when it is shorter than lines, positions in lines are reported instead.
func (c *Core) LoadSource(lines []string, lineNumbers []int) int {
	sourceLine := func(i int) int {
		if i < len(lineNumbers) {
			return lineNumbers[i]
		}
		return i + 1
	}

	prog, dropped := c.decoder.DecodeProgram(lines)
	for _, d := range dropped {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		c.logger.Warn("dropping malformed line",
			"line", sourceLine(d.Line),
			"text", strings.TrimSpace(d.Text),
			"err", d.Err)
	}

	for i := range prog {
		inst := &prog[i]
		if !inst.Src1.Coerced && !inst.Src2.Coerced {
			continue
		}
		c.logger.Warn("coercing malformed operand to 0",
			"line", sourceLine(inst.Line),
			"text", strings.TrimSpace(lines[inst.Line]),
			"inst", inst.String())
	}

	c.apply()
	c.Pipeline.Load(prog)

	c.logger.Info("program loaded", "instructions", len(prog), "dropped", len(dropped))

	return len(prog)
}

// Configure merges per-opcode latency overrides into the default latency
// table and replaces the initial register values. A nil map leaves that part
// of the configuration unchanged. The new configuration takes effect on the
// next Reset or Load.
func (c *Core) Configure(latencies map[insts.Op]uint64, registers map[uint8]int64) error {
	if latencies != nil {
		timing := latency.DefaultTimingConfig().Merge(latencies)
		if err := timing.Validate(); err != nil {
			return fmt.Errorf("invalid latencies: %w", err)
		}
		c.timing = timing
	}

	if registers != nil {
		for reg := range registers {
			if int(reg) >= insts.NumRegs {
				return fmt.Errorf("invalid register %d", reg)
			}
		}
		c.initialRegs = make(map[uint8]int64, len(registers))
		for reg, v := range registers {
			c.initialRegs[reg] = v
		}
	}

	return nil
}

// SetTimingConfig replaces the whole latency configuration. It takes effect
// on the next Reset or Load.
func (c *Core) SetTimingConfig(config *latency.TimingConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid timing config: %w", err)
	}
	c.timing = config.Clone()
	return nil
}

// TimingConfig returns a copy of the latency configuration applied on reset.
func (c *Core) TimingConfig() *latency.TimingConfig {
	return c.timing.Clone()
}

// Reset applies the pending configuration and restarts the loaded program.
func (c *Core) Reset() {
	c.apply()
	c.Pipeline.Reset()
}

func (c *Core) apply() {
	c.Pipeline.SetLatencyTable(latency.NewTableWithConfig(c.timing))
	c.Pipeline.SetInitialRegisters(c.initialRegs)
}

// Step advances one cycle and returns its events.
func (c *Core) Step() []pipeline.Event {
	return c.Pipeline.Step()
}

// Undo restores the state from before the most recent Step and returns a
// status message.
func (c *Core) Undo() string {
	if !c.Pipeline.Undo() {
		return UndoEmpty
	}
	return fmt.Sprintf("restored cycle %d", c.Pipeline.Cycle())
}

// IsFinished returns true when the program has run to completion.
func (c *Core) IsFinished() bool {
	return c.Pipeline.Finished()
}

// Run steps until the program finishes or maxCycles cycles have run in this
// call (0 means no limit). Returns true if it finished.
func (c *Core) Run(maxCycles uint64) bool {
	return c.Pipeline.Run(maxCycles)
}

// Program returns the loaded program.
func (c *Core) Program() []insts.Instruction {
	return c.Pipeline.Program()
}

// Cycle returns the current cycle number.
func (c *Core) Cycle() uint64 {
	return c.Pipeline.Cycle()
}

// Stations returns a copy of the reservation stations.
func (c *Core) Stations() []pipeline.ReservationStation {
	return c.Pipeline.Stations()
}

// ROB returns a copy of the reorder buffer.
func (c *Core) ROB() pipeline.ReorderBuffer {
	return c.Pipeline.ROB()
}

// RAT returns a copy of the register alias table.
func (c *Core) RAT() pipeline.RAT {
	return c.Pipeline.RAT()
}

// Registers returns a copy of the architectural register file.
func (c *Core) Registers() [insts.NumRegs]int64 {
	return c.Pipeline.Registers()
}

// Timeline returns the per-instruction records in issue order.
func (c *Core) Timeline() []pipeline.InstRecord {
	return c.Pipeline.Timeline()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:  pipeStats.Cycles,
		Commits: pipeStats.Instructions,
		Issued:  pipeStats.Issued,
		Bubbles: pipeStats.Stalls,
		Flushes: pipeStats.Flushes,
		IPC:     pipeStats.IPC(),
	}
}
