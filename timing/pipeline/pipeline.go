// Package pipeline provides a Tomasulo out-of-order pipeline for cycle-accurate
// timing simulation: register renaming through a register alias table,
// reservation stations fed by a common data bus, in-order commit through a
// reorder buffer, and predict-not-taken speculation with flush on commit.
package pipeline

import (
	"log/slog"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions committed.
	Instructions uint64
	// Issued is the number of instructions issued, including flushed ones.
	Issued uint64
	// Stalls is the number of cycles in which the issue stage had an
	// instruction but could not issue it.
	Stalls uint64
	// ROBStalls is the number of stalls caused by a full reorder buffer.
	ROBStalls uint64
	// StationStalls is the number of stalls caused by busy reservation
	// stations.
	StationStalls uint64
	// Flushes is the number of pipeline flushes (due to branch mispredictions).
	Flushes uint64
	// Branch holds the branch prediction statistics.
	Branch BranchPredictorStats
}

// IPC returns the committed instructions per cycle.
func (s Statistics) IPC() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Instructions) / float64(s.Cycles)
}

// CPI returns the cycles per committed instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// DefaultInitialRegisters returns the register values a pipeline starts
// from unless configured otherwise: R1=10, R2=20, R3=30.
func DefaultInitialRegisters() map[uint8]int64 {
	return map[uint8]int64{1: 10, 2: 20, 3: 30}
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLatencyTable sets a custom latency table for instruction timing.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// WithInitialRegisters sets the register values restored by Reset.
func WithInitialRegisters(values map[uint8]int64) PipelineOption {
	return func(p *Pipeline) {
		p.SetInitialRegisters(values)
	}
}

// WithROBSize sets the number of reorder buffer entries.
func WithROBSize(size int) PipelineOption {
	return func(p *Pipeline) {
		if size > 0 {
			p.robSize = size
		}
	}
}

// WithStationCounts sets the number of add-class and mul-class reservation
// stations.
func WithStationCounts(add, mul int) PipelineOption {
	return func(p *Pipeline) {
		if add > 0 {
			p.addStations = add
		}
		if mul > 0 {
			p.mulStations = mul
		}
	}
}

// WithLogger sets the logger that receives one Debug record per event.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline implements the Tomasulo scheduler.
//
// A Pipeline is owned by a single caller; it is not safe for concurrent use.
type Pipeline struct {
	// Configuration, applied by Reset.
	program      []insts.Instruction
	latencyTable *latency.Table
	initialRegs  map[uint8]int64
	robSize      int
	addStations  int
	mulStations  int

	branchPredictor *BranchPredictor
	bus             CommonDataBus
	logger          *slog.Logger

	state   Snapshot
	history history
}

// NewPipeline creates a pipeline loaded with the given program.
func NewPipeline(program []insts.Instruction, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		latencyTable:    latency.NewTable(),
		initialRegs:     DefaultInitialRegisters(),
		robSize:         DefaultROBSize,
		addStations:     DefaultAddStations,
		mulStations:     DefaultMulStations,
		branchPredictor: NewBranchPredictor(),
		logger:          slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.Load(program)

	return p
}

// Load replaces the program and resets the pipeline. The program is not
// copied and must not be modified afterwards.
func (p *Pipeline) Load(program []insts.Instruction) {
	p.program = program
	p.Reset()
}

// Reset restores the initial registers and clears the RAT, ROB, stations,
// statistics and undo history. The loaded program is kept and issue starts
// again from its first instruction.
func (p *Pipeline) Reset() {
	queue := make([]int, len(p.program))
	for i := range queue {
		queue[i] = i
	}

	p.state = Snapshot{
		ROB:      NewReorderBuffer(p.robSize),
		Stations: NewStationPool(p.addStations, p.mulStations),
		Queue:    queue,
	}
	p.state.Registers.Load(p.initialRegs)

	p.bus.Reset()
	p.history.clear()
}

// SetLatencyTable sets the latency table used for instructions issued from
// now on.
func (p *Pipeline) SetLatencyTable(table *latency.Table) {
	p.latencyTable = table
}

// LatencyTable returns the current latency table.
func (p *Pipeline) LatencyTable() *latency.Table {
	return p.latencyTable
}

// SetInitialRegisters replaces the register values restored by Reset.
func (p *Pipeline) SetInitialRegisters(values map[uint8]int64) {
	p.initialRegs = make(map[uint8]int64, len(values))
	for reg, v := range values {
		p.initialRegs[reg] = v
	}
}

// InitialRegisters returns a copy of the register values restored by Reset.
func (p *Pipeline) InitialRegisters() map[uint8]int64 {
	values := make(map[uint8]int64, len(p.initialRegs))
	for reg, v := range p.initialRegs {
		values[reg] = v
	}
	return values
}

// Finished returns true when nothing is left to issue and nothing is in
// flight.
func (p *Pipeline) Finished() bool {
	return len(p.state.Queue) == 0 && p.state.ROB.Empty()
}

// Step advances the pipeline by one cycle and returns the cycle's events.
//
// The stages run in the fixed order Commit, WriteResult, Execute, Issue, so
// an instruction issued in this cycle starts executing in the next one and a
// result written in this cycle commits in the next one at the earliest.
// Calling Step on a finished pipeline changes nothing and returns a single
// EventDone.
func (p *Pipeline) Step() []Event {
	if p.Finished() {
		return []Event{{Cycle: p.state.Stats.Cycles, Kind: EventDone, ROB: -1}}
	}

	p.history.push(&p.state)
	p.state.Stats.Cycles++

	var events []Event
	events = p.commitStage(events)
	events = p.writeResultStage(events)
	p.executeStage()
	events = p.issueStage(events)

	p.logEvents(events)

	return events
}

// Undo restores the state from before the most recent Step. It returns false
// if there is no earlier state.
func (p *Pipeline) Undo() bool {
	prev, ok := p.history.pop()
	if !ok {
		return false
	}
	p.state = prev
	p.bus.Reset()
	return true
}

// HistoryDepth returns the number of cycles that can be undone.
func (p *Pipeline) HistoryDepth() int {
	return p.history.depth()
}

// RunCycles executes the pipeline for up to the given number of cycles.
// Returns true if still running, false if finished.
func (p *Pipeline) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles && !p.Finished(); i++ {
		p.Step()
	}
	return !p.Finished()
}

// Run executes the pipeline until it finishes or maxCycles cycles have been
// simulated in this call (0 means no limit). Returns true if it finished.
func (p *Pipeline) Run(maxCycles uint64) bool {
	for i := uint64(0); !p.Finished(); i++ {
		if maxCycles > 0 && i >= maxCycles {
			return false
		}
		p.Step()
	}
	return true
}

// Program returns the loaded program.
func (p *Pipeline) Program() []insts.Instruction {
	return p.program
}

// Cycle returns the number of cycles simulated since the last reset.
func (p *Pipeline) Cycle() uint64 {
	return p.state.Stats.Cycles
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.state.Stats
}

// Registers returns a copy of the architectural register file.
func (p *Pipeline) Registers() [insts.NumRegs]int64 {
	return p.state.Registers.R
}

// RAT returns a copy of the register alias table.
func (p *Pipeline) RAT() RAT {
	return p.state.RAT
}

// ROB returns a copy of the reorder buffer.
func (p *Pipeline) ROB() ReorderBuffer {
	return p.state.ROB.Clone()
}

// Stations returns a copy of the reservation stations.
func (p *Pipeline) Stations() []ReservationStation {
	return p.state.Stations.Clone().Stations
}

// Queue returns the program indices still waiting to issue.
func (p *Pipeline) Queue() []int {
	return append([]int(nil), p.state.Queue...)
}

// Timeline returns a copy of the per-instruction records, in issue order.
func (p *Pipeline) Timeline() []InstRecord {
	return append([]InstRecord(nil), p.state.Timeline...)
}

// Snapshot returns a deep copy of the whole pipeline state.
func (p *Pipeline) Snapshot() Snapshot {
	return p.state.Clone()
}

func (p *Pipeline) logEvents(events []Event) {
	for _, e := range events {
		p.logger.Debug(e.String(),
			"cycle", e.Cycle,
			"kind", e.Kind.String(),
			"tag", e.Tag,
			"rob", e.ROB,
		)
	}
}
