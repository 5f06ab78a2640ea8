package emu

import (
	"errors"

	"github.com/sarchlab/tomasim/insts"
)

// ErrMaxInstructions is returned when the instruction limit is reached
// before the program runs off its end.
var ErrMaxInstructions = errors.New("max instructions reached")

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the program counter moved past the last instruction.
	Exited bool

	// Taken is true if the instruction was a taken branch.
	Taken bool

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator executes a decoded program functionally, one instruction at a
// time and in program order. A taken BEQ jumps to its target; a branch with
// an invalid target ends the program.
type Emulator struct {
	regFile *RegFile
	program []insts.Instruction
	pc      int

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithInitialRegisters sets the register values the emulator starts from.
func WithInitialRegisters(values map[uint8]int64) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.Load(values)
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new functional emulator for the given program.
func NewEmulator(program []insts.Instruction, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		program: program,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// PC returns the index of the next instruction to execute.
func (e *Emulator) PC() int {
	return e.pc
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.pc < 0 || e.pc >= len(e.program) {
		return StepResult{Exited: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	inst := &e.program[e.pc]
	a := e.regFile.ReadOperand(inst.Src1)
	b := e.regFile.ReadOperand(inst.Src2)
	result := Compute(inst.Op, a, b)
	e.instructionCount++

	if inst.Op.IsBranch() {
		if BranchTaken(result) {
			e.pc = inst.Target
			if inst.Target == insts.NoTarget {
				e.pc = len(e.program)
			}
			return StepResult{Taken: true, Exited: e.pc >= len(e.program)}
		}
		e.pc++
		return StepResult{Exited: e.pc >= len(e.program)}
	}

	e.regFile.WriteReg(inst.Rd, result)
	e.pc++

	return StepResult{Exited: e.pc >= len(e.program)}
}

// Run executes instructions until the program ends or the instruction limit
// is hit. It returns the number of instructions executed.
func (e *Emulator) Run() (uint64, error) {
	for {
		result := e.Step()
		if result.Err != nil {
			return e.instructionCount, result.Err
		}
		if result.Exited {
			return e.instructionCount, nil
		}
	}
}
