// Package emu provides the architectural state of the simulated machine and a
// functional (in-order, untimed) emulator used as a reference model.
package emu

import "github.com/sarchlab/tomasim/insts"

// RegFile represents the architectural register file.
// It holds the committed values of registers R0-R31. The timing model writes
// it only when an instruction commits.
type RegFile struct {
	// R holds registers R0-R31.
	R [insts.NumRegs]int64
}

// NewRegFile creates a register file with the given initial values.
// Registers not present in the map start at 0.
func NewRegFile(initial map[uint8]int64) *RegFile {
	r := &RegFile{}
	r.Load(initial)
	return r
}

// Load clears all registers and then applies the given values.
// Entries for registers outside R0-R31 are ignored.
func (r *RegFile) Load(values map[uint8]int64) {
	r.R = [insts.NumRegs]int64{}
	for reg, v := range values {
		r.WriteReg(reg, v)
	}
}

// ReadReg reads a register value. Registers >= 32 read as 0.
func (r *RegFile) ReadReg(reg uint8) int64 {
	if int(reg) >= insts.NumRegs {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a value to a register. Writes to registers >= 32 are ignored.
func (r *RegFile) WriteReg(reg uint8, value int64) {
	if int(reg) >= insts.NumRegs {
		return
	}
	r.R[reg] = value
}

// ReadOperand returns the value of a source operand against this register
// file: the register's value, or the literal itself.
func (r *RegFile) ReadOperand(op insts.Operand) int64 {
	if op.IsRegister() {
		return r.ReadReg(op.Reg)
	}
	return op.Imm
}

// Snapshot returns the register values as a map, omitting zero registers.
func (r *RegFile) Snapshot() map[uint8]int64 {
	m := make(map[uint8]int64)
	for i, v := range r.R {
		if v != 0 {
			m[uint8(i)] = v
		}
	}
	return m
}
