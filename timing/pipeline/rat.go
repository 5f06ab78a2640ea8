package pipeline

import "github.com/sarchlab/tomasim/insts"

// RATEntry maps an architectural register to its in-flight producer.
type RATEntry struct {
	// Busy indicates the register is renamed to ROB.
	Busy bool
	// ROB is the index of the youngest in-flight producer of the register.
	ROB int
}

// RAT is the register alias table.
type RAT [insts.NumRegs]RATEntry

// Lookup returns the ROB index producing reg, if the register is renamed.
func (r RAT) Lookup(reg uint8) (int, bool) {
	if int(reg) >= len(r) || !r[reg].Busy {
		return 0, false
	}
	return r[reg].ROB, true
}

// Rename points reg at the ROB entry that will produce its next value.
func (r *RAT) Rename(reg uint8, rob int) {
	if int(reg) >= len(r) {
		return
	}
	r[reg] = RATEntry{Busy: true, ROB: rob}
}

// ClearIfMatch drops the mapping of reg only if it still points at rob. A
// later instruction that renamed reg again keeps its mapping.
func (r *RAT) ClearIfMatch(reg uint8, rob int) bool {
	if int(reg) >= len(r) || !r[reg].Busy || r[reg].ROB != rob {
		return false
	}
	r[reg] = RATEntry{}
	return true
}

// Clear drops every mapping.
func (r *RAT) Clear() {
	*r = RAT{}
}

// Renamed returns the number of registers that currently have a producer.
func (r RAT) Renamed() int {
	n := 0
	for _, e := range r {
		if e.Busy {
			n++
		}
	}
	return n
}
