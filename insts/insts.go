// Package insts provides the instruction definitions and the text decoder of
// the simulated machine.
//
// The machine understands five operations, written one per line as
// "OPCODE DEST, SRC1, SRC2":
//   - ADD, SUB: executed by the add-class functional units
//   - MUL, DIV: executed by the mul-class functional units
//   - BEQ left, right, target: a conditional branch on left == right,
//     executed by the add-class units
//
// Source operands are either a register name (R0-R31) or an integer literal.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode("ADD R1, R2, R3")
//	fmt.Printf("Op: %v, Rd: %d, Src1: %v, Src2: %v\n", inst.Op, inst.Rd, inst.Src1, inst.Src2)
package insts
