package insts

import (
	"fmt"
	"strconv"
	"strings"
)

// Op represents an opcode.
type Op uint8

// Opcodes.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpBEQ
)

var opNames = map[Op]string{
	OpADD: "ADD",
	OpSUB: "SUB",
	OpMUL: "MUL",
	OpDIV: "DIV",
	OpBEQ: "BEQ",
}

// Ops lists every known opcode in a stable order.
var Ops = []Op{OpADD, OpSUB, OpMUL, OpDIV, OpBEQ}

// String returns the mnemonic of the opcode.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseOp looks up an opcode by mnemonic, ignoring case.
func ParseOp(s string) (Op, bool) {
	upper := strings.ToUpper(s)
	for op, name := range opNames {
		if name == upper {
			return op, true
		}
	}
	return OpUnknown, false
}

// IsBranch returns true for branch opcodes.
func (o Op) IsBranch() bool {
	return o == OpBEQ
}

// UnitClass identifies the functional-unit class that executes an opcode.
type UnitClass uint8

// Functional-unit classes.
const (
	UnitAdd UnitClass = iota // ADD, SUB, BEQ
	UnitMul                  // MUL, DIV
)

// String returns the short name of the class.
func (c UnitClass) String() string {
	if c == UnitMul {
		return "MUL"
	}
	return "ADD"
}

// Class returns the functional-unit class that executes the opcode.
func (o Op) Class() UnitClass {
	switch o {
	case OpMUL, OpDIV:
		return UnitMul
	default:
		return UnitAdd
	}
}

// NumRegs is the number of architectural registers.
const NumRegs = 32

// RegName returns the assembly name of a register.
func RegName(reg uint8) string {
	return "R" + strconv.Itoa(int(reg))
}

// ParseReg parses a register name (R0-R31, case-insensitive).
func ParseReg(s string) (uint8, bool) {
	if len(s) < 2 || (s[0] != 'R' && s[0] != 'r') {
		return 0, false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n >= NumRegs {
		return 0, false
	}
	return uint8(n), true
}

// OperandKind tells whether an operand names a register or holds a literal.
type OperandKind uint8

// Operand kinds.
const (
	OperandRegister OperandKind = iota
	OperandImmediate
)

// Operand is a source operand, resolved once at decode time.
type Operand struct {
	Kind OperandKind
	Reg  uint8 // Register number, valid for OperandRegister
	Imm  int64 // Literal value, valid for OperandImmediate

	// Coerced is set when the source token was neither a register name nor
	// an integer literal and the operand was replaced by Immediate(0).
	Coerced bool
}

// Register returns a register operand.
func Register(reg uint8) Operand {
	return Operand{Kind: OperandRegister, Reg: reg}
}

// Immediate returns a literal operand.
func Immediate(value int64) Operand {
	return Operand{Kind: OperandImmediate, Imm: value}
}

// IsRegister returns true if the operand names a register.
func (o Operand) IsRegister() bool {
	return o.Kind == OperandRegister
}

// String returns the assembly form of the operand.
func (o Operand) String() string {
	if o.IsRegister() {
		return RegName(o.Reg)
	}
	return strconv.FormatInt(o.Imm, 10)
}

// NoTarget marks a branch whose target is not a valid program index.
const NoTarget = -1

// Instruction is a decoded instruction. It is never modified after decode.
type Instruction struct {
	Index int // Position in the program
	Line  int // Zero-based line in the source listing
	Op    Op  // Operation code

	Rd   uint8   // Destination register, unused by branches
	Src1 Operand // First source; left condition operand for branches
	Src2 Operand // Second source; right condition operand for branches

	// Target is the program index a taken branch redirects to, or NoTarget.
	Target int
}

// WritesReg returns true if the instruction updates a register at commit.
func (i *Instruction) WritesReg() bool {
	return !i.Op.IsBranch()
}

// String returns the assembly form of the instruction.
func (i *Instruction) String() string {
	if i.Op.IsBranch() {
		target := "?"
		if i.Target != NoTarget {
			target = strconv.Itoa(i.Target)
		}
		return fmt.Sprintf("%s %s, %s, %s", i.Op, i.Src1, i.Src2, target)
	}
	return fmt.Sprintf("%s %s, %s, %s", i.Op, RegName(i.Rd), i.Src1, i.Src2)
}
