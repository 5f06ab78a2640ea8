package emu

import "github.com/sarchlab/tomasim/insts"

// Compute evaluates an operation on two operand values.
//
// DIV truncates toward zero and yields 0 when the divisor is 0. BEQ yields 1
// when the operands are equal and 0 otherwise; a result of 1 means the
// branch is taken.
func Compute(op insts.Op, a, b int64) int64 {
	switch op {
	case insts.OpADD:
		return a + b
	case insts.OpSUB:
		return a - b
	case insts.OpMUL:
		return a * b
	case insts.OpDIV:
		return Divide(a, b)
	case insts.OpBEQ:
		if a == b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Divide performs truncated integer division. Division by zero returns 0.
func Divide(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	// MinInt64 / -1 wraps to MinInt64.
	return a / b
}

// BranchTaken interprets the result of a BEQ computed by Compute.
func BranchTaken(result int64) bool {
	return result != 0
}
