package insts

import (
	"errors"
	"strconv"
	"strings"
)

// Errors reported for lines that cannot become an instruction. A line that
// fails to decode is dropped from the program.
var (
	ErrTooFewTokens   = errors.New("fewer than 4 tokens")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrBadDestination = errors.New("destination is not a register")
)

// DecodeError describes a dropped program line.
type DecodeError struct {
	Line int    // Zero-based line number in the source listing
	Text string // The offending line
	Err  error  // One of the Err* sentinels
}

func (e *DecodeError) Error() string {
	return "line " + strconv.Itoa(e.Line) + " (" + strings.TrimSpace(e.Text) + "): " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder turns program text into instructions.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes one line of the form "OPCODE DEST SRC1 SRC2". Commas are
// treated as whitespace and tokens past the fourth are ignored.
//
// The returned instruction has Index 0; DecodeProgram assigns indices.
func (d *Decoder) Decode(line string) (*Instruction, error) {
	tokens := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(tokens) < 4 {
		return nil, ErrTooFewTokens
	}

	op, ok := ParseOp(tokens[0])
	if !ok {
		return nil, ErrUnknownOpcode
	}

	inst := &Instruction{Op: op, Target: NoTarget}

	if op.IsBranch() {
		// BEQ left, right, target: the destination slot carries the left
		// condition operand.
		inst.Src1 = d.decodeOperand(tokens[1])
		inst.Src2 = d.decodeOperand(tokens[2])
		inst.Target = d.decodeTarget(tokens[3])
		return inst, nil
	}

	rd, ok := ParseReg(tokens[1])
	if !ok {
		return nil, ErrBadDestination
	}
	inst.Rd = rd
	inst.Src1 = d.decodeOperand(tokens[2])
	inst.Src2 = d.decodeOperand(tokens[3])

	return inst, nil
}

// DecodeProgram decodes a listing. Lines that fail to decode are skipped and
// reported in the returned slice; the kept instructions are numbered from 0
// in listing order and remember the listing line they came from.
func (d *Decoder) DecodeProgram(lines []string) ([]Instruction, []*DecodeError) {
	prog := make([]Instruction, 0, len(lines))
	var dropped []*DecodeError

	for i, line := range lines {
		inst, err := d.Decode(line)
		if err != nil {
			dropped = append(dropped, &DecodeError{Line: i, Text: line, Err: err})
			continue
		}
		inst.Index = len(prog)
		inst.Line = i
		prog = append(prog, *inst)
	}

	return prog, dropped
}

// decodeOperand resolves a source token. Anything that is not a register
// name is read as an integer literal; malformed literals become 0.
func (d *Decoder) decodeOperand(tok string) Operand {
	if reg, ok := ParseReg(tok); ok {
		return Register(reg)
	}

	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		op := Immediate(0)
		op.Coerced = true
		return op
	}

	return Immediate(v)
}

// decodeTarget parses a branch target. Non-numeric and negative targets
// decode to NoTarget.
func (d *Decoder) decodeTarget(tok string) int {
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return NoTarget
	}
	return v
}
