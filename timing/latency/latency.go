// Package latency provides instruction timing for the reservation stations.
//
// The default values follow a classic textbook Tomasulo configuration and
// can be changed through TimingConfig.
package latency

import (
	"github.com/sarchlab/tomasim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given opcode.
// Unknown opcodes take 1 cycle.
func (t *Table) GetLatency(op insts.Op) uint64 {
	switch op {
	case insts.OpADD:
		return t.config.AddLatency
	case insts.OpSUB:
		return t.config.SubLatency
	case insts.OpMUL:
		return t.config.MulLatency
	case insts.OpDIV:
		return t.config.DivLatency
	case insts.OpBEQ:
		return t.config.BranchLatency
	default:
		return 1
	}
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
