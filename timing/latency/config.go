package latency

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/tomasim/insts"
)

// TimingConfig holds the execution latency of every opcode, in cycles.
type TimingConfig struct {
	// AddLatency is the latency of ADD. Default: 2 cycles.
	AddLatency uint64 `json:"add_latency"`

	// SubLatency is the latency of SUB. Default: 2 cycles.
	SubLatency uint64 `json:"sub_latency"`

	// MulLatency is the latency of MUL. Default: 8 cycles.
	MulLatency uint64 `json:"mul_latency"`

	// DivLatency is the latency of DIV. Default: 10 cycles.
	DivLatency uint64 `json:"div_latency"`

	// BranchLatency is the latency of BEQ condition evaluation.
	// Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		AddLatency:    2,
		SubLatency:    2,
		MulLatency:    8,
		DivLatency:    10,
		BranchLatency: 1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.AddLatency == 0 {
		return fmt.Errorf("add_latency must be > 0")
	}
	if c.SubLatency == 0 {
		return fmt.Errorf("sub_latency must be > 0")
	}
	if c.MulLatency == 0 {
		return fmt.Errorf("mul_latency must be > 0")
	}
	if c.DivLatency == 0 {
		return fmt.Errorf("div_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	return &TimingConfig{
		AddLatency:    c.AddLatency,
		SubLatency:    c.SubLatency,
		MulLatency:    c.MulLatency,
		DivLatency:    c.DivLatency,
		BranchLatency: c.BranchLatency,
	}
}

// Merge returns a copy of the config with the given per-opcode overrides
// applied. Overrides for unknown opcodes are ignored.
func (c *TimingConfig) Merge(overrides map[insts.Op]uint64) *TimingConfig {
	merged := c.Clone()
	for op, cycles := range overrides {
		switch op {
		case insts.OpADD:
			merged.AddLatency = cycles
		case insts.OpSUB:
			merged.SubLatency = cycles
		case insts.OpMUL:
			merged.MulLatency = cycles
		case insts.OpDIV:
			merged.DivLatency = cycles
		case insts.OpBEQ:
			merged.BranchLatency = cycles
		}
	}
	return merged
}
