// Package main provides the tomasim command line front end.
// Tomasim is a cycle-accurate simulator of Tomasulo's algorithm with a
// reorder buffer and predict-not-taken speculation.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// options holds the flags shared by every simulation command.
type options struct {
	configPath  string
	regs        map[string]int64
	example     bool
	verbose     bool
	robSize     int
	addStations int
	mulStations int
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "tomasim",
		Short: "A cycle-accurate Tomasulo simulator",
		Long: `Tomasim simulates out-of-order execution with Tomasulo's algorithm:
register renaming, reservation stations, a common data bus, in-order commit
through a reorder buffer and predict-not-taken speculation.

Programs are text listings, one instruction per line:
  ADD|SUB|MUL|DIV Rd, Rs|imm, Rt|imm
  BEQ Rs|imm, Rt|imm, target`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "path to timing configuration JSON file")
	flags.StringToInt64Var(&o.regs, "reg", nil, "initial register values, e.g. R1=10,R7=-3")
	flags.BoolVar(&o.example, "example", false, "use the built-in example program")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log every pipeline event")
	flags.IntVar(&o.robSize, "rob-size", pipeline.DefaultROBSize, "number of reorder buffer entries")
	flags.IntVar(&o.addStations, "add-stations", pipeline.DefaultAddStations, "number of add-class reservation stations")
	flags.IntVar(&o.mulStations, "mul-stations", pipeline.DefaultMulStations, "number of mul-class reservation stations")

	rootCmd.AddCommand(newRunCmd(o))
	rootCmd.AddCommand(newStepCmd(o))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBenchCmd(o))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a text logger on w. Verbose output includes the
// per-cycle pipeline events.
func (o *options) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadProgram returns the program named by args, or the example program.
func (o *options) loadProgram(args []string) (*loader.Program, error) {
	if o.example {
		return loader.ExampleProgram(), nil
	}
	if len(args) < 1 {
		return nil, fmt.Errorf("no program given; pass a file or --example")
	}
	return loader.Load(args[0])
}

// initialRegisters returns the default registers overridden by --reg.
func (o *options) initialRegisters() (map[uint8]int64, error) {
	regs := pipeline.DefaultInitialRegisters()
	for name, v := range o.regs {
		reg, ok := insts.ParseReg(name)
		if !ok {
			return nil, fmt.Errorf("invalid register name %q", name)
		}
		regs[reg] = v
	}
	return regs, nil
}

// newCore builds a configured core with the program loaded.
func (o *options) newCore(cmd *cobra.Command, args []string) (*core.Core, *loader.Program, error) {
	prog, err := o.loadProgram(args)
	if err != nil {
		return nil, nil, err
	}

	c := core.NewCore(
		core.WithLogger(o.newLogger(cmd.ErrOrStderr())),
		core.WithPipelineOptions(
			pipeline.WithROBSize(o.robSize),
			pipeline.WithStationCounts(o.addStations, o.mulStations),
		),
	)

	if o.configPath != "" {
		config, err := latency.LoadConfig(o.configPath)
		if err != nil {
			return nil, nil, err
		}
		if err := c.SetTimingConfig(config); err != nil {
			return nil, nil, err
		}
	}

	regs, err := o.initialRegisters()
	if err != nil {
		return nil, nil, err
	}
	if err := c.Configure(nil, regs); err != nil {
		return nil, nil, err
	}

	if c.LoadSource(prog.Lines, prog.LineNumbers) == 0 {
		return nil, nil, fmt.Errorf("%s: no valid instructions", prog.Name)
	}

	return c, prog, nil
}
