package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

func newRunCmd(o *options) *cobra.Command {
	var (
		trace     bool
		dump      bool
		maxCycles uint64
	)

	cmd := &cobra.Command{
		Use:   "run [program]",
		Short: "Run a program to completion",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, prog, err := o.newCore(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			engine := sim.NewSerialEngine()
			comp := core.NewComponent("Core", engine, 1*sim.GHz, c)
			comp.SetMaxCycles(maxCycles)
			if trace {
				comp.OnStep(func(cycle uint64, events []pipeline.Event) {
					fmt.Fprintf(out, "--- cycle %d ---\n", cycle)
					printEvents(out, events)
				})
			}

			comp.Start()
			if err := engine.Run(); err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			printReport(out, prog.Name, c)

			if dump {
				spew.Fdump(out, c.Pipeline.Snapshot())
			}

			if !c.IsFinished() {
				return fmt.Errorf("stopped after %d cycles without finishing", c.Cycle())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "print the events of every cycle")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the final engine state")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 100000, "stop after this many cycles (0 for no limit)")

	return cmd
}
